// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/keep/internal/adapters/config"
	_ "go.trai.ch/keep/internal/adapters/logger"
	_ "go.trai.ch/keep/internal/adapters/notifier"
	_ "go.trai.ch/keep/internal/adapters/querycache"
	_ "go.trai.ch/keep/internal/adapters/telemetry"
	_ "go.trai.ch/keep/internal/adapters/upstream"
	// Register app and engine nodes.
	_ "go.trai.ch/keep/internal/app"
	_ "go.trai.ch/keep/internal/engine/caches"
	_ "go.trai.ch/keep/internal/engine/invalidation"
)
