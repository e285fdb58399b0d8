package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			lg := New()
			if l, ok := lg.(*Logger); ok {
				l.SetJSON(UseJSON(os.Getenv(FormatEnvVar), stderrIsTerminal()))
			}
			return lg, nil
		},
	})
}
