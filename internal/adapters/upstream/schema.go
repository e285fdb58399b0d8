package upstream

import (
	"time"

	"go.trai.ch/keep/internal/core/domain"
)

// FixtureFile represents the structure of an upstream fixture file.
type FixtureFile struct {
	// Latency delays every call, e.g. "20ms".
	Latency     string `yaml:"latency"`
	MaxQueryIDs int    `yaml:"maxQueryIds"`
	// Objects maps bucket to object ID to content. Binary content can use
	// the !!binary tag.
	Objects    map[string]map[string]string `yaml:"objects"`
	Principals []PrincipalDTO               `yaml:"principals"`
	// Documents maps collection name to its documents.
	Documents map[string][]DocumentDTO `yaml:"documents"`
	// Failures lists IDs whose every call fails.
	Failures []string `yaml:"failures"`
}

// PrincipalDTO is a principal record in a fixture file.
type PrincipalDTO struct {
	ID           string         `yaml:"id"`
	DisplayName  string         `yaml:"displayName"`
	Email        string         `yaml:"email"`
	PhotoURL     string         `yaml:"photoUrl"`
	Disabled     bool           `yaml:"disabled"`
	PhoneNumber  string         `yaml:"phoneNumber"`
	PasswordHash string         `yaml:"passwordHash"`
	CustomClaims map[string]any `yaml:"customClaims"`
	LastSignIn   time.Time      `yaml:"lastSignIn"`
}

// DocumentDTO is a document in a fixture file.
type DocumentDTO struct {
	ID     string         `yaml:"id"`
	Fields map[string]any `yaml:"fields"`
}

func (p PrincipalDTO) toDomain() domain.Principal {
	return domain.Principal{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		Email:        p.Email,
		PhotoURL:     p.PhotoURL,
		Disabled:     p.Disabled,
		PhoneNumber:  p.PhoneNumber,
		PasswordHash: p.PasswordHash,
		CustomClaims: p.CustomClaims,
		LastSignIn:   p.LastSignIn,
	}
}
