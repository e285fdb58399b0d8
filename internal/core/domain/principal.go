package domain

import "time"

// Principal is the full identity record returned by the identity service.
// It carries attributes that must never be cached.
type Principal struct {
	ID           string
	DisplayName  string
	Email        string
	PhotoURL     string
	Disabled     bool
	PhoneNumber  string
	PasswordHash string
	CustomClaims map[string]any
	LastSignIn   time.Time
}

// PrincipalView is the safe subset of a Principal that the identity cache stores.
type PrincipalView struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
	Disabled    bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// View projects the principal down to its safe fields.
func (p *Principal) View() PrincipalView {
	return PrincipalView{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PhotoURL:    p.PhotoURL,
		Disabled:    p.Disabled,
	}
}
