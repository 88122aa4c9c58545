package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/adi-253/chathub/internal/models"
	"github.com/go-playground/validator/v10"
)

// Identity is what a provider vouches for when a connection authenticates.
type Identity struct {
	DisplayName string

	// Subject is the token subject, empty for name-only identities
	Subject string
}

// IdentityProvider decides who a connection is.
type IdentityProvider interface {
	Identify(ctx context.Context, req models.AuthenticateRequest) (Identity, error)
}

type displayNameRule struct {
	DisplayName string `validate:"required,max=64"`
}

// NameProvider accepts any non-blank display name of reasonable length.
type NameProvider struct {
	validate *validator.Validate
}

func NewNameProvider() *NameProvider {
	return &NameProvider{validate: validator.New()}
}

func (p *NameProvider) Identify(_ context.Context, req models.AuthenticateRequest) (Identity, error) {
	name, err := p.check(req.DisplayName)
	if err != nil {
		return Identity{}, err
	}
	return Identity{DisplayName: name}, nil
}

func (p *NameProvider) check(displayName string) (string, error) {
	rule := displayNameRule{DisplayName: strings.TrimSpace(displayName)}
	if err := p.validate.Struct(rule); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidIdentity, err)
	}
	return rule.DisplayName, nil
}
