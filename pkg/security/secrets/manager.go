package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Manager tries several providers in order. The first provider that has a
// value wins.
type Manager struct {
	providers []SecretProvider
}

// NewManager creates a manager that consults providers in the given order.
func NewManager(providers ...SecretProvider) *Manager {
	return &Manager{providers: providers}
}

// GetSecret returns the first value found for name. A provider error other
// than ErrNotFound stops the search, so a mounted token with broken
// permissions is reported rather than silently skipped.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	for _, provider := range m.providers {
		value, err := provider.GetSecret(ctx, name)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%s provider: %w", provider.Provider(), err)
		}
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Lookup is GetSecret for callers that treat a missing secret as empty.
func (m *Manager) Lookup(ctx context.Context, name string) (string, error) {
	value, err := m.GetSecret(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
