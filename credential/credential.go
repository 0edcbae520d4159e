package credential

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrNoToken is returned when no credential is stored.
var ErrNoToken = errors.New("credential: no token stored")

// ErrTokenExpired is returned by Save when the token's exp claim has passed.
var ErrTokenExpired = errors.New("credential: token already expired")

// ErrReadOnly is returned by Save and Clear on providers that cannot write.
var ErrReadOnly = errors.New("credential: store is read-only")

// Provider reads the current bearer token.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Store is a Provider that can also persist and forget the token.
type Store interface {
	Provider
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Static returns a Provider that always yields token. An empty token
// yields ErrNoToken.
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) (string, error) {
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	})
}

// Env reads the token from an environment variable.
type Env struct {
	Name string
}

// NewEnv creates an Env provider for the named variable.
func NewEnv(name string) *Env {
	return &Env{Name: name}
}

// Token returns the trimmed variable value or ErrNoToken when unset or blank.
func (e *Env) Token(context.Context) (string, error) {
	v, ok := os.LookupEnv(e.Name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// Save is not supported for environment variables.
func (e *Env) Save(context.Context, string) error { return ErrReadOnly }

// Clear is not supported for environment variables.
func (e *Env) Clear(context.Context) error { return ErrReadOnly }

// Memory is an in-process Store, safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates a Memory store seeded with token.
func NewMemory(token string) *Memory { return &Memory{token: token} }

// Token returns the stored token.
func (m *Memory) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

// Save replaces the stored token.
func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Clear forgets the token.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
