package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/shotflow/pkg/models"
)

// Provider is a completion backend. Implementations normalize their native
// response shape into models.CompletionResult so callers never branch on
// which backend is in use.
type Provider interface {
	// Complete sends the assembled instructions plus conversation history to
	// the backend and returns the normalized result. One blocking call, no
	// retries: a failure surfaces immediately to the caller.
	Complete(ctx context.Context, instructions string, history []models.Message) (*models.CompletionResult, error)

	// Name returns the provider's registry identifier.
	Name() string
}

// Sentinel errors for the three failure classes of the gateway.
var (
	// ErrProviderUnavailable means the backend is not configured at all;
	// typically a missing credential. A configuration problem, not a
	// request-level one.
	ErrProviderUnavailable = errors.New("completion provider not configured")

	// ErrUpstream means the backend was reachable but rejected the call or
	// timed out. The upstream message is wrapped and passed through.
	ErrUpstream = errors.New("completion provider call failed")

	// ErrInvalidResponse means the backend answered with an unexpected or
	// empty shape. Treated as the upstream failure class.
	ErrInvalidResponse = errors.New("completion provider returned an invalid response")
)

// Registry maps provider identifiers to implementations. Selection is
// explicit by identifier: callers either name a provider per request or get
// the configured default. There is no fallthrough between providers.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewRegistry creates an empty registry with the given default provider id.
func NewRegistry(defaultProvider string) *Registry {
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// Register adds a provider under its own name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Resolve returns the provider for the given id, or the default provider
// when id is empty. An unknown id or an unconfigured default both surface as
// ErrProviderUnavailable.
func (r *Registry) Resolve(id string) (Provider, error) {
	if id == "" {
		id = r.defaultProvider
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no default provider configured", ErrProviderUnavailable)
	}
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderUnavailable, id)
	}
	return p, nil
}

// Names lists the registered provider identifiers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
