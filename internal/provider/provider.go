// Package provider implements delivery providers for rendered campaigns.
//
// A provider takes a fully generated campaign (subject + HTML) and delivers
// it somewhere: object storage for the HTML-export workflow, or an SMTP
// server for direct sending. Providers are pluggable behind one interface
// so new delivery targets (ESP APIs) slot in without touching the
// generation path.
package provider

import (
	"context"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Provider delivers a rendered campaign.
type Provider interface {
	// Name identifies the provider ("html_export", "smtp").
	Name() string

	// Deliver hands the campaign off. Implementations are responsible for
	// their own retries; a returned error means delivery did not happen.
	Deliver(ctx context.Context, campaign domain.Campaign) error
}

// =============================================================================
// Registry
// =============================================================================

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a Registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider with the given name, or a domain.ENOTFOUND error.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domain.NotFound("provider.get", "provider", name)
	}
	return p, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
