package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Provider is one named configuration profile for a managed application.
type Provider struct {
	// ID is unique within its registry.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// SettingsConfig is the payload written to the live files when active.
	SettingsConfig json.RawMessage `json:"settingsConfig"`
	// WebsiteURL optionally links to the provider's site.
	WebsiteURL *string `json:"websiteUrl,omitempty"`
	// Category optionally groups providers in listings.
	Category *string `json:"category,omitempty"`
	// CreatedAt is the creation time in unix milliseconds.
	CreatedAt *int64 `json:"createdAt,omitempty"`
}

// NewProvider creates a provider with the given id, name and payload.
func NewProvider(id, name string, settingsConfig json.RawMessage) Provider {
	return Provider{
		ID:             id,
		Name:           name,
		SettingsConfig: settingsConfig,
	}
}

// Clone returns a deep copy of the provider.
func (p Provider) Clone() Provider {
	out := p
	if p.SettingsConfig != nil {
		out.SettingsConfig = append(json.RawMessage(nil), p.SettingsConfig...)
	}
	if p.WebsiteURL != nil {
		v := *p.WebsiteURL
		out.WebsiteURL = &v
	}
	if p.Category != nil {
		v := *p.Category
		out.Category = &v
	}
	if p.CreatedAt != nil {
		v := *p.CreatedAt
		out.CreatedAt = &v
	}
	return out
}

// Registry holds every provider of one application plus the active pointer.
// Current is either empty or a key of Providers.
type Registry struct {
	Providers map[string]Provider `json:"providers"`
	Current   string              `json:"current"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Providers: map[string]Provider{}}
}

// List returns a snapshot of all providers keyed by id.
func (r *Registry) List() map[string]Provider {
	out := make(map[string]Provider, len(r.Providers))
	for id, p := range r.Providers {
		out[id] = p.Clone()
	}
	return out
}

// IDs returns the provider ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.Providers))
	for id := range r.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	return len(r.Providers)
}

// Get returns a copy of the provider with the given id.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.Providers[id]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.Clone(), nil
}

// Has reports whether a provider with the given id exists.
func (r *Registry) Has(id string) bool {
	_, ok := r.Providers[id]
	return ok
}

// Upsert inserts the provider or replaces the one with the same id.
func (r *Registry) Upsert(p Provider) {
	if r.Providers == nil {
		r.Providers = map[string]Provider{}
	}
	r.Providers[p.ID] = p.Clone()
}

// Remove deletes a provider and returns it. The active provider cannot be removed.
func (r *Registry) Remove(id string) (Provider, error) {
	if id == r.Current {
		return Provider{}, fmt.Errorf("%w: cannot delete the provider currently in use: %s", ErrInvalidOperation, id)
	}
	p, ok := r.Providers[id]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.Providers, id)
	return p, nil
}

// GetCurrent returns the active provider id, possibly empty.
func (r *Registry) GetCurrent() string {
	return r.Current
}

// SetCurrent sets the active provider id. The caller verifies the id exists.
func (r *Registry) SetCurrent(id string) {
	r.Current = id
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	return &Registry{Providers: r.List(), Current: r.Current}
}

// Valid reports whether Current is empty or refers to an existing provider.
func (r *Registry) Valid() bool {
	return r.Current == "" || r.Has(r.Current)
}
