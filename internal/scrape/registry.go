package scrape

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownResort marks a lookup for a resort id that was never configured.
// It is a configuration-level failure, distinct from network errors, and is
// never retried.
var ErrUnknownResort = errors.New("unknown resort id")

// Source binds one resort to its report URL, extractor, selector overrides,
// and normalization schema. Coordinates, when present, enable the weather
// fallback.
type Source struct {
	ResortID  string
	Name      string
	State     string
	URL       string
	Extractor Extractor
	Selectors Selectors
	Latitude  *float64
	Longitude *float64
}

// Registry is the immutable resort → source table, built once at startup.
// It replaces any ambient lookup state: callers own a Registry value and
// pass it where needed.
type Registry struct {
	sources map[string]Source
	ids     []string
}

// NewRegistry builds a registry from sources, validating each one.
// Selector validation happens here so a malformed selector fails startup
// instead of surfacing mid-refresh.
func NewRegistry(sources []Source) (*Registry, error) {
	r := &Registry{sources: make(map[string]Source, len(sources))}
	for _, src := range sources {
		if src.ResortID == "" {
			return nil, errors.New("source missing resort id")
		}
		if src.URL == "" {
			return nil, fmt.Errorf("resort %s: missing report url", src.ResortID)
		}
		if src.Extractor == nil {
			return nil, fmt.Errorf("resort %s: missing extractor", src.ResortID)
		}
		if err := ValidateSelectors(src.Selectors); err != nil {
			return nil, fmt.Errorf("resort %s: %w", src.ResortID, err)
		}
		if _, dup := r.sources[src.ResortID]; dup {
			return nil, fmt.Errorf("resort %s: configured twice", src.ResortID)
		}
		r.sources[src.ResortID] = src
		r.ids = append(r.ids, src.ResortID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// Lookup returns the source for a resort id, or ErrUnknownResort.
func (r *Registry) Lookup(resortID string) (Source, error) {
	src, ok := r.sources[resortID]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownResort, resortID)
	}
	return src, nil
}

// IDs returns all configured resort ids in stable order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len reports the number of configured resorts.
func (r *Registry) Len() int { return len(r.ids) }
