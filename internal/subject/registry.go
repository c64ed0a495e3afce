// Package subject reconciles noisy extracted subject codes into stable
// canonical identifiers and applies the allow-list filter.
package subject

import "marksheet/internal/normalize"

// Registry is the ordered set of canonical codes known to a run: workbook
// headers, user-declared filter codes, and codes discovered while the run
// proceeds. Membership is unique by normalized form. Insertion order is
// preserved and acts as the tie-break for similarity matching (first-seen
// wins).
type Registry struct {
	order []string          // normalized keys, insertion order
	canon map[string]string // normalized key -> canonical display form
}

// NewRegistry builds a registry seeded with the given codes, in order.
// Codes that normalize to an already-registered key are ignored.
func NewRegistry(seed ...string) *Registry {
	r := &Registry{canon: make(map[string]string)}
	for _, c := range seed {
		r.Add(c)
	}
	return r
}

// Add registers code under its normalized key, keeping the given spelling as
// the canonical form. Reports whether a new entry was created.
func (r *Registry) Add(code string) bool {
	key := normalize.Code(code)
	if key == "" {
		return false
	}
	if _, ok := r.canon[key]; ok {
		return false
	}
	r.order = append(r.order, key)
	r.canon[key] = code
	return true
}

// Lookup returns the canonical form registered under the normalized key.
func (r *Registry) Lookup(key string) (string, bool) {
	c, ok := r.canon[key]
	return c, ok
}

// Keys returns the normalized keys in insertion order. The slice is shared;
// callers must not mutate it.
func (r *Registry) Keys() []string {
	return r.order
}

func (r *Registry) Len() int {
	return len(r.order)
}
