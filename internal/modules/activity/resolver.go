package activity

import (
	"strings"
	"sync"
)

// DefaultNotifyURL is the fallback notification target used when the
// settings document is absent or unreadable. Treated as an opaque string.
const DefaultNotifyURL = "https://discord.com/api/webhooks/1199400000000000000/otakulib-activity-fallback"

// LookupFunc reads the configured webhook target from the settings
// document. Called at most once per process lifetime.
type LookupFunc func() (string, error)

// Resolver resolves the webhook notification target. The first outcome,
// remote value or fallback default, is cached for the process lifetime;
// a failed lookup is not retried.
type Resolver struct {
	lookup LookupFunc

	mu       sync.Mutex
	resolved bool
	target   string
}

// NewResolver creates a resolver backed by the given lookup.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Target returns the notification target. Resolution always succeeds with
// some value; errors from the lookup degrade to DefaultNotifyURL.
func (r *Resolver) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.target
	}

	target := DefaultNotifyURL
	if r.lookup != nil {
		if v, err := r.lookup(); err == nil && strings.TrimSpace(v) != "" {
			target = strings.TrimSpace(v)
		}
	}
	r.target = target
	r.resolved = true
	return target
}
