package engines

import (
	"context"
	"slices"
	"sync"

	"github.com/dukex/flowbit/pkg/models"
)

type fallbacksKey struct{}

// Fallback is one occasion on which mock data replaced an engine's answer.
// A nil Reason means the engine is not configured.
type Fallback struct {
	Engine    models.Engine
	Operation Operation
	Reason    error
}

// Fallbacks collects the fallbacks that happen while serving one request.
type Fallbacks struct {
	mu      sync.Mutex
	entries []Fallback
}

// TrackFallbacks returns a context under which adapters record their fallbacks.
func TrackFallbacks(ctx context.Context) (context.Context, *Fallbacks) {
	fallbacks := &Fallbacks{}

	return context.WithValue(ctx, fallbacksKey{}, fallbacks), fallbacks
}

func (f *Fallbacks) Entries() []Fallback {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.entries)
}

// Used reports whether engine fell back to mock data.
func (f *Fallbacks) Used(engine models.Engine) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.ContainsFunc(f.entries, func(entry Fallback) bool {
		return entry.Engine == engine
	})
}

func recordFallback(ctx context.Context, fallback Fallback) {
	fallbacks, ok := ctx.Value(fallbacksKey{}).(*Fallbacks)
	if !ok {
		return
	}

	fallbacks.mu.Lock()
	fallbacks.entries = append(fallbacks.entries, fallback)
	fallbacks.mu.Unlock()
}
