package patterns

import (
	"context"
	"sync"
	"time"

	apperrors "finassist/internal/common/errors"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
)

// Library is the injectable owner of the active pattern sets. It starts on
// the built-in fallback tables and swaps in remote sets wholly on a
// successful refresh; fallback and remote sets are never merged. Reads see
// whichever set was active when they started.
type Library struct {
	mu     sync.RWMutex
	source Source
	logger logger.Logger

	cacheDuration time.Duration
	intents       []IntentPattern
	entities      []EntityPattern
	lastRefresh   time.Time
	remoteActive  bool

	now func() time.Time
}

// NewLibrary creates a Library seeded with the fallback tables. source may
// be nil for a local-only library.
func NewLibrary(source Source, cacheDuration time.Duration, log logger.Logger) *Library {
	metrics.FallbackActive.Set(1)
	return &Library{
		source:        source,
		logger:        log.With(map[string]interface{}{"component": "patternLibrary"}),
		cacheDuration: cacheDuration,
		intents:       fallbackIntentPatterns(),
		entities:      fallbackEntityPatterns(),
		now:           time.Now,
	}
}

// IntentPatterns returns the active intent pattern set. Callers must treat
// the slice as read-only; refresh replaces it wholesale rather than
// mutating in place.
func (l *Library) IntentPatterns() []IntentPattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intents
}

// EntityPatterns returns the active entity pattern set.
func (l *Library) EntityPatterns() []EntityPattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entities
}

// ShouldRefresh reports whether the cache duration has elapsed since the
// last successful refresh. A library that has never refreshed always wants
// one.
func (l *Library) ShouldRefresh() bool {
	if l.source == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.now().Sub(l.lastRefresh) > l.cacheDuration
}

// Refresh fetches both remote sets and swaps them in atomically. Any
// failure leaves the prior sets untouched (fail-open): the error is
// returned for logging but must never block classification.
func (l *Library) Refresh(ctx context.Context) error {
	if l.source == nil {
		return nil
	}

	intents, err := l.source.FetchIntentPatterns(ctx)
	if err != nil {
		return l.refreshFailed(err)
	}

	entities, err := l.source.FetchEntityPatterns(ctx)
	if err != nil {
		return l.refreshFailed(err)
	}

	l.mu.Lock()
	l.intents = intents
	l.entities = entities
	l.lastRefresh = l.now()
	l.remoteActive = true
	l.mu.Unlock()

	metrics.PatternRefreshes.WithLabelValues("success").Inc()
	metrics.FallbackActive.Set(0)
	l.logger.Info("pattern sets refreshed", map[string]interface{}{
		"intentPatterns": len(intents),
		"entityPatterns": len(entities),
	})
	return nil
}

func (l *Library) refreshFailed(err error) error {
	metrics.PatternRefreshes.WithLabelValues("failure").Inc()
	l.logger.Warn("pattern refresh failed, keeping active set", map[string]interface{}{
		"error": err.Error(),
	})
	return apperrors.NewPatternFetchError(err.Error())
}

// RemoteActive reports whether a remote set has ever been installed.
func (l *Library) RemoteActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.remoteActive
}
