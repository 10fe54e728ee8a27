package subscription

import (
	"context"
	"errors"
	"time"

	"podclaw/internal/feed"
	"podclaw/internal/logging"
)

// AutocacheOutcome describes what an autocache pass did.
type AutocacheOutcome int

const (
	// AutocacheLocked means the subscription is locked and was not examined.
	AutocacheLocked AutocacheOutcome = iota
	// AutocacheFresh means the cache is within its update interval.
	AutocacheFresh
	// AutocacheRefreshed means the cache was refetched and persisted.
	AutocacheRefreshed
	// AutocacheFailed means a refresh was due but the fetch or parse failed.
	// The stale cache stays in place.
	AutocacheFailed
)

func (o AutocacheOutcome) String() string {
	switch o {
	case AutocacheLocked:
		return "locked"
	case AutocacheFresh:
		return "fresh"
	case AutocacheRefreshed:
		return "refreshed"
	case AutocacheFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AutocacheResult reports an autocache pass.
type AutocacheResult struct {
	Outcome AutocacheOutcome
	// ClockSkew is set when the cache timestamp was in the future.
	ClockSkew bool
	Age       time.Duration
	// Warning holds the refresh failure for AutocacheFailed.
	Warning error
}

// Autocache refreshes the subscription's cache when it is stale. Refresh
// failures are recoverable: they are reported in the result and the caller
// keeps using the stale cache. The returned error is reserved for failures
// that must stop the invocation, such as a failed persist.
func (m *Manager) Autocache(ctx context.Context, c Collection, index int) (Collection, AutocacheResult, error) {
	if err := c.checkIndex(index); err != nil {
		return c, AutocacheResult{}, err
	}
	sub := c.Subscriptions[index]
	if sub.IsLocked {
		return c, AutocacheResult{Outcome: AutocacheLocked}, nil
	}

	result := AutocacheResult{}
	age, ok := sub.CacheAge(m.now())
	if !ok {
		// The timestamp is ahead of the clock, so the age is undefined.
		result.ClockSkew = true
	} else {
		result.Age = age
		if age <= sub.UpdateInterval {
			result.Outcome = AutocacheFresh
			return c, result, nil
		}
	}

	out, err := m.refresh(ctx, c, index)
	if err != nil {
		if !errors.Is(err, feed.ErrRequest) && !errors.Is(err, feed.ErrInvalidFeed) {
			return c, result, err
		}
		result.Outcome = AutocacheFailed
		result.Warning = err
		logging.WarnWithContext(m.logger, "automatic cache refresh failed",
			"autocache_failed",
			logging.String(logging.FieldAlias, sub.Alias),
			logging.String(logging.FieldURL, sub.FeedURL),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'podclaw update' once the feed is reachable"),
			logging.String(logging.FieldImpact, "stale cache used for this command"))
		return c, result, nil
	}
	result.Outcome = AutocacheRefreshed
	return out, result, nil
}
