package subscription

import (
	"time"

	"podclaw/internal/textutil"
)

// Subscription is one registered podcast.
type Subscription struct {
	Alias          string
	FeedURL        string
	DownloadPath   string
	UpdateInterval time.Duration
	CacheTimestamp time.Time
	// CacheContent is the feed document exactly as last fetched.
	CacheContent string
	IsLocked     bool
}

// CacheAge returns how long ago the cache was refreshed. The second result is
// false when the timestamp lies in the future.
func (s Subscription) CacheAge(now time.Time) (time.Duration, bool) {
	if now.Before(s.CacheTimestamp) {
		return 0, false
	}
	return now.Sub(s.CacheTimestamp), true
}

// Collection is the ordered set of subscriptions persisted as one unit.
type Collection struct {
	Subscriptions []Subscription
}

// Len returns the number of subscriptions.
func (c Collection) Len() int {
	return len(c.Subscriptions)
}

// Find returns the index of the subscription whose alias matches under
// Unicode case folding. The first match wins.
func (c Collection) Find(alias string) (int, bool) {
	key := textutil.FoldKey(alias)
	for i, sub := range c.Subscriptions {
		if textutil.FoldKey(sub.Alias) == key {
			return i, true
		}
	}
	return -1, false
}

func (c Collection) checkIndex(index int) error {
	if index < 0 || index >= len(c.Subscriptions) {
		return indexError(index, len(c.Subscriptions))
	}
	return nil
}

// clone copies the slice so mutations never reach the caller's Collection.
func (c Collection) clone() Collection {
	if c.Subscriptions == nil {
		return Collection{}
	}
	out := make([]Subscription, len(c.Subscriptions))
	copy(out, c.Subscriptions)
	return Collection{Subscriptions: out}
}

// aliasTaken reports whether alias collides with any subscription other than
// skip. Pass -1 to check the whole collection.
func (c Collection) aliasTaken(alias string, skip int) bool {
	for i, sub := range c.Subscriptions {
		if i != skip && textutil.EqualFold(sub.Alias, alias) {
			return true
		}
	}
	return false
}
