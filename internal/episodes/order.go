package episodes

import (
	"fmt"

	"podclaw/internal/feed"
	"podclaw/internal/subscription"
)

// ResolveOrder returns the episodes of f in display order. With reverse unset
// the document order is reversed; with reverse set it is kept. f is never
// modified.
func ResolveOrder(f *feed.Feed, reverse bool) []feed.Episode {
	if f == nil {
		return nil
	}
	out := make([]feed.Episode, len(f.Episodes))
	if reverse {
		copy(out, f.Episodes)
		return out
	}
	last := len(f.Episodes) - 1
	for i, ep := range f.Episodes {
		out[last-i] = ep
	}
	return out
}

// Select returns episodes[index] when 0 <= index < len(episodes).
func Select(episodes []feed.Episode, index int) (feed.Episode, error) {
	if index < 0 || index >= len(episodes) {
		return feed.Episode{}, fmt.Errorf("%w: episode %d, %d episodes", subscription.ErrIndexOutOfRange, index, len(episodes))
	}
	return episodes[index], nil
}
