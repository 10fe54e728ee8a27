package episodes_test

import (
	"errors"
	"reflect"
	"testing"

	"podclaw/internal/episodes"
	"podclaw/internal/feed"
	"podclaw/internal/subscription"
)

func titles(eps []feed.Episode) []string {
	out := make([]string, 0, len(eps))
	for _, ep := range eps {
		out = append(out, ep.Title)
	}
	return out
}

func abc() *feed.Feed {
	return &feed.Feed{Episodes: []feed.Episode{{Title: "A"}, {Title: "B"}, {Title: "C"}}}
}

func TestResolveOrderDefaultReverses(t *testing.T) {
	f := abc()
	if got := titles(episodes.ResolveOrder(f, false)); !reflect.DeepEqual(got, []string{"C", "B", "A"}) {
		t.Fatalf("default order = %v", got)
	}
	if got := titles(episodes.ResolveOrder(f, true)); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("reverse flag order = %v", got)
	}
	if got := titles(f.Episodes); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("feed was mutated: %v", got)
	}
}

func TestResolveOrderHandlesEmptyFeeds(t *testing.T) {
	if got := episodes.ResolveOrder(&feed.Feed{}, false); len(got) != 0 {
		t.Fatalf("expected no episodes, got %v", got)
	}
	if got := episodes.ResolveOrder(nil, true); got != nil {
		t.Fatalf("expected nil for nil feed, got %v", got)
	}
}

func TestSelectUsesInclusiveLowerExclusiveUpperBound(t *testing.T) {
	ordered := episodes.ResolveOrder(abc(), false)

	for i, want := range []string{"C", "B", "A"} {
		ep, err := episodes.Select(ordered, i)
		if err != nil || ep.Title != want {
			t.Errorf("Select(%d) = %q, %v; want %q", i, ep.Title, err, want)
		}
	}
	for _, index := range []int{-1, 3, 100} {
		if _, err := episodes.Select(ordered, index); !errors.Is(err, subscription.ErrIndexOutOfRange) {
			t.Errorf("Select(%d): expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
	if _, err := episodes.Select(nil, 0); !errors.Is(err, subscription.ErrIndexOutOfRange) {
		t.Errorf("Select on empty list: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	cases := map[string]struct {
		alias string
		index int
		title string
		want  string
	}{
		"plain":     {"foo", 0, "Episode 1", "[foo - 0] Episode 1.mp3"},
		"slashes":   {"foo", 3, "Part 1/2: Intro", "[foo - 3] Part 1-2- Intro.mp3"},
		"blank":     {"foo", 1, "  ", "[foo - 1] episode.mp3"},
		"alias dir": {"a/b", 2, "X", "[a-b - 2] X.mp3"},
	}
	for name, tc := range cases {
		if got := episodes.FileName(tc.alias, tc.index, tc.title); got != tc.want {
			t.Errorf("%s: FileName = %q, want %q", name, got, tc.want)
		}
	}
}
