package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"podclaw/internal/feed"
	"podclaw/internal/logging"
)

// Persister writes the whole Collection in one complete write.
type Persister interface {
	Save(c Collection) error
}

// FeedSource fetches a feed and returns both the raw document and its parsed
// form.
type FeedSource interface {
	FetchFeed(ctx context.Context, rawURL string) ([]byte, *feed.Feed, error)
}

// Manager applies subscription operations and persists their results.
type Manager struct {
	store  Persister
	feeds  FeedSource
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager constructs a Manager.
func NewManager(store Persister, feeds FeedSource, opts ...Option) *Manager {
	m := &Manager{store: store, feeds: feeds, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "subscription")
	return m
}

func (m *Manager) timestamp() time.Time {
	return m.now().UTC()
}

func (m *Manager) persist(c Collection) error {
	if err := m.store.Save(c); err != nil {
		return fmt.Errorf("persist subscriptions: %w", err)
	}
	return nil
}

// AddRequest describes a new subscription.
type AddRequest struct {
	Alias         string
	FeedURL       string
	DownloadPath  string
	IntervalHours int
	Lock          bool
}

// Add registers a new subscription after fetching and parsing its feed. The
// alias is checked before any network access.
func (m *Manager) Add(ctx context.Context, c Collection, req AddRequest) (Collection, *feed.Feed, error) {
	alias := strings.TrimSpace(req.Alias)
	if alias == "" {
		return c, nil, ErrInvalidAlias
	}
	if err := checkHours(req.IntervalHours); err != nil {
		return c, nil, err
	}
	if c.aliasTaken(alias, -1) {
		return c, nil, aliasError(ErrAliasConflict, alias)
	}

	raw, parsed, err := m.feeds.FetchFeed(ctx, req.FeedURL)
	if err != nil {
		return c, nil, err
	}

	out := c.clone()
	out.Subscriptions = append(out.Subscriptions, Subscription{
		Alias:          alias,
		FeedURL:        strings.TrimSpace(req.FeedURL),
		DownloadPath:   req.DownloadPath,
		UpdateInterval: hours(req.IntervalHours),
		CacheTimestamp: m.timestamp(),
		CacheContent:   string(raw),
		IsLocked:       req.Lock,
	})
	if err := m.persist(out); err != nil {
		return c, nil, err
	}
	m.logger.Info("subscription added",
		logging.String(logging.FieldAlias, alias),
		logging.String(logging.FieldURL, req.FeedURL),
		logging.Int("episodes", len(parsed.Episodes)),
		logging.Bool("locked", req.Lock))
	return out, parsed, nil
}

// Remove deletes the subscription at index, keeping the order of the rest.
func (m *Manager) Remove(c Collection, index int) (Collection, error) {
	if err := c.checkIndex(index); err != nil {
		return c, err
	}
	alias := c.Subscriptions[index].Alias

	out := c.clone()
	out.Subscriptions = append(out.Subscriptions[:index], out.Subscriptions[index+1:]...)
	if err := m.persist(out); err != nil {
		return c, err
	}
	m.logger.Info("subscription removed", logging.String(logging.FieldAlias, alias))
	return out, nil
}

// EditRequest lists the fields to change. Nil fields are left untouched.
type EditRequest struct {
	Alias         *string
	FeedURL       *string
	DownloadPath  *string
	IntervalHours *int
}

// Empty reports whether no field was supplied.
func (r EditRequest) Empty() bool {
	return r.Alias == nil && r.FeedURL == nil && r.DownloadPath == nil && r.IntervalHours == nil
}

// Edit applies the supplied fields and persists once. A locked subscription
// rejects the whole request. Edit never fetches the feed, so a new URL is
// picked up by the next refresh.
func (m *Manager) Edit(c Collection, index int, req EditRequest) (Collection, error) {
	if err := c.checkIndex(index); err != nil {
		return c, err
	}
	current := c.Subscriptions[index]
	if current.IsLocked {
		return c, aliasError(ErrPodcastLocked, current.Alias)
	}
	if req.Empty() {
		return c, ErrNoChanges
	}

	updated := current
	if req.Alias != nil {
		alias := strings.TrimSpace(*req.Alias)
		if alias == "" {
			return c, ErrInvalidAlias
		}
		if c.aliasTaken(alias, index) {
			return c, aliasError(ErrAliasConflict, alias)
		}
		updated.Alias = alias
	}
	if req.FeedURL != nil {
		updated.FeedURL = strings.TrimSpace(*req.FeedURL)
	}
	if req.DownloadPath != nil {
		updated.DownloadPath = *req.DownloadPath
	}
	if req.IntervalHours != nil {
		if err := checkHours(*req.IntervalHours); err != nil {
			return c, err
		}
		updated.UpdateInterval = hours(*req.IntervalHours)
	}

	out := c.clone()
	out.Subscriptions[index] = updated
	if err := m.persist(out); err != nil {
		return c, err
	}
	m.logger.Info("subscription edited",
		logging.String(logging.FieldAlias, current.Alias),
		logging.String("new_alias", updated.Alias))
	return out, nil
}

// Update refreshes the cache regardless of its age.
func (m *Manager) Update(ctx context.Context, c Collection, index int) (Collection, error) {
	if err := c.checkIndex(index); err != nil {
		return c, err
	}
	if sub := c.Subscriptions[index]; sub.IsLocked {
		return c, aliasError(ErrPodcastLocked, sub.Alias)
	}
	return m.refresh(ctx, c, index)
}

// ToggleLock flips the lock flag and persists. The current lock state never
// blocks it.
func (m *Manager) ToggleLock(c Collection, index int) (Collection, bool, error) {
	if err := c.checkIndex(index); err != nil {
		return c, false, err
	}
	out := c.clone()
	out.Subscriptions[index].IsLocked = !out.Subscriptions[index].IsLocked
	locked := out.Subscriptions[index].IsLocked
	if err := m.persist(out); err != nil {
		return c, c.Subscriptions[index].IsLocked, err
	}
	m.logger.Info("subscription lock toggled",
		logging.String(logging.FieldAlias, out.Subscriptions[index].Alias),
		logging.Bool("locked", locked))
	return out, locked, nil
}

// refresh fetches the feed and, on success, replaces the cache and persists.
// On any failure the input Collection is returned unchanged.
func (m *Manager) refresh(ctx context.Context, c Collection, index int) (Collection, error) {
	sub := c.Subscriptions[index]
	raw, _, err := m.feeds.FetchFeed(ctx, sub.FeedURL)
	if err != nil {
		return c, err
	}

	out := c.clone()
	out.Subscriptions[index].CacheContent = string(raw)
	out.Subscriptions[index].CacheTimestamp = m.timestamp()
	if err := m.persist(out); err != nil {
		return c, err
	}
	m.logger.Info("subscription cache refreshed",
		logging.String(logging.FieldAlias, sub.Alias),
		logging.Int("bytes", len(raw)))
	return out, nil
}

// MaxIntervalHours is the largest update interval that fits in a
// time.Duration.
const MaxIntervalHours = int(math.MaxInt64 / int64(time.Hour))

func checkHours(n int) error {
	if n < 0 || n > MaxIntervalHours {
		return fmt.Errorf("%w: %d hours", ErrInvalidInterval, n)
	}
	return nil
}

func hours(n int) time.Duration {
	return time.Duration(n) * time.Hour
}
