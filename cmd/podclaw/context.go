package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"podclaw/internal/config"
	"podclaw/internal/episodes"
	"podclaw/internal/feed"
	"podclaw/internal/logging"
	"podclaw/internal/storage"
	"podclaw/internal/subscription"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		verbose := c.verboseFlag != nil && *c.verboseFlag
		logger, err := logging.NewFromConfig(cfg, verbose)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// session carries everything a storage-backed command needs for one
// invocation. The collection is owned by the session and replaced after
// each successful mutation.
type session struct {
	ctx        context.Context
	cfg        *config.Config
	logger     *slog.Logger
	log        *slog.Logger
	out        *presenter
	store      *storage.Store
	feeds      *feed.Client
	manager    *subscription.Manager
	collection subscription.Collection
	stderr     io.Writer
}

// withStore resolves config and logging, takes the storage lock and runs fn.
// The collection is not loaded.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	out := newPresenter(cmd.OutOrStdout())
	if cfg.StorageFallback() {
		out.important("Can't find config directory on this system, keeping storage file in working directory...")
		logging.WarnWithContext(logger, "config directory unavailable", "storage_fallback",
			logging.String(logging.FieldPath, cfg.StoragePath()),
			logging.String(logging.FieldErrorHint, "set paths.storage_file to pin the storage location"),
			logging.String(logging.FieldImpact, "storage file kept in the working directory"))
	}

	store := storage.NewStore(cfg.StoragePath(), logger)
	release, err := store.Lock(cmd.Context(), cfg.LockTimeout())
	if err != nil {
		return err
	}
	defer release()

	feeds := feed.NewClient(feed.NewHTTPFetcher(
		feed.WithUserAgent(cfg.Feeds.UserAgent),
		feed.WithTimeout(cfg.FeedTimeout()),
		feed.WithLogger(logger),
	), feed.NewGofeedParser())

	s := &session{
		ctx:     cmd.Context(),
		cfg:     cfg,
		logger:  logger,
		log:     logging.NewComponentLogger(logger, "cli").With(logging.String("command", cmd.Name())),
		out:     out,
		store:   store,
		feeds:   feeds,
		manager: subscription.NewManager(store, feeds, subscription.WithLogger(logger)),
		stderr:  cmd.ErrOrStderr(),
	}
	if err := fn(s); err != nil {
		logging.ErrorWithContext(s.log, "command failed", "command_failed", logging.Error(err))
		return err
	}
	return nil
}

// withCollection is withStore plus loading the collection. A load failure
// stops the command before fn runs.
func (c *commandContext) withCollection(cmd *cobra.Command, fn func(*session) error) error {
	return c.withStore(cmd, func(s *session) error {
		collection, err := s.store.Load()
		if err != nil {
			return err
		}
		s.collection = collection
		return fn(s)
	})
}

// find resolves alias to an index in the loaded collection.
func (s *session) find(alias string) (int, error) {
	index, ok := s.collection.Find(alias)
	if !ok {
		return -1, fmt.Errorf("%w: %q", subscription.ErrAliasNotFound, alias)
	}
	return index, nil
}

// autocache refreshes the subscription at index when its cache is stale and
// reports what happened. Refresh failures only warn.
func (s *session) autocache(index int) error {
	updated, result, err := s.manager.Autocache(s.ctx, s.collection, index)
	if err != nil {
		return err
	}
	s.collection = updated

	switch result.Outcome {
	case subscription.AutocacheRefreshed:
		if result.ClockSkew {
			s.out.important("This podcast's cache timestamp is in the future, updating...")
		} else {
			s.out.important("This podcast's cache is outdated, updating...")
		}
		s.out.done("Cache updated!")
	case subscription.AutocacheFailed:
		s.out.important(autocacheFailure(result.Warning))
	}
	return nil
}

// episodeAccess builds episode access with a downloader honouring the
// download settings. Progress bars only render on a terminal.
func (s *session) episodeAccess() *episodes.Access {
	opts := []feed.Option{
		feed.WithUserAgent(s.cfg.Feeds.UserAgent),
		feed.WithTimeout(s.cfg.DownloadTimeout()),
		feed.WithLogger(s.logger),
	}
	if s.cfg.Downloads.Progress && isTerminal(s.stderr) {
		opts = append(opts, feed.WithProgress(newProgressFunc(s.stderr, "downloading")))
	}
	return episodes.NewAccess(feed.NewGofeedParser(), feed.NewHTTPFetcher(opts...), s.logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
