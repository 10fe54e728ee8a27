package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"podclaw/internal/fileutil"
	"podclaw/internal/logging"
	"podclaw/internal/subscription"
)

var (
	// ErrStorageCorrupted marks a storage file that is missing or unreadable
	// as a collection.
	ErrStorageCorrupted = errors.New("storage corrupted")
	// ErrStorageIO marks read and lock failures other than a missing file.
	ErrStorageIO = errors.New("storage i/o failure")
	// ErrStorageWrite marks a failed save. The file on disk is unchanged.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrRepairNotConfirmed is returned by Repair without confirmation.
	ErrRepairNotConfirmed = errors.New("no confirmation flag was set")
	// ErrLocked is returned when another process holds the storage lock.
	ErrLocked = errors.New("storage is in use by another podclaw process")
)

const lockRetryDelay = 50 * time.Millisecond

// Store reads and writes the collection at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a Store for path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "storage"),
	}
}

// Path returns the storage file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole collection. A missing file is reported as corruption
// because an absent collection must be created explicitly through Repair.
func (s *Store) Load() (subscription.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return subscription.Collection{}, fmt.Errorf("%w: %s does not exist", ErrStorageCorrupted, s.path)
		}
		return subscription.Collection{}, fmt.Errorf("%w: read %s: %w", ErrStorageIO, s.path, err)
	}

	c, err := Decode(data)
	if err != nil {
		return subscription.Collection{}, err
	}
	s.logger.Debug("loaded subscriptions",
		logging.String(logging.FieldPath, s.path),
		logging.Int("count", c.Len()))
	return c, nil
}

// Save replaces the storage file with c.
func (s *Store) Save(c subscription.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStorageWrite, s.path, err)
	}
	s.logger.Debug("saved subscriptions",
		logging.String(logging.FieldPath, s.path),
		logging.Int("count", c.Len()),
		logging.Int("bytes", len(data)))
	return nil
}

// Repair overwrites the storage file with an empty collection. It never reads
// the existing file and refuses to do anything unless confirm is set.
func (s *Store) Repair(confirm bool) error {
	if !confirm {
		return ErrRepairNotConfirmed
	}
	if err := s.Save(subscription.Collection{}); err != nil {
		return err
	}
	s.logger.Info("storage repaired", logging.String(logging.FieldPath, s.path))
	return nil
}

// Lock takes the cross-process storage lock, waiting up to timeout. The
// returned function releases it.
func (s *Store) Lock(ctx context.Context, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage directory: %w", ErrStorageIO, err)
	}

	lock := flock.New(s.path + ".lock")
	lockCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("%w: acquire storage lock: %w", ErrStorageIO, err)
	}
	if !locked {
		return nil, ErrLocked
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release storage lock",
				logging.String(logging.FieldEventType, "storage_unlock_failed"),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the .lock file if podclaw reports the storage as busy"),
				logging.String(logging.FieldImpact, "next invocation may wait for the lock"))
		}
	}, nil
}
