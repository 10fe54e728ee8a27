package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrAliasConflict   = errors.New("alias already in use")
	ErrAliasNotFound   = errors.New("there is no podcast with that alias")
	ErrPodcastLocked   = errors.New("podcast is locked")
	ErrInvalidAlias    = errors.New("invalid alias")
	ErrInvalidInterval = errors.New("invalid update interval")
	ErrIndexOutOfRange = errors.New("index is out of bounds")
	// ErrNoChanges is returned by Edit when no field was supplied. Nothing is
	// persisted.
	ErrNoChanges = errors.New("no changes made")
)

func indexError(index, length int) error {
	return fmt.Errorf("%w: index %d, %d subscriptions", ErrIndexOutOfRange, index, length)
}

func aliasError(marker error, alias string) error {
	return fmt.Errorf("%w: %q", marker, alias)
}
