package main

import (
	"errors"
	"fmt"

	"podclaw/internal/episodes"
	"podclaw/internal/feed"
	"podclaw/internal/storage"
	"podclaw/internal/subscription"
)

// describeError maps an error to the message shown to the user. Unknown
// errors are shown as is.
func describeError(err error) string {
	switch {
	case errors.Is(err, storage.ErrLocked):
		return "Storage is in use by another podclaw process. Try again in a moment."
	case errors.Is(err, storage.ErrStorageWrite):
		return fmt.Sprintf("Failed to save storage: %v", err)
	case errors.Is(err, storage.ErrStorageCorrupted), errors.Is(err, storage.ErrStorageIO):
		return "Storage seems invalid. Try running the 'repair' command!"
	case errors.Is(err, storage.ErrRepairNotConfirmed):
		return "No confirmation flag was set."
	case errors.Is(err, subscription.ErrAliasNotFound):
		return "There is no podcast with that alias."
	case errors.Is(err, subscription.ErrAliasConflict):
		return "Alias already in use."
	case errors.Is(err, subscription.ErrInvalidAlias):
		return "Invalid alias."
	case errors.Is(err, subscription.ErrInvalidInterval):
		return "Invalid update interval."
	case errors.Is(err, subscription.ErrPodcastLocked):
		return "Podcast is locked."
	case errors.Is(err, subscription.ErrIndexOutOfRange):
		return "Episode index is out of bounds."
	case errors.Is(err, episodes.ErrAudioNotFound):
		return "Failed to get audio file from the internet."
	case errors.Is(err, feed.ErrMissingField):
		return fmt.Sprintf("The feed is missing required details (%v).", err)
	case errors.Is(err, feed.ErrRequest):
		return "Failed to request feed from provided link."
	case errors.Is(err, feed.ErrInvalidFeed):
		return "Failed to parse RSS feed."
	default:
		return err.Error()
	}
}

func autocacheFailure(err error) string {
	if errors.Is(err, feed.ErrRequest) {
		return "Failed to update cache automatically, due to a failed request."
	}
	return "Failed to update cache automatically, due to receiving an invalid feed."
}
