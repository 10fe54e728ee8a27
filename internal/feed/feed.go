package feed

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRequest marks network and HTTP failures while fetching a URL.
	ErrRequest = errors.New("request failed")
	// ErrInvalidFeed marks documents that could not be parsed as a feed.
	ErrInvalidFeed = errors.New("invalid feed")
	// ErrMissingField marks a display field the feed did not supply.
	ErrMissingField = errors.New("feed field missing")
)

// Feed is the parsed form of a podcast channel. Episodes are kept in the
// order they appear in the document.
type Feed struct {
	Title       string
	Description string
	Author      string
	Episodes    []Episode
}

// Episode is one item of a Feed.
type Episode struct {
	Title        string
	Description  string
	EnclosureURL string
}

// RequireTitle returns the channel title or ErrMissingField.
func (f *Feed) RequireTitle() (string, error) {
	return require("channel title", f.Title)
}

// RequireAuthor returns the channel author or ErrMissingField.
func (f *Feed) RequireAuthor() (string, error) {
	return require("channel author", f.Author)
}

// RequireDescription returns the channel description or ErrMissingField.
func (f *Feed) RequireDescription() (string, error) {
	return require("channel description", f.Description)
}

// RequireTitle returns the episode title or ErrMissingField.
func (e Episode) RequireTitle() (string, error) {
	return require("episode title", e.Title)
}

// RequireDescription returns the episode description or ErrMissingField.
func (e Episode) RequireDescription() (string, error) {
	return require("episode description", e.Description)
}

// RequireEnclosure returns the episode audio URL or ErrMissingField.
func (e Episode) RequireEnclosure() (string, error) {
	return require("episode enclosure", e.EnclosureURL)
}

func require(name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return value, nil
}
