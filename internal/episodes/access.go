package episodes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"podclaw/internal/feed"
	"podclaw/internal/fileutil"
	"podclaw/internal/logging"
	"podclaw/internal/subscription"
	"podclaw/internal/textutil"
)

// ErrAudioNotFound marks a failed enclosure download.
var ErrAudioNotFound = errors.New("failed to get audio file from the internet")

// Parser parses a cached feed document.
type Parser interface {
	Parse(data []byte) (*feed.Feed, error)
}

// Access reads episodes from cached feeds and downloads their audio.
type Access struct {
	parser  Parser
	fetcher feed.Fetcher
	logger  *slog.Logger
}

// NewAccess constructs an Access. fetcher is only used by Download.
func NewAccess(parser Parser, fetcher feed.Fetcher, logger *slog.Logger) *Access {
	return &Access{
		parser:  parser,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "episodes"),
	}
}

// SeriesDetails is the channel-level view of a subscription.
type SeriesDetails struct {
	Title       string
	Author      string
	Description string
}

// EpisodeDetails is the view of one episode.
type EpisodeDetails struct {
	Index        int
	Title        string
	Description  string
	EnclosureURL string
}

// Entry is one line of an episode listing.
type Entry struct {
	Index int
	Title string
}

func (a *Access) parse(sub subscription.Subscription) (*feed.Feed, error) {
	parsed, err := a.parser.Parse([]byte(sub.CacheContent))
	if err != nil {
		return nil, fmt.Errorf("cached feed for %q: %w", sub.Alias, err)
	}
	return parsed, nil
}

// InspectSeries returns the channel title, author and description. Each is
// required.
func (a *Access) InspectSeries(sub subscription.Subscription) (SeriesDetails, error) {
	parsed, err := a.parse(sub)
	if err != nil {
		return SeriesDetails{}, err
	}
	var details SeriesDetails
	if details.Title, err = parsed.RequireTitle(); err != nil {
		return SeriesDetails{}, err
	}
	if details.Author, err = parsed.RequireAuthor(); err != nil {
		return SeriesDetails{}, err
	}
	if details.Description, err = parsed.RequireDescription(); err != nil {
		return SeriesDetails{}, err
	}
	return details, nil
}

// InspectEpisode returns the details of the episode at index in the resolved
// order.
func (a *Access) InspectEpisode(sub subscription.Subscription, index int, reverse bool) (EpisodeDetails, error) {
	ep, err := a.episode(sub, index, reverse)
	if err != nil {
		return EpisodeDetails{}, err
	}
	details := EpisodeDetails{Index: index}
	if details.Title, err = ep.RequireTitle(); err != nil {
		return EpisodeDetails{}, err
	}
	if details.Description, err = ep.RequireDescription(); err != nil {
		return EpisodeDetails{}, err
	}
	if details.EnclosureURL, err = ep.RequireEnclosure(); err != nil {
		return EpisodeDetails{}, err
	}
	return details, nil
}

// ListEpisodes returns the episode titles with their positions in the
// resolved order.
func (a *Access) ListEpisodes(sub subscription.Subscription, reverse bool) ([]Entry, error) {
	parsed, err := a.parse(sub)
	if err != nil {
		return nil, err
	}
	ordered := ResolveOrder(parsed, reverse)
	entries := make([]Entry, 0, len(ordered))
	for i, ep := range ordered {
		title, err := ep.RequireTitle()
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", i, err)
		}
		entries = append(entries, Entry{Index: i, Title: title})
	}
	return entries, nil
}

// FileName returns the name a downloaded episode is saved under:
// "[<alias> - <index>] <title>.mp3" with the title made safe for the
// filesystem.
func FileName(alias string, index int, title string) string {
	name := textutil.SanitizeFileName(title)
	if name == "" {
		name = "episode"
	}
	return "[" + textutil.SanitizeFileName(alias) + " - " + strconv.Itoa(index) + "] " + name + ".mp3"
}

// Target resolves the episode at index and the path its audio will be
// written to, without downloading anything.
func (a *Access) Target(sub subscription.Subscription, index int, reverse bool) (string, feed.Episode, error) {
	ep, err := a.episode(sub, index, reverse)
	if err != nil {
		return "", feed.Episode{}, err
	}
	title, err := ep.RequireTitle()
	if err != nil {
		return "", feed.Episode{}, err
	}
	if _, err := ep.RequireEnclosure(); err != nil {
		return "", feed.Episode{}, err
	}
	return filepath.Join(sub.DownloadPath, FileName(sub.Alias, index, title)), ep, nil
}

// Download fetches the audio of the episode at index and writes it to the
// subscription's download directory. The body is fully retrieved before the
// file is written, so a failed fetch leaves nothing behind.
func (a *Access) Download(ctx context.Context, sub subscription.Subscription, index int, reverse bool) (string, error) {
	target, ep, err := a.Target(sub, index, reverse)
	if err != nil {
		return "", err
	}
	if a.fetcher == nil {
		return "", fmt.Errorf("%w: no downloader configured", ErrAudioNotFound)
	}

	data, err := a.fetcher.Fetch(ctx, ep.EnclosureURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAudioNotFound, err)
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", target, err)
	}
	if err := fileutil.VerifyFile(target, data); err != nil {
		return "", fmt.Errorf("verify %s: %w", target, err)
	}

	a.logger.Info("episode downloaded",
		logging.String(logging.FieldAlias, sub.Alias),
		logging.Int("episode", index),
		logging.String(logging.FieldURL, ep.EnclosureURL),
		logging.String(logging.FieldPath, target),
		logging.String("size", humanize.Bytes(uint64(len(data)))))
	return target, nil
}

func (a *Access) episode(sub subscription.Subscription, index int, reverse bool) (feed.Episode, error) {
	parsed, err := a.parse(sub)
	if err != nil {
		return feed.Episode{}, err
	}
	return Select(ResolveOrder(parsed, reverse), index)
}
