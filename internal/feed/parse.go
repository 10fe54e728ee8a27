package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw feed bytes into a Feed.
type Parser interface {
	Parse(data []byte) (*Feed, error)
}

// GofeedParser parses RSS and Atom documents with gofeed.
type GofeedParser struct {
	parser *gofeed.Parser
}

// NewGofeedParser constructs a parser with gofeed defaults.
func NewGofeedParser() *GofeedParser {
	return &GofeedParser{parser: gofeed.NewParser()}
}

// Parse decodes data. An empty document or one gofeed cannot recognise wraps
// ErrInvalidFeed.
func (p *GofeedParser) Parse(data []byte) (*Feed, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFeed)
	}
	parsed, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFeed, err)
	}

	out := &Feed{
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(parsed.Description),
		Author:      channelAuthor(parsed),
		Episodes:    make([]Episode, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		out.Episodes = append(out.Episodes, Episode{
			Title:        strings.TrimSpace(item.Title),
			Description:  strings.TrimSpace(item.Description),
			EnclosureURL: enclosureURL(item),
		})
	}
	return out, nil
}

// channelAuthor prefers the iTunes author and falls back to the generic
// author list.
func channelAuthor(parsed *gofeed.Feed) string {
	if parsed.ITunesExt != nil {
		if author := strings.TrimSpace(parsed.ITunesExt.Author); author != "" {
			return author
		}
	}
	names := make([]string, 0, len(parsed.Authors))
	for _, person := range parsed.Authors {
		if person == nil {
			continue
		}
		if name := strings.TrimSpace(person.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func enclosureURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if link := strings.TrimSpace(enclosure.URL); link != "" {
			return link
		}
	}
	return ""
}
