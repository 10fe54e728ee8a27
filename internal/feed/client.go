package feed

import (
	"context"
	"fmt"
)

// Client fetches and parses feeds.
type Client struct {
	fetcher Fetcher
	parser  Parser
}

// NewClient wires a fetcher and a parser together. A nil parser defaults to
// GofeedParser.
func NewClient(fetcher Fetcher, parser Parser) *Client {
	if parser == nil {
		parser = NewGofeedParser()
	}
	return &Client{fetcher: fetcher, parser: parser}
}

// FetchFeed downloads the document at rawURL and parses it. The raw bytes are
// returned alongside the parsed feed so callers can cache them verbatim.
func (c *Client) FetchFeed(ctx context.Context, rawURL string) ([]byte, *Feed, error) {
	if c == nil || c.fetcher == nil {
		return nil, nil, fmt.Errorf("%w: feed client unavailable", ErrRequest)
	}
	raw, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := c.parser.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, parsed, nil
}

// Parse parses a previously fetched document.
func (c *Client) Parse(raw []byte) (*Feed, error) {
	return c.parser.Parse(raw)
}
