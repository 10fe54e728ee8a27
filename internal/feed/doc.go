// Package feed fetches podcast feeds over HTTP and parses them into the
// minimal channel model podclaw works with.
//
// Fetching and parsing are separate collaborators (Fetcher and Parser) so the
// raw document can be cached verbatim and re-parsed on every read. Client
// combines the two for callers that need both the raw bytes and the parsed
// Feed. Failures wrap ErrRequest or ErrInvalidFeed; nothing retries.
package feed
