package testsupport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Item describes one episode of a generated RSS feed.
type Item struct {
	Title       string
	Description string
	// Enclosure overrides the audio URL. Empty points at the FeedServer's
	// audio endpoint for this item.
	Enclosure   string
	NoEnclosure bool
}

// Channel describes a generated RSS feed. Items are listed in feed-native order.
type Channel struct {
	Title       string
	Description string
	Author      string
	Items       []Item
}

// ThreeEpisodes returns a channel with episodes A, B, C in feed-native order.
func ThreeEpisodes() Channel {
	return Channel{
		Title:       "Test Cast",
		Description: "A podcast used in tests",
		Author:      "Test Author",
		Items: []Item{
			{Title: "A", Description: "first"},
			{Title: "B", Description: "second"},
			{Title: "C", Description: "third"},
		},
	}
}

// RSS renders the channel as an RSS 2.0 document with the iTunes namespace.
// audioBase is used for items without an explicit enclosure.
func RSS(ch Channel, audioBase string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">` + "\n")
	b.WriteString("<channel>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", escape(ch.Title))
	fmt.Fprintf(&b, "<description>%s</description>\n", escape(ch.Description))
	if ch.Author != "" {
		fmt.Fprintf(&b, "<itunes:author>%s</itunes:author>\n", escape(ch.Author))
	}
	for _, item := range ch.Items {
		b.WriteString("<item>\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", escape(item.Title))
		if item.Description != "" {
			fmt.Fprintf(&b, "<description>%s</description>\n", escape(item.Description))
		}
		if !item.NoEnclosure {
			link := item.Enclosure
			if link == "" {
				link = AudioURL(audioBase, item.Title)
			}
			fmt.Fprintf(&b, "<enclosure url=\"%s\" length=\"0\" type=\"audio/mpeg\"/>\n", escape(link))
		}
		b.WriteString("</item>\n")
	}
	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}

// AudioURL returns the FeedServer audio endpoint for an episode title.
func AudioURL(base, title string) string {
	return strings.TrimRight(base, "/") + "/audio/" + url.PathEscape(title) + ".mp3"
}

// AudioBody is the payload FeedServer returns for an episode title.
func AudioBody(title string) []byte {
	return []byte("audio:" + title)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// FeedServer serves a mutable RSS feed at /feed.xml and episode audio under
// /audio/. It counts feed requests so tests can assert whether a refresh
// happened.
type FeedServer struct {
	*httptest.Server

	mu          sync.Mutex
	channel     Channel
	feedStatus  int
	audioStatus int
	feedHits    int
	audioHits   int
}

// NewFeedServer starts a FeedServer for ch and registers cleanup.
func NewFeedServer(t testing.TB, ch Channel) *FeedServer {
	t.Helper()

	fs := &FeedServer{channel: ch, feedStatus: http.StatusOK, audioStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", fs.serveFeed)
	mux.HandleFunc("/audio/", fs.serveAudio)
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

// FeedURL returns the URL of the served feed.
func (s *FeedServer) FeedURL() string {
	return s.URL + "/feed.xml"
}

// GarbageURL returns a URL that answers 200 with a body that is not a feed.
func (s *FeedServer) GarbageURL() string {
	return s.URL + "/garbage"
}

// SetChannel replaces the served feed.
func (s *FeedServer) SetChannel(ch Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = ch
}

// SetFeedStatus makes the feed endpoint answer with status. Non-2xx statuses
// return an empty body.
func (s *FeedServer) SetFeedStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedStatus = status
}

// SetAudioStatus makes the audio endpoint answer with status.
func (s *FeedServer) SetAudioStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioStatus = status
}

// FeedRequests returns how many times the feed endpoint was hit.
func (s *FeedServer) FeedRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedHits
}

// AudioRequests returns how many times the audio endpoint was hit.
func (s *FeedServer) AudioRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioHits
}

// Body returns the document currently served at FeedURL.
func (s *FeedServer) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RSS(s.channel, s.URL)
}

func (s *FeedServer) serveFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.feedHits++
	status := s.feedStatus
	body := RSS(s.channel, s.URL)
	s.mu.Unlock()

	if status < 200 || status >= 300 {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml")
	_, _ = w.Write([]byte(body))
}

func (s *FeedServer) serveAudio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.audioHits++
	status := s.audioStatus
	s.mu.Unlock()

	if status < 200 || status >= 300 {
		w.WriteHeader(status)
		return
	}
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/audio/"), ".mp3")
	w.Header().Set("Content-Type", "audio/mpeg")
	_, _ = w.Write(AudioBody(name))
}
