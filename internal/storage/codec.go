package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"time"

	"podclaw/internal/subscription"
)

const (
	magic         = "PODCLAW\x00"
	formatVersion = uint16(1)
	headerSize    = len(magic) + 2 + 4
)

// fileRecord is the on-disk shape of one subscription. It is decoupled from
// subscription.Subscription so the in-memory model can change without
// breaking existing files.
type fileRecord struct {
	Alias           string
	FeedURL         string
	DownloadPath    string
	IntervalSeconds int64
	CacheUnix       int64
	CacheNanos      int32
	CacheContent    string
	Locked          bool
}

type filePayload struct {
	Records []fileRecord
}

// Encode serialises c into the storage file format.
func Encode(c subscription.Collection) ([]byte, error) {
	payload := filePayload{Records: make([]fileRecord, 0, c.Len())}
	for _, sub := range c.Subscriptions {
		payload.Records = append(payload.Records, fileRecord{
			Alias:           sub.Alias,
			FeedURL:         sub.FeedURL,
			DownloadPath:    sub.DownloadPath,
			IntervalSeconds: int64(sub.UpdateInterval / time.Second),
			CacheUnix:       sub.CacheTimestamp.Unix(),
			CacheNanos:      int32(sub.CacheTimestamp.Nanosecond()),
			CacheContent:    sub.CacheContent,
			Locked:          sub.IsLocked,
		})
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode subscriptions: %w", err)
	}

	out := make([]byte, headerSize, headerSize+body.Len())
	copy(out, magic)
	binary.BigEndian.PutUint16(out[len(magic):], formatVersion)
	binary.BigEndian.PutUint32(out[len(magic)+2:], crc32.ChecksumIEEE(body.Bytes()))
	return append(out, body.Bytes()...), nil
}

// Decode parses data produced by Encode. Every failure wraps
// ErrStorageCorrupted.
func Decode(data []byte) (subscription.Collection, error) {
	if len(data) < headerSize {
		return subscription.Collection{}, fmt.Errorf("%w: file is %d bytes, shorter than the header", ErrStorageCorrupted, len(data))
	}
	if string(data[:len(magic)]) != magic {
		return subscription.Collection{}, fmt.Errorf("%w: unrecognised header", ErrStorageCorrupted)
	}
	if version := binary.BigEndian.Uint16(data[len(magic):]); version != formatVersion {
		return subscription.Collection{}, fmt.Errorf("%w: unsupported format version %d", ErrStorageCorrupted, version)
	}
	body := data[headerSize:]
	if want, got := binary.BigEndian.Uint32(data[len(magic)+2:]), crc32.ChecksumIEEE(body); want != got {
		return subscription.Collection{}, fmt.Errorf("%w: checksum mismatch", ErrStorageCorrupted)
	}

	var payload filePayload
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		return subscription.Collection{}, fmt.Errorf("%w: decode payload: %w", ErrStorageCorrupted, err)
	}

	c := subscription.Collection{}
	if len(payload.Records) > 0 {
		c.Subscriptions = make([]subscription.Subscription, 0, len(payload.Records))
	}
	for _, rec := range payload.Records {
		c.Subscriptions = append(c.Subscriptions, subscription.Subscription{
			Alias:          rec.Alias,
			FeedURL:        rec.FeedURL,
			DownloadPath:   rec.DownloadPath,
			UpdateInterval: time.Duration(rec.IntervalSeconds) * time.Second,
			CacheTimestamp: time.Unix(rec.CacheUnix, int64(rec.CacheNanos)).UTC(),
			CacheContent:   rec.CacheContent,
			IsLocked:       rec.Locked,
		})
	}
	return c, nil
}
