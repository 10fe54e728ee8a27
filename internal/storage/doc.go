// Package storage persists the subscription collection as a single binary
// file.
//
// The file carries a magic header, a format version and a CRC-32 checksum in
// front of a gob payload so truncation and corruption are detected on load
// instead of surfacing as half-decoded data. Saves go through a temporary file
// and a rename, so a crash never leaves a partially written file in place.
// Lock takes an advisory file lock that serialises read-modify-write cycles
// across concurrent podclaw processes.
package storage
