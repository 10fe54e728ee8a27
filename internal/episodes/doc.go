// Package episodes reads episodes out of a subscription's cached feed:
// ordering, bounds checks, inspection and audio download.
//
// Episodes are addressed by position in a resolved ordering. The default
// ordering is the reverse of the document order, which puts the newest
// episode first for feeds published oldest-first; the reverse flag restores
// document order. Both inspection and download accept indices in
// [0, len(episodes)).
package episodes
