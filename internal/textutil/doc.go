// Package textutil provides the small text helpers shared by the
// subscription and episode packages: Unicode case folding for alias keys and
// file-name sanitizing for downloaded episodes.
package textutil
