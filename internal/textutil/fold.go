package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns the case-folded form of s used for case-insensitive
// comparisons of user-chosen keys such as aliases. Surrounding whitespace is
// ignored.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold reports whether a and b are equal under FoldKey.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}
