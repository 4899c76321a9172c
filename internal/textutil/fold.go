package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded, whitespace-trimmed form of value.
func Fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// EqualFold reports whether a and b are equal under Unicode case folding,
// ignoring leading and trailing whitespace.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether needle occurs in haystack under case folding.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	needle = Fold(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), needle)
}
