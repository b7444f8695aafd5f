package responsecache

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// collapse lowercases s, trims it and folds whitespace runs into one space
func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizeKey builds the lookup form of an input. Punctuation and
// non-ASCII letters are dropped.
func normalizeKey(input string) string {
	return nonWordPattern.ReplaceAllString(collapse(input), "")
}

func exactKey(input string, mode string) string {
	return mode + ":" + normalizeKey(input)
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over runes
func similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// isSimilar compares case and whitespace insensitive forms of a and b
func isSimilar(a, b string, threshold float64) bool {
	na, nb := collapse(a), collapse(b)
	if na == nb {
		return true
	}
	return similarity(na, nb) >= threshold
}
