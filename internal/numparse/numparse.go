// Package numparse turns spoken or typed quantity utterances into integers.
// Voice front-ends deliver numbers inconsistently: half-width digits,
// full-width digits from Japanese-locale devices, or counting words. The
// same parser backs every numeric slot so each pipeline step accepts the
// same variants.
package numparse

import "strings"

var words = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a": 1, "an": 1, "single": 1,
	"couple": 2, "pair": 2,
	"dozen": 12,
}

var allWords = map[string]bool{
	"all":        true,
	"everything": true,
	"every":      true,
	"whole":      true,
}

// Number parses s permissively. Unparsable input returns ok=false; callers
// treat that as "missing", never as zero.
func Number(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "?" {
		return 0, false
	}

	if n, ok := words[s]; ok {
		return n, true
	}

	var value int
	var seen bool
	for _, r := range s {
		d, ok := digit(r)
		if !ok {
			return 0, false
		}
		value = value*10 + d
		seen = true
		if value > 1_000_000 {
			return 0, false
		}
	}
	if !seen {
		return 0, false
	}
	return value, true
}

// IsAll reports whether s is a "delete everything" utterance.
func IsAll(s string) bool {
	return allWords[strings.ToLower(strings.TrimSpace(s))]
}

func digit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= '０' && r <= '９': // full-width digits
		return int(r - '０'), true
	default:
		return 0, false
	}
}
