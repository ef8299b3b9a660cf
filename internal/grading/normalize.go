package grading

import (
	"strings"
	"unicode"
)

var numberToLetter = map[string]string{
	"1": "a", "2": "b", "3": "c", "4": "d", "5": "e",
}

var (
	trueVals  = map[string]struct{}{"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}}
	falseVals = map[string]struct{}{"false": {}, "f": {}, "no": {}, "n": {}, "0": {}}
)

// normalizeAnswer lowercases, strips punctuation, collapses whitespace and
// maps a lone option number onto its letter ("3" -> "c") so "C", "c." and
// "3" all compare equal.
func normalizeAnswer(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	norm := string(out)
	if len(norm) == 1 {
		if l, ok := numberToLetter[norm]; ok {
			return l
		}
	}
	return norm
}

// answersMatch compares a student answer against a correct answer with
// flexible matching: normalized equality, option letter/number equivalence,
// and boolean vocabulary ("yes" matches "true").
func answersMatch(student, correct string) bool {
	s := normalizeAnswer(student)
	c := normalizeAnswer(correct)
	if s == "" || c == "" {
		return false
	}
	if s == c {
		return true
	}
	if len(s) == 1 && len(c) == 1 {
		sl, cl := s, c
		if l, ok := numberToLetter[sl]; ok {
			sl = l
		}
		if l, ok := numberToLetter[cl]; ok {
			cl = l
		}
		return sl == cl
	}
	if _, ok := trueVals[s]; ok {
		if _, ok := trueVals[c]; ok {
			return true
		}
	}
	if _, ok := falseVals[s]; ok {
		if _, ok := falseVals[c]; ok {
			return true
		}
	}
	return false
}

// splitList accepts either a pre-split list or a comma-separated string
// ("C,A,B" or "C, A, B").
func splitList(response interface{}) []string {
	switch v := response.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return nil
	}
}
