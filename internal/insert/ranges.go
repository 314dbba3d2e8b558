package insert

import (
	"strconv"
	"strings"
)

// Span is one parsed range token as 0-based inclusive bounds. A single line
// number has First == Last.
type Span struct {
	First int
	Last  int
}

// ParseSpans parses a range spec into spans in token order without
// materialising any indices. An empty spec returns nil.
func ParseSpans(ranges string) ([]Span, error) {
	var spans []Span

	for _, token := range strings.Fields(ranges) {
		startStr, endStr, isRange := strings.Cut(token, "-")
		if !isRange {
			n, err := parseLineNumber(token, token)
			if err != nil {
				return nil, err
			}
			spans = append(spans, Span{First: n - 1, Last: n - 1})
			continue
		}

		start, err := parseLineNumber(startStr, token)
		if err != nil {
			return nil, err
		}
		end, err := parseLineNumber(endStr, token)
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, &ReversedRangeError{Token: token, Start: start, End: end}
		}
		spans = append(spans, Span{First: start - 1, Last: end - 1})
	}

	return spans, nil
}

// ExpandIndices expands a textual description of line ranges into 0-based
// indices. Lines are numbered from 1, so "1-4 7-10 22" expands to
// [0 1 2 3 6 7 8 9 21].
//
// Indices follow token order; duplicates are kept and nothing is sorted.
// An empty spec returns nil, which callers treat as "every line".
// The result holds one entry per requested line; callers that know the
// target's length should bound-check ParseSpans output instead.
func ExpandIndices(ranges string) ([]int, error) {
	spans, err := ParseSpans(ranges)
	if err != nil {
		return nil, err
	}

	var indices []int
	for _, s := range spans {
		for n := s.First; n <= s.Last; n++ {
			indices = append(indices, n)
		}
	}
	return indices, nil
}

// parseLineNumber parses a 1-based line number made of ASCII digits only.
// Signs, spaces and zero are rejected.
func parseLineNumber(s, token string) (int, error) {
	if s == "" {
		return 0, &MalformedRangeError{Token: token}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, &MalformedRangeError{Token: token}
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &MalformedRangeError{Token: token}
	}
	return n, nil
}
