package insert

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func TestExpandIndices(t *testing.T) {
	tests := []struct {
		name   string
		ranges string
		want   []int
	}{
		{name: "single line", ranges: "7", want: []int{6}},
		{name: "first line", ranges: "1", want: []int{0}},
		{name: "range", ranges: "1-10", want: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "mixed", ranges: "1-4 7-10 22", want: []int{0, 1, 2, 3, 6, 7, 8, 9, 21}},
		{name: "token order kept", ranges: "5 1", want: []int{4, 0}},
		{name: "duplicates kept", ranges: "2 1-3 2", want: []int{1, 0, 1, 2, 1}},
		{name: "single line range", ranges: "3-3", want: []int{2}},
		{name: "extra whitespace", ranges: "  2 \t 4  ", want: []int{1, 3}},
		{name: "empty", ranges: "", want: nil},
		{name: "whitespace only", ranges: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandIndices(tt.ranges)
			if err != nil {
				t.Fatalf("ExpandIndices(%q) unexpected error: %v", tt.ranges, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandIndices(%q) = %v, want %v", tt.ranges, got, tt.want)
			}
		})
	}
}

func TestExpandIndices_SingleNumbers(t *testing.T) {
	for n := 1; n <= 200; n++ {
		got, err := ExpandIndices(strconv.Itoa(n))
		if err != nil {
			t.Fatalf("ExpandIndices(%d) unexpected error: %v", n, err)
		}
		if len(got) != 1 || got[0] != n-1 {
			t.Fatalf("ExpandIndices(%d) = %v, want [%d]", n, got, n-1)
		}
	}
}

func TestExpandIndices_Ranges(t *testing.T) {
	for a := 1; a <= 15; a++ {
		for b := a; b <= 15; b++ {
			spec := strconv.Itoa(a) + "-" + strconv.Itoa(b)
			got, err := ExpandIndices(spec)
			if err != nil {
				t.Fatalf("ExpandIndices(%q) unexpected error: %v", spec, err)
			}
			if len(got) != b-a+1 {
				t.Fatalf("ExpandIndices(%q) returned %d indices, want %d", spec, len(got), b-a+1)
			}
			for i, idx := range got {
				if idx != a-1+i {
					t.Fatalf("ExpandIndices(%q)[%d] = %d, want %d", spec, i, idx, a-1+i)
				}
			}
		}
	}
}

func TestExpandIndices_Malformed(t *testing.T) {
	tokens := []string{"a", "1-", "-3", "1-2-3", "0", "0-4", "+3", "1.5", "3-x", "1,2", "１"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			got, err := ExpandIndices("1 " + token)
			if err == nil {
				t.Fatalf("ExpandIndices(%q) = %v, want error", token, got)
			}
			var malformed *MalformedRangeError
			if !errors.As(err, &malformed) {
				t.Fatalf("ExpandIndices(%q) error = %T, want *MalformedRangeError", token, err)
			}
			if malformed.Token != token {
				t.Errorf("MalformedRangeError.Token = %q, want %q", malformed.Token, token)
			}
			if got != nil {
				t.Errorf("ExpandIndices(%q) returned partial result %v", token, got)
			}
		})
	}
}

func TestExpandIndices_Reversed(t *testing.T) {
	_, err := ExpandIndices("10-1")

	var reversed *ReversedRangeError
	if !errors.As(err, &reversed) {
		t.Fatalf("ExpandIndices(\"10-1\") error = %v, want *ReversedRangeError", err)
	}
	if reversed.Start != 10 || reversed.End != 1 {
		t.Errorf("ReversedRangeError = {%d, %d}, want {10, 1}", reversed.Start, reversed.End)
	}
}

func TestParseSpans(t *testing.T) {
	tests := []struct {
		name    string
		ranges  string
		want    []Span
		wantErr bool
	}{
		{name: "empty", ranges: "", want: nil},
		{name: "mixed", ranges: "5 1-3 5", want: []Span{{4, 4}, {0, 2}, {4, 4}}},
		{name: "huge range stays two ints", ranges: "1-4000000000", want: []Span{{0, 3999999999}}},
		{name: "reversed", ranges: "3-1", wantErr: true},
		{name: "malformed", ranges: "1-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpans(tt.ranges)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSpans(%q) expected error, got %v", tt.ranges, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSpans(%q) unexpected error: %v", tt.ranges, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSpans(%q) = %v, want %v", tt.ranges, got, tt.want)
			}
		})
	}
}
