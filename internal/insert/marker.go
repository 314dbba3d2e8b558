package insert

import "regexp"

// markerPattern matches a line made only of an insertion marker, optionally
// surrounded by whitespace: `&[ranges](path)`. The bracket content is left
// loose on purpose so ExpandIndices can report malformed tokens.
var markerPattern = regexp.MustCompile(`^(\s*)&\[([^\]]*)\]\((.+)\)\s*$`)

// Marker is the result of matching a single marker line.
type Marker struct {
	Indent string // leading whitespace of the marker line
	Ranges string // raw range spec, empty when absent
	Path   string // target path as written in the document
}

// ParseMarker reports whether line is a marker line and returns its parts.
func ParseMarker(line string) (Marker, bool) {
	m := markerPattern.FindStringSubmatch(line)
	if m == nil {
		return Marker{}, false
	}
	return Marker{
		Indent: m[1],
		Ranges: m[2],
		Path:   m[3],
	}, true
}
