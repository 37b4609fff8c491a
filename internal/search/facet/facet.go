// Package facet defines the closed vocabulary of filter dimensions the search
// surface exposes. Adding a marker means extending Marker, markerInfos and the
// senses table migration; everything else (parsing, SQL composition, metadata
// aggregation) iterates over All and picks the change up.
package facet

// Marker is one of the seven lexicographic annotation dimensions attached to
// a sense.
type Marker int

const (
	SocialValuation Marker = iota
	SocialStratum
	Style
	Intentionality
	Geography
	Chronology
	Frequency

	markerCount
)

type markerInfo struct {
	param  string
	column string
}

var markerInfos = [markerCount]markerInfo{
	SocialValuation: {param: "socialValuation", column: "social_valuation"},
	SocialStratum:   {param: "socialStratum", column: "social_stratum"},
	Style:           {param: "style", column: "style"},
	Intentionality:  {param: "intentionality", column: "intentionality"},
	Geography:       {param: "geography", column: "geography"},
	Chronology:      {param: "chronology", column: "chronology"},
	Frequency:       {param: "frequency", column: "frequency"},
}

// All returns the markers in their canonical order.
func All() []Marker {
	markers := make([]Marker, 0, markerCount)
	for m := Marker(0); m < markerCount; m++ {
		markers = append(markers, m)
	}
	return markers
}

// Param is the query-string key for the marker.
func (m Marker) Param() string {
	return markerInfos[m].param
}

// Column is the physical senses-table column the marker maps to.
func (m Marker) Column() string {
	return markerInfos[m].column
}

func (m Marker) String() string {
	return markerInfos[m].param
}

// Non-marker facet columns on the senses table.
const (
	ColumnCategory = "category"
	ColumnOrigin   = "origin"
)

// Columns lists every column DistinctValues may be asked for. The store
// rejects anything outside this set.
func Columns() []string {
	cols := make([]string, 0, markerCount+2)
	cols = append(cols, ColumnCategory, ColumnOrigin)
	for _, m := range All() {
		cols = append(cols, m.Column())
	}
	return cols
}

// Alphabet is the ordered Spanish alphabet used for the letter facet and the
// word-of-the-day letter derivation.
var Alphabet = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "ñ", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
}
