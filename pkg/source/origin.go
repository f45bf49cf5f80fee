package source

import "fmt"

// Position is a human-readable location derived from an Origin.
type Position struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Origin identifies a byte offset within a Provider. Line and column are
// derived on demand from the provider's newline table rather than stored.
//
// Origins are plain values; copying one never copies the source text.
type Origin struct {
	Source Provider
	Offset int
}

// At returns the origin of offset within p.
func At(p Provider, offset int) Origin {
	return Origin{Source: p, Offset: offset}
}

// IsZero reports whether the origin refers to no source.
func (o Origin) IsZero() bool {
	return o.Source == nil
}

// Position returns the 1-based line and column of the origin. A zero Origin
// reports 0:0.
func (o Origin) Position() Position {
	if o.Source == nil {
		return Position{}
	}
	line, col := LineColumn(o.Source.LineOffsets(), o.Offset)
	return Position{Line: line, Column: col}
}

// Line returns the 1-based line number.
func (o Origin) Line() int {
	return o.Position().Line
}

// Column returns the 1-based column number.
func (o Origin) Column() int {
	return o.Position().Column
}

// Path returns the file path of the origin's source, or "" for anonymous
// and zero origins.
func (o Origin) Path() string {
	if o.Source == nil {
		return ""
	}
	return PathOf(o.Source)
}

// String renders the origin as "path:line:col", using "<anonymous>" for
// sources without a file.
func (o Origin) String() string {
	if o.Source == nil {
		return "<unknown>"
	}
	name := o.Path()
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s:%s", name, o.Position())
}
