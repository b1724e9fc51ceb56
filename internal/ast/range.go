package ast

// Point is a zero-indexed row/column source position, matching
// tree-sitter's sitter.Point shape.
type Point struct {
	Row    uint32
	Column uint32
}

// Range is a byte-and-point extent, matching tree-sitter's sitter.Range.
type Range struct {
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
}

// Contains reports whether byte offset p falls within the range, inclusive
// of both endpoints (matches the ScopeTree "contains" predicate in §3).
func (r Range) Contains(p uint32) bool {
	return r.StartByte <= p && p <= r.EndByte
}

// ContainsRange reports whether other's endpoints both fall within r,
// inclusive; a byte-identical range counts as contained (see
// StrictlyContains for the proper-subset test).
func (r Range) ContainsRange(other Range) bool {
	return r.StartByte <= other.StartByte && other.EndByte <= r.EndByte
}

// StrictlyContains reports whether r contains other as a proper subset
// (not byte-identical to r).
func (r Range) StrictlyContains(other Range) bool {
	return r.ContainsRange(other) && (r.StartByte != other.StartByte || r.EndByte != other.EndByte)
}
