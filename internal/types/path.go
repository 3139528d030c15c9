package types

import "strconv"

// PathSegment represents one component of a property path.
// Key for named properties, Index for sequence elements.
type PathSegment struct {
	Key     string // property name (mutually exclusive with Index)
	Index   int    // sequence index (mutually exclusive with Key)
	IsIndex bool   // disambiguates Index=0 from unset
}

// String renders the segment in path syntax: a bare name or "[n]".
func (s PathSegment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Key returns a named segment.
func Key(name string) PathSegment {
	return PathSegment{Key: name}
}

// Index returns an index segment.
func Index(i int) PathSegment {
	return PathSegment{Index: i, IsIndex: true}
}
