// Package source tracks byte offsets and line/column positions for a single
// in-memory IR source buffer, closely mirroring the teacher's FileSet but
// simplified to the single-buffer case: a parsed module is always one
// textual unit, so there is no need for a multi-file index.
package source

import "fmt"

// Position is a 1-based line/column location within a Source.
type Position struct {
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) within a Source.
type Span struct {
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Source holds the full text of one parsed unit and a line index for
// resolving byte offsets to human-readable positions.
type Source struct {
	Name    string
	Content []byte
	lineIdx []uint32
}

// New builds a Source from raw text, precomputing the line index.
func New(name string, content []byte) *Source {
	return &Source{
		Name:    name,
		Content: content,
		lineIdx: buildLineIndex(content),
	}
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i))
		}
	}
	return idx
}

// Position resolves a byte offset to a 1-based line/column.
func (s *Source) Position(off uint32) Position {
	if s == nil || len(s.lineIdx) == 0 {
		return Position{Line: 1, Column: off + 1}
	}
	lo, hi := 0, len(s.lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if s.lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		return Position{Line: 1, Column: off + 1}
	}
	lineStart := s.lineIdx[line] + 1
	return Position{Line: uint32(line) + 2, Column: off - lineStart + 1}
}

// Text returns the substring covered by span, clamped to content bounds.
func (s *Source) Text(span Span) string {
	if s == nil {
		return ""
	}
	start, end := span.Start, span.End
	if int(end) > len(s.Content) {
		end = uint32(len(s.Content))
	}
	if start > end {
		start = end
	}
	return string(s.Content[start:end])
}
