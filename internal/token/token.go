// Package token defines the lexical token vocabulary of the textual IR
// surface syntax, grounded on the teacher's internal/token package.
package token

import "github.com/dan-zheng/GPIR/internal/source"

// Token is a single scanned lexeme with its source location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsSigil reports whether the token's kind carries one of the grammar's
// identifier sigils (@ % ' $ # ? !).
func (t Token) IsSigil() bool {
	switch t.Kind {
	case Global, Temp, BlockLabel, TypeName, Field, EnumCase, Attribute:
		return true
	default:
		return false
	}
}

// keywords recognized as bare words. Each maps to itself; the set exists so
// the lexer/parser can ask "is this bare word meaningful here" without a
// separate keyword Kind per word, mirroring the teacher's IsKeyword but
// collapsed onto the single generic Ident kind plus a lookup table.
var keywords = map[string]struct{}{
	"module": {}, "stage": {}, "raw": {}, "optimizable": {},
	"func": {}, "extern": {}, "adjoint": {}, "struct": {}, "enum": {}, "type": {}, "var": {},
	"bool": {}, "undefined": {}, "zero": {}, "null": {}, "true": {}, "false": {},
	"tensor": {}, "box": {}, "stack": {}, "void": {},
}

// IsKeyword reports whether text is one of the grammar's reserved bare
// words.
func IsKeyword(text string) bool {
	_, ok := keywords[text]
	return ok
}
