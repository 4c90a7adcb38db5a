package lexer

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/diag"
	"github.com/dan-zheng/GPIR/internal/source"
)

// ErrorKind enumerates the LexicalError variants of spec §7.
type ErrorKind uint8

const (
	UnexpectedToken ErrorKind = iota
	IllegalNumber
	IllegalIdentifier
	InvalidEscapeCharacter
	UnclosedStringLiteral
	ExpectingIdentifierName
	InvalidAnonymousLocalIdentifier
	InvalidBasicBlockIndex
	InvalidAnonymousIdentifierIndex
	UnknownAttribute
)

var codes = map[ErrorKind]diag.Code{
	UnexpectedToken:                 diag.LexUnexpectedToken,
	IllegalNumber:                   diag.LexIllegalNumber,
	IllegalIdentifier:               diag.LexIllegalIdentifier,
	InvalidEscapeCharacter:          diag.LexInvalidEscapeCharacter,
	UnclosedStringLiteral:           diag.LexUnclosedStringLiteral,
	ExpectingIdentifierName:         diag.LexExpectingIdentifierName,
	InvalidAnonymousLocalIdentifier: diag.LexInvalidAnonymousLocalIdent,
	InvalidBasicBlockIndex:          diag.LexInvalidBasicBlockIndex,
	InvalidAnonymousIdentifierIndex: diag.LexInvalidAnonymousIdentifierIdx,
	UnknownAttribute:                diag.LexUnknownAttribute,
}

// Error is the LexicalError taxonomy: every variant carries a source span
// for diagnostics, per spec §7.
type Error struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Span, e.Message)
}

// Diagnostic converts the error into a diag.Diagnostic for bag reporting.
func (e *Error) Diagnostic() *diag.Diagnostic {
	return &diag.Diagnostic{
		Severity: diag.Error,
		Code:     codes[e.Kind],
		Message:  e.Message,
		Primary:  e.Span,
	}
}

func newError(kind ErrorKind, span source.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
