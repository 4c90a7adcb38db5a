// Package parser implements the two-phase LL parser of spec §4.5: a symbol
// scan that registers nominal types, globals, function prototypes, and
// per-function basic-block prototypes ahead of body parsing, so forward
// references resolve without backtracking the authoritative cursor.
package parser

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/diag"
	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/token"
)

// ErrorKind enumerates the ParseError variants of spec §7.
type ErrorKind uint8

const (
	UnexpectedIdentifierKind ErrorKind = iota
	UnexpectedEndOfInput
	UnexpectedToken
	UndefinedIdentifier
	UndefinedIntrinsic
	TypeMismatch
	UndefinedNominalType
	RedefinedIdentifier
	AnonymousIdentifierNotInLocal
	InvalidInstructionIndex
	InvalidArgumentIndex
	InvalidBasicBlockIndex
	InvalidVariableIndex
	InvalidFunctionIndex
	VariableAfterFunction
	TypeDeclarationNotBeforeValues
	NotFunctionType
	NotInBasicBlock
	InvalidAttributeArguments
	DeclarationCannotHaveBody
	CannotNameVoidValue
	InvalidOperands
	InvalidReductionCombinator
)

var codes = map[ErrorKind]diag.Code{
	UnexpectedIdentifierKind:       diag.SynUnexpectedIdentifierKind,
	UnexpectedEndOfInput:           diag.SynUnexpectedEndOfInput,
	UnexpectedToken:                diag.SynUnexpectedToken,
	UndefinedIdentifier:            diag.SynUndefinedIdentifier,
	UndefinedIntrinsic:             diag.SynUndefinedIntrinsic,
	TypeMismatch:                   diag.SynTypeMismatch,
	UndefinedNominalType:           diag.SynUndefinedNominalType,
	RedefinedIdentifier:            diag.SynRedefinedIdentifier,
	AnonymousIdentifierNotInLocal:  diag.SynAnonymousIdentifierNotInLocal,
	InvalidInstructionIndex:        diag.SynInvalidInstructionIndex,
	InvalidArgumentIndex:           diag.SynInvalidArgumentIndex,
	InvalidBasicBlockIndex:         diag.SynInvalidBasicBlockIndex,
	InvalidVariableIndex:           diag.SynInvalidVariableIndex,
	InvalidFunctionIndex:           diag.SynInvalidFunctionIndex,
	VariableAfterFunction:          diag.SynVariableAfterFunction,
	TypeDeclarationNotBeforeValues: diag.SynTypeDeclNotBeforeValues,
	NotFunctionType:                diag.SynNotFunctionType,
	NotInBasicBlock:                diag.SynNotInBasicBlock,
	InvalidAttributeArguments:      diag.SynInvalidAttributeArguments,
	DeclarationCannotHaveBody:      diag.SynDeclarationCannotHaveBody,
	CannotNameVoidValue:            diag.SynCannotNameVoidValue,
	InvalidOperands:                diag.SynInvalidOperands,
	InvalidReductionCombinator:     diag.SynInvalidReductionCombinator,
}

// Error is the ParseError taxonomy: every variant carries the span of the
// offending token, per spec §7. Tok is left zero by this package.
type Error struct {
	Kind    ErrorKind
	Span    source.Span
	Tok     token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
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
