// Package verify implements the structural and typing verifier of spec
// §4.4: module-level name uniqueness, function/block/instruction shape
// invariants, dominance-based use-before-def rejection, and the
// kind-specific checks of §4.2, modeled on the teacher's
// internal/mir.Validate.
package verify

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/diag"
	"github.com/dan-zheng/GPIR/internal/source"
)

// ErrorKind enumerates the VerificationError taxonomy of spec §7.
type ErrorKind uint8

const (
	DuplicateTypeName ErrorKind = iota
	DuplicateGlobalName
	InvalidIdentifierName
	VariableAfterFunction
	DeclarationWithBlocks
	DeclarationSignatureMismatch
	EntryArgumentMismatch
	MissingTerminator
	MultipleTerminators
	TerminatorNotLast
	DuplicateNameInBlock
	WrongParentFunction
	WrongParentBlock
	UseFromDifferentFunction
	NestedAggregateLiteral
	NamedVoidInstruction
	UseBeforeDef
	ReturnTypeMismatch
	TypeMismatch
	ShapeIncompatible
	UndominatedUse
	DanglingUse
	MultipleEntryPoints
	AdjointSignatureMismatch
	EnumCaseInvalid
	InvalidOperandCount
	NotATensor
	NotNumeric
	NotBool
	RankMismatch
	DataTypeMismatch
	IntrinsicNotRegistered
	IntrinsicRoundTripMismatch
	ConditionalArgumentMismatch
	ConvolutionPrecondition
	InvalidType
)

var codes = map[ErrorKind]diag.Code{
	DuplicateTypeName:           diag.VerifyDuplicateTypeName,
	DuplicateGlobalName:         diag.VerifyDuplicateGlobalName,
	InvalidIdentifierName:       diag.VerifyInvalidIdentifierName,
	VariableAfterFunction:       diag.VerifyVariableAfterFunction,
	DeclarationWithBlocks:       diag.VerifyDeclarationWithBlocks,
	DeclarationSignatureMismatch: diag.VerifyDeclarationSignatureMismatch,
	EntryArgumentMismatch:       diag.VerifyEntryArgumentMismatch,
	MissingTerminator:           diag.VerifyMissingTerminator,
	MultipleTerminators:         diag.VerifyMultipleTerminators,
	TerminatorNotLast:           diag.VerifyTerminatorNotLast,
	DuplicateNameInBlock:        diag.VerifyDuplicateNameInBlock,
	WrongParentFunction:         diag.VerifyWrongParentFunction,
	WrongParentBlock:            diag.VerifyWrongParentBlock,
	UseFromDifferentFunction:    diag.VerifyUseFromDifferentFunction,
	NestedAggregateLiteral:      diag.VerifyNestedAggregateLiteral,
	NamedVoidInstruction:        diag.VerifyNamedVoidInstruction,
	UseBeforeDef:                diag.VerifyUseBeforeDef,
	ReturnTypeMismatch:          diag.VerifyReturnTypeMismatch,
	TypeMismatch:                diag.VerifyTypeMismatch,
	ShapeIncompatible:           diag.VerifyShapeIncompatible,
	UndominatedUse:              diag.VerifyUndominatedUse,
	DanglingUse:                 diag.VerifyDanglingUse,
	MultipleEntryPoints:         diag.VerifyMultipleEntryPoints,
	AdjointSignatureMismatch:    diag.VerifyAdjointSignatureMismatch,
	EnumCaseInvalid:             diag.VerifyEnumCaseInvalid,
	InvalidOperandCount:         diag.VerifyInvalidOperandCount,
	NotATensor:                  diag.VerifyNotATensor,
	NotNumeric:                  diag.VerifyNotNumeric,
	NotBool:                     diag.VerifyNotBool,
	RankMismatch:                diag.VerifyRankMismatch,
	DataTypeMismatch:            diag.VerifyDataTypeMismatch,
	IntrinsicNotRegistered:      diag.VerifyIntrinsicNotRegistered,
	IntrinsicRoundTripMismatch:  diag.VerifyIntrinsicRoundTripMismatch,
	ConditionalArgumentMismatch: diag.VerifyConditionalArgumentMismatch,
	ConvolutionPrecondition:     diag.VerifyConvolutionPrecondition,
	InvalidType:                 diag.VerifyInvalidType,
}

// Error is the VerificationError taxonomy of spec §7. Node carries the
// offending IR node (module/function/block/instruction/argument) for
// caller-side diagnostics; it is typed as any since the offending unit
// varies by check.
type Error struct {
	Kind    ErrorKind
	Node    any
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("verification error: %s", e.Message)
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

func newError(kind ErrorKind, node any, span source.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Span: span, Message: fmt.Sprintf(format, args...)}
}
