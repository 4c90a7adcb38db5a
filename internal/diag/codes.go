package diag

// Code identifies the precise error/warning shape of a Diagnostic. Ranges
// follow the teacher's convention of grouping by compiler stage: lexical
// errors in the 1000s, parse errors in the 2000s, verification errors in
// the 3000s.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical errors (spec §7 LexicalError).
	LexUnexpectedToken               Code = 1000
	LexIllegalNumber                 Code = 1001
	LexIllegalIdentifier             Code = 1002
	LexInvalidEscapeCharacter        Code = 1003
	LexUnclosedStringLiteral         Code = 1004
	LexExpectingIdentifierName       Code = 1005
	LexInvalidAnonymousLocalIdent    Code = 1006
	LexInvalidBasicBlockIndex        Code = 1007
	LexInvalidAnonymousIdentifierIdx Code = 1008
	LexUnknownAttribute              Code = 1009

	// Parse errors (spec §7 ParseError).
	SynUnexpectedIdentifierKind      Code = 2000
	SynUnexpectedEndOfInput          Code = 2001
	SynUnexpectedToken               Code = 2002
	SynUndefinedIdentifier           Code = 2003
	SynUndefinedIntrinsic            Code = 2004
	SynTypeMismatch                  Code = 2005
	SynUndefinedNominalType          Code = 2006
	SynRedefinedIdentifier           Code = 2007
	SynAnonymousIdentifierNotInLocal Code = 2008
	SynInvalidInstructionIndex       Code = 2009
	SynInvalidArgumentIndex          Code = 2010
	SynInvalidBasicBlockIndex        Code = 2011
	SynInvalidVariableIndex          Code = 2012
	SynInvalidFunctionIndex          Code = 2013
	SynVariableAfterFunction         Code = 2014
	SynTypeDeclNotBeforeValues       Code = 2015
	SynNotFunctionType                Code = 2016
	SynNotInBasicBlock               Code = 2017
	SynInvalidAttributeArguments     Code = 2018
	SynDeclarationCannotHaveBody     Code = 2019
	SynCannotNameVoidValue           Code = 2020
	SynInvalidOperands               Code = 2021
	SynInvalidReductionCombinator    Code = 2022

	// Verification errors (spec §7 VerificationError).
	VerifyDuplicateTypeName            Code = 3000
	VerifyDuplicateGlobalName          Code = 3001
	VerifyInvalidIdentifierName        Code = 3002
	VerifyVariableAfterFunction        Code = 3003
	VerifyDeclarationWithBlocks        Code = 3004
	VerifyDeclarationSignatureMismatch Code = 3005
	VerifyEntryArgumentMismatch        Code = 3006
	VerifyMissingTerminator            Code = 3007
	VerifyMultipleTerminators          Code = 3008
	VerifyTerminatorNotLast            Code = 3009
	VerifyDuplicateNameInBlock         Code = 3010
	VerifyWrongParentFunction          Code = 3011
	VerifyWrongParentBlock             Code = 3012
	VerifyUseFromDifferentFunction     Code = 3013
	VerifyNestedAggregateLiteral       Code = 3014
	VerifyNamedVoidInstruction         Code = 3015
	VerifyUseBeforeDef                 Code = 3016
	VerifyReturnTypeMismatch           Code = 3017
	VerifyTypeMismatch                 Code = 3018
	VerifyShapeIncompatible            Code = 3019
	VerifyUndominatedUse               Code = 3020
	VerifyDanglingUse                  Code = 3021
	VerifyMultipleEntryPoints          Code = 3022
	VerifyAdjointSignatureMismatch     Code = 3023
	VerifyEnumCaseInvalid              Code = 3024
	VerifyInvalidOperandCount          Code = 3025
	VerifyNotATensor                   Code = 3026
	VerifyNotNumeric                   Code = 3027
	VerifyNotBool                      Code = 3028
	VerifyRankMismatch                 Code = 3029
	VerifyDataTypeMismatch             Code = 3030
	VerifyIntrinsicNotRegistered       Code = 3031
	VerifyIntrinsicRoundTripMismatch   Code = 3032
	VerifyConditionalArgumentMismatch  Code = 3033
	VerifyConvolutionPrecondition      Code = 3034
	VerifyInvalidType                  Code = 3035
)
