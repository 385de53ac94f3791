// Package apperr defines the error taxonomy shared by the ledger contracts.
package apperr

import "errors"

// Kind classifies an error independently of the entity it concerns.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindCorruptState    Kind = "corrupt_state"
	KindAlreadyExists   Kind = "already_exists" // reserved, creation never checks for duplicates
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Code is a machine-readable error code surfaced to callers.
type Code string

const (
	CodeFactCheckerNotFound      Code = "FACT_CHECKER_NOT_FOUND"
	CodeFactCheckerAlreadyExists Code = "FACT_CHECKER_ALREADY_EXISTS"
	CodeFactCheckerReactivation  Code = "FACT_CHECKER_REACTIVATION_NOT_ALLOWED"

	CodeSourceNotFound      Code = "SOURCE_NOT_FOUND"
	CodeSourceAlreadyExists Code = "SOURCE_ALREADY_EXISTS"

	CodeReferenceTextNotFound      Code = "REFERENCE_TEXT_NOT_FOUND"
	CodeReferenceTextAlreadyExists Code = "REFERENCE_TEXT_ALREADY_EXISTS"

	CodeHypothesisNotFound      Code = "HYPOTHESIS_NOT_FOUND"
	CodeHypothesisAlreadyExists Code = "HYPOTHESIS_ALREADY_EXISTS"

	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnknownFunction Code = "UNKNOWN_FUNCTION"
	CodeCorruptState    Code = "CORRUPT_STATE"
	CodeLedgerConflict  Code = "LEDGER_CONFLICT"
	CodeLedgerFailure   Code = "LEDGER_FAILURE"
	CodeIDGeneration    Code = "ID_GENERATION_FAILED"
)

// Error is the domain error type carried across the contract layer.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error without an underlying cause.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error that wraps cause.
func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

func NotFound(code Code, message string) *Error {
	return New(KindNotFound, code, message)
}

func InvalidArgument(message string, cause error) *Error {
	return Wrap(KindInvalidArgument, CodeInvalidArgument, message, cause)
}

func CorruptState(message string, cause error) *Error {
	return Wrap(KindCorruptState, CodeCorruptState, message, cause)
}

func Conflict(message string, cause error) *Error {
	return Wrap(KindConflict, CodeLedgerConflict, message, cause)
}

// KindOf extracts the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the Code of err, or the empty code for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool        { return err != nil && KindOf(err) == KindNotFound }
func IsInvalidArgument(err error) bool { return err != nil && KindOf(err) == KindInvalidArgument }
func IsCorruptState(err error) bool    { return err != nil && KindOf(err) == KindCorruptState }
func IsConflict(err error) bool        { return err != nil && KindOf(err) == KindConflict }
