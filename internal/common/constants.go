// Package common provides the error type and layout defaults shared by the
// internal packages. The root texart package re-exports these names, so the
// public API and the internals always agree on them.
package common

import (
	"errors"
	"fmt"
)

// Layout defaults. These are the values the golden files were generated with.
const (
	// DefaultFractionPadding is the number of extra bar columns around the wider fraction part.
	DefaultFractionPadding = 2
	// DefaultSuperscriptDrop lowers a superscript this many rows from its natural position.
	DefaultSuperscriptDrop = 0
	// DefaultSubscriptRise raises a subscript this many rows from its natural position.
	DefaultSubscriptRise = 0
	// MaxDepth bounds group nesting so hostile input cannot exhaust the stack.
	MaxDepth = 256
)

// Kind classifies which stage produced an error.
type Kind int

const (
	// KindLex marks malformed escapes and undecodable input.
	KindLex Kind = iota + 1
	// KindParse marks grammar violations.
	KindParse
	// KindInternal marks a box geometry and canvas disagreement. It is a bug, not bad input.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindParse:
		return "parse"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Reason is a machine-readable cause within a Kind.
type Reason string

// Lexer reasons.
const (
	ReasonMalformedEscape    Reason = "MALFORMED_ESCAPE"
	ReasonUnterminatedEscape Reason = "UNTERMINATED_ESCAPE"
	ReasonInvalidEncoding    Reason = "INVALID_ENCODING"
	ReasonInvalidCharacter   Reason = "INVALID_CHARACTER"
)

// Parser reasons.
const (
	ReasonUnbalancedGroup    Reason = "UNBALANCED_GROUP"
	ReasonMissingArgument    Reason = "MISSING_ARGUMENT"
	ReasonUnknownControlWord Reason = "UNKNOWN_CONTROL_WORD"
	ReasonTrailingTokens     Reason = "TRAILING_TOKENS"
	ReasonDoubleScript       Reason = "DOUBLE_SCRIPT"
	ReasonTooDeep            Reason = "TOO_DEEP"
)

// Internal reasons.
const (
	ReasonGeometryMismatch Reason = "GEOMETRY_MISMATCH"
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrLex      = errors.New("lex error")
	ErrParse    = errors.New("parse error")
	ErrInternal = errors.New("internal invariant violation")
)

// Error is the single error surface of a render call. Offset is a byte offset
// into the input, or -1 when no position applies.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Offset  int
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := fmt.Sprintf("%s error", e.Kind)
	if e.Offset >= 0 {
		prefix = fmt.Sprintf("%s at offset %d", prefix, e.Offset)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Reason, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrParse) and friends match on Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrLex:
		return e.Kind == KindLex
	case ErrParse:
		return e.Kind == KindParse
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, reason Reason, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// ReasonOf extracts the Reason from err, or "" if err is not an *Error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
