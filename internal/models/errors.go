package models

import (
	"strconv"
	"strings"
)

// RecoverableError is implemented by enriched errors that carry structured
// context and remediation hints. Both the store and output packages use this
// interface to avoid an import cycle.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// KindCarrier is implemented by errors that already know their ErrorKind.
type KindCarrier interface {
	ErrorKind() ErrorKind
}

// InvalidKindError reports an ErrorKind that breaks the payload invariant
// or a code outside the taxonomy.
type InvalidKindError struct {
	Code   Code
	Field  string
	Reason string
}

func (e *InvalidKindError) Error() string {
	if e.Code == "" {
		return "invalid error kind: " + e.Reason
	}
	return "invalid error kind " + string(e.Code) + ": " + e.Reason
}
func (e *InvalidKindError) ErrorCode() string { return "INVALID_ERROR_KIND" }
func (e *InvalidKindError) Context() map[string]string {
	return map[string]string{
		"code":  string(e.Code),
		"field": e.Field,
	}
}
func (e *InvalidKindError) SuggestedAction() string {
	if e.Field != "" {
		return "set --" + e.Field + " for kind " + string(e.Code)
	}
	return "run `mishap kinds` to list valid kinds"
}

// Error is an application error tagged with its ErrorKind.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError wraps err with kind for operation op.
func NewError(op string, kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(Message(e.Kind))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
func (e *Error) ErrorKind() ErrorKind { return e.Kind }
func (e *Error) ErrorCode() string { return strings.ToUpper(string(codeOf(e.Kind))) }
func (e *Error) Context() map[string]string {
	return map[string]string{
		"op":          e.Op,
		"code":        string(codeOf(e.Kind)),
		"category":    string(CategoryOf(e.Kind)),
		"recoverable": strconv.FormatBool(IsRecoverable(e.Kind)),
	}
}
func (e *Error) SuggestedAction() string {
	if !IsRecoverable(e.Kind) {
		return "contact support"
	}
	return "run `mishap plan --kind " + string(codeOf(e.Kind)) + "` for recovery options"
}

func codeOf(k ErrorKind) Code {
	if k == nil {
		return CodeUnknown
	}
	return k.Code()
}
