package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegistry  Phase = "registry"  // blob and net bookkeeping
	PhaseConstruct Phase = "construct" // operator and net construction
	PhaseRun       Phase = "run"       // operator and net execution
	PhasePlan      Phase = "plan"      // plan execution
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseLoad      Phase = "load"      // module and file loading
	PhaseParse     Phase = "parse"     // definition parsing
)

// Kind categorizes the error
type Kind string

const (
	KindDuplicate    Kind = "duplicate"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindUnknownType  Kind = "unknown_type"
	KindConstruction Kind = "construction"
	KindRunFailed    Kind = "run_failed"
	KindTypeMismatch Kind = "type_mismatch"
	KindInvalidData  Kind = "invalid_data"
	KindUnsupported  Kind = "unsupported"
)

// Error is the structured error type used throughout blobspace
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Name   string
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Name != "" {
		b.WriteString(" ")
		b.WriteString(e.Name)
	}

	if e.Type != "" {
		b.WriteString(" (type ")
		b.WriteString(e.Type)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Name sets the blob, net or operator name
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Type sets the declared operator or net type
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// IsKind reports whether any *Error in err's chain has the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Convenience constructors for common error patterns

// Duplicate creates a duplicate-name error
func Duplicate(phase Phase, what, name, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("%s %q already exists", what, name)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Name:   name,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Name:   name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// UnknownType creates an error for an operator or net type with no registered constructor
func UnknownType(phase Phase, what, typ string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Type:   typ,
		Detail: fmt.Sprintf("%s type %q is not registered", what, typ),
	}
}

// Construction creates a construction failure error
func Construction(what, name, typ string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		Name:   name,
		Type:   typ,
		Detail: fmt.Sprintf("create %s", what),
		Cause:  cause,
	}
}

// RunFailed creates an execution failure error
func RunFailed(what, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindRunFailed,
		Name:   name,
		Detail: fmt.Sprintf("run %s", what),
		Cause:  cause,
	}
}

// TypeMismatch creates a payload type mismatch error
func TypeMismatch(phase Phase, name, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Name:   name,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, name, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Name:   name,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
