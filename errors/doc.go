// Package errors provides structured error types for blobspace.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending entity name, the declared type of the
// operator or net involved, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConstruct, errors.KindUnknownType).
//		Name("train").
//		Type("fancy_net").
//		Detail("no constructor registered").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Duplicate(errors.PhaseRegistry, "net", "train", "")
//	err := errors.UnknownType(errors.PhaseConstruct, "operator", "Conv")
//
// Fatal conditions in the workspace are reported as returned errors. Soft
// conditions (a failed run, an unregistered net) are reported as a false
// result plus a log entry, so callers rarely see the run-phase kinds
// outside of logs.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
