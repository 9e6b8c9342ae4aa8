// Package errs defines the error taxonomy of the tag pipeline.
//
// Every failure carries one of four codes. Format and lookup errors come
// from the core (AST merging, context lookup, ontology resolution) and abort
// the run. Upstream and empty-result errors come from the remote model
// service client, which recovers from them locally.
package errs

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Code classifies a pipeline error.
type Code string

const (
	// CodeFormat marks malformed input, such as an AST entry without a
	// payload/identity split.
	CodeFormat Code = "FORMAT_ERROR"
	// CodeLookup marks a missing context fragment or an unresolvable
	// ontology namespace.
	CodeLookup Code = "LOOKUP_ERROR"
	// CodeUpstream marks an unreachable remote service or an unparsable
	// response.
	CodeUpstream Code = "UPSTREAM_ERROR"
	// CodeEmptyResult marks a remote listing that returned no items where
	// at least one was required.
	CodeEmptyResult Code = "EMPTY_RESULT"
)

var (
	ErrFormat      = errors.New("malformed input")
	ErrLookup      = errors.New("lookup failed")
	ErrUpstream    = errors.New("upstream service failed")
	ErrEmptyResult = errors.New("empty result")
)

// Error is a classified pipeline error. ID names the offending identifier:
// a type name, an entry index, a URL.
type Error struct {
	Code Code
	Op   string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else {
		msg += ": " + sentinel(e.Code).Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's code.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Code)
}

func sentinel(code Code) error {
	switch code {
	case CodeFormat:
		return ErrFormat
	case CodeLookup:
		return ErrLookup
	case CodeUpstream:
		return ErrUpstream
	case CodeEmptyResult:
		return ErrEmptyResult
	default:
		return nil
	}
}

// Format returns a FORMAT_ERROR.
func Format(op, id string, err error) error {
	return &Error{Code: CodeFormat, Op: op, ID: id, Err: err}
}

// Lookup returns a LOOKUP_ERROR.
func Lookup(op, id string, err error) error {
	return &Error{Code: CodeLookup, Op: op, ID: id, Err: err}
}

// Upstream returns an UPSTREAM_ERROR.
func Upstream(op, id string, err error) error {
	return &Error{Code: CodeUpstream, Op: op, ID: id, Err: err}
}

// EmptyResult returns an EMPTY_RESULT error.
func EmptyResult(op, id string) error {
	return &Error{Code: CodeEmptyResult, Op: op, ID: id}
}

// CodeOf returns the code of the first classified error in the chain, or
// the empty string when there is none.
func CodeOf(err error) Code {
	if err == nil || err == io.EOF {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Code
	}
	return ""
}

// IsRecoverable reports whether the error belongs to the network
// collaborator and may be recovered locally. Cancellation never is.
func IsRecoverable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	code := CodeOf(err)
	return code == CodeUpstream || code == CodeEmptyResult
}
