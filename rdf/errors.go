package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrIO marks failures reading or writing the underlying stream.
	ErrIO = errors.New("rdf: i/o failure")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrIO):
		return ErrCodeIOError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if code := Code(parseErr.Err); code != ErrCodeParseError && code != "" {
			return code
		}
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    Format // Format being decoded
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(string(e.Format))
	if e.Line > 0 {
		fmt.Fprintf(&msg, ":%d", e.Line)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if e.Statement != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt(e.Statement))
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/statement/line context to a parse error.
func wrapParseError(format Format, statement string, line int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Line > 0 && line == 0 {
		line = parseErr.Line
	}
	return &ParseError{Format: format, Statement: statement, Line: line, Err: err}
}

func excerpt(statement string) string {
	const maxExcerptLen = 80
	statement = strings.TrimSpace(statement)
	if len(statement) > maxExcerptLen {
		return statement[:maxExcerptLen] + "..."
	}
	return statement
}
