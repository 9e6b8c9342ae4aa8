package rdf

import (
	"errors"
	"strings"
	"testing"
)

func TestParseErrorMessage(t *testing.T) {
	cause := errors.New("unexpected token")
	err := wrapParseError(FormatNTriples, "<s> <p> .", 3, cause)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "ntriples:3: unexpected token") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "<s> <p> .") {
		t.Fatalf("expected statement excerpt in %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatal("ParseError should unwrap to its cause")
	}
}

func TestParseErrorKeepsInnerLine(t *testing.T) {
	inner := wrapParseError(FormatTurtle, "", 7, errors.New("bad"))
	outer := wrapParseError(FormatTurtle, "", 0, inner)

	var parseErr *ParseError
	if !errors.As(outer, &parseErr) || parseErr.Line != 7 {
		t.Fatalf("expected line 7, got %v", outer)
	}
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := excerpt(long)
	if len(got) != 83 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected excerpt %q", got)
	}
	if wrapParseError(FormatTurtle, "", 0, nil) != nil {
		t.Fatal("wrapping nil should yield nil")
	}
}
