package errs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorMatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("convert: %w", Lookup("context for type", "PartUsage", os.ErrNotExist))
	if !errors.Is(err, ErrLookup) {
		t.Fatal("expected ErrLookup")
	}
	if errors.Is(err, ErrFormat) {
		t.Fatal("lookup error must not match ErrFormat")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected wrapped cause to stay reachable")
	}
	if CodeOf(err) != CodeLookup {
		t.Fatalf("unexpected code %s", CodeOf(err))
	}
}

func TestErrorMessageCarriesIdentifier(t *testing.T) {
	err := Format("ast entry", "3", errors.New("missing payload"))
	want := `ast entry "3": missing payload`
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
	empty := EmptyResult("list projects", "http://localhost:9000/")
	if empty.Error() != `list projects "http://localhost:9000/": empty result` {
		t.Fatalf("unexpected message %q", empty.Error())
	}
}

func TestIsRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{Upstream("get", "u", errors.New("refused")), true},
		{EmptyResult("list commits", "p1"), true},
		{Format("ast entry", "0", nil), false},
		{Lookup("context for type", "X", nil), false},
		{context.Canceled, false},
		{errors.New("plain"), false},
	}
	for _, c := range cases {
		if got := IsRecoverable(c.err); got != c.want {
			t.Fatalf("IsRecoverable(%v) = %v want %v", c.err, got, c.want)
		}
	}
}
