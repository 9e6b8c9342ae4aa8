package rdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNT = `<http://example.org/s> <http://example.org/p> <http://example.org/o> .
<http://example.org/s> <http://example.org/name> "s" .
`

func TestReadFileInfersFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.nt")
	if err := os.WriteFile(path, []byte(sampleNT), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g, err := ReadFile(context.Background(), path, FormatAuto, ReadOptions{Base: "http://example.org/"})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 triples, got %d", g.Len())
	}
	if g.Base() != "http://example.org/" {
		t.Fatalf("unexpected base %q", g.Base())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.ttl"), FormatAuto, ReadOptions{})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if Code(err) != ErrCodeIOError {
		t.Fatalf("expected IO_ERROR code, got %v", Code(err))
	}
}

func TestReadSniffsFormat(t *testing.T) {
	g, err := Read(context.Background(), strings.NewReader(sampleNT), FormatAuto, ReadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 triples, got %d", g.Len())
	}
}

func TestReadHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Read(ctx, strings.NewReader(sampleNT), FormatNTriples, ReadOptions{})
	if Code(err) != ErrCodeContextCanceled {
		t.Fatalf("expected CONTEXT_CANCELED, got %v", err)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept"), "text/turtle") {
			t.Errorf("unexpected Accept header %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/n-triples; charset=utf-8")
		w.Write([]byte(sampleNT))
	}))
	defer srv.Close()

	g, err := Load(context.Background(), srv.URL+"/ontology", FormatAuto, ReadOptions{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !g.Has(Triple{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: IRI{Value: "http://example.org/o"}}) {
		t.Fatal("missing loaded triple")
	}
}

func TestLoadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, FormatAuto, ReadOptions{})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
