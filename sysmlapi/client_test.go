package sysmlapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"

	"github.com/geoknoesis/sysml-semtag/errs"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL,
		WithMaxRetries(2),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func sysmlServer(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/ld+json" {
			t.Errorf("unexpected Accept header %q", got)
		}
		w.Write([]byte(`[
			{"@id":"p-old","created":"2023-01-01T10:00:00Z"},
			{"@id":"p-new","created":"2024-03-05T09:30:00.123456+01:00"},
			{"@id":"p-mid","created":"2023-06-01T00:00:00"}
		]`))
	})
	mux.HandleFunc("/projects/p-new/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"@id":"c1","created":"2024-03-05T10:00:00Z"},
			{"@id":"c2","created":"2024-03-06T10:00:00Z"}
		]`))
	})
	mux.HandleFunc("/projects/p-new/commits/c2/elements", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"@id":"e1","@type":"PartUsage"},{"@id":"e2","@type":"MetadataUsage"}]`))
	})
	return mux
}

func TestProjectsNewestFirst(t *testing.T) {
	c := newTestClient(t, sysmlServer(t))
	res := c.Projects(context.Background())
	if res.Failed() {
		t.Fatalf("Projects: %v", res.Err)
	}
	var ids []string
	for _, p := range res.Items {
		ids = append(ids, p.ID)
	}
	if len(ids) != 3 || ids[0] != "p-new" || ids[1] != "p-mid" || ids[2] != "p-old" {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestLatestSnapshot(t *testing.T) {
	c := newTestClient(t, sysmlServer(t))
	snap, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap.ProjectID != "p-new" || snap.CommitID != "c2" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Base != "http://projects/p-new/commits/c2/elements/" {
		t.Fatalf("unexpected base %q", snap.Base)
	}
	var doc []map[string]string
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		t.Fatalf("document is not a JSON array: %v", err)
	}
	if len(doc) != 2 || doc[0]["@id"] != "e1" {
		t.Fatalf("unexpected document %s", snap.Document)
	}
}

func TestLatestNoProjects(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	res := c.Projects(context.Background())
	if !res.Empty() || res.Failed() {
		t.Fatalf("expected empty, successful result, got %+v", res)
	}
	if _, err := c.Latest(context.Background()); !errors.Is(err, errs.ErrEmptyResult) {
		t.Fatalf("expected empty result error, got %v", err)
	}
}

func TestLatestNoCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"@id":"p1","created":"2024-01-01T00:00:00Z"}]`))
	})
	mux.HandleFunc("/projects/p1/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	c := newTestClient(t, mux)
	_, err := c.Latest(context.Background())
	if !errors.Is(err, errs.ErrEmptyResult) {
		t.Fatalf("expected empty result error, got %v", err)
	}
}

func TestUpstreamFailureIsReportedNotEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	res := c.Projects(context.Background())
	if !res.Failed() || res.Empty() {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if !errors.Is(res.Err, errs.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", res.Err)
	}
	if _, err := c.Latest(context.Background()); !errors.Is(err, errs.ErrUpstream) {
		t.Fatalf("expected upstream error from Latest, got %v", err)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"@id":"p1","created":"2024-01-01T00:00:00Z"}]`))
	}))
	res := c.Projects(context.Background())
	if res.Failed() {
		t.Fatalf("Projects: %v", res.Err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	res := c.Commits(context.Background(), "missing")
	if !errors.Is(res.Err, errs.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", res.Err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	res := c.Projects(context.Background())
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", got)
	}
}

func TestNewClientRejectsBadEndpoint(t *testing.T) {
	if _, err := NewClient("ftp://example.org/"); !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestTimestampLayouts(t *testing.T) {
	for _, raw := range []string{`"2024-01-02T03:04:05Z"`, `"2024-01-02T03:04:05.5"`, `"2024-01-02"`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if ts.Year() != 2024 {
			t.Fatalf("unexpected time %v for %s", ts.Time, raw)
		}
	}
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unparsable timestamp")
	}
}
