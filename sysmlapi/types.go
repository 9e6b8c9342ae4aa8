package sysmlapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Project is a SysML v2 API project.
type Project struct {
	ID      string    `json:"@id"`
	Name    string    `json:"name,omitempty"`
	Created Timestamp `json:"created"`
}

// Commit is a commit of a project.
type Commit struct {
	ID      string    `json:"@id"`
	Created Timestamp `json:"created"`
}

// Timestamp accepts ISO 8601 date-times with or without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses a JSON string timestamp.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sysmlapi: timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("sysmlapi: unrecognized timestamp %q", raw)
}

// MarshalJSON renders the timestamp as RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// Result is the outcome of a listing: the items, or the error that
// prevented fetching them.
type Result[T any] struct {
	Items []T
	Err   error
}

// Failed reports whether the fetch failed.
func (r Result[T]) Failed() bool { return r.Err != nil }

// Empty reports whether the fetch succeeded with no items.
func (r Result[T]) Empty() bool { return r.Err == nil && len(r.Items) == 0 }

// Snapshot is the element set of one commit together with the base IRI
// its relative identifiers resolve against.
type Snapshot struct {
	ProjectID string
	CommitID  string
	Base      string
	// Document is the elements as a JSON-LD array.
	Document []byte
}

// SnapshotBase returns the base IRI of a commit's elements.
func SnapshotBase(projectID, commitID string) string {
	return fmt.Sprintf("http://projects/%s/commits/%s/elements/", projectID, commitID)
}
