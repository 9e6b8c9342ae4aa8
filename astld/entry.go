package astld

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/geoknoesis/sysml-semtag/errs"
)

// Entry is one element of a SysML v2 AST export.
type Entry struct {
	// Index is the entry's position in the export.
	Index    int
	Payload  *Record
	Identity *Record
}

// Type returns the payload's declared @type.
func (e Entry) Type() (string, error) {
	v, ok := e.Payload.Get("@type")
	if !ok {
		return "", errs.Format("ast entry", e.id(), errors.New("payload has no @type"))
	}
	typeName, ok := v.Str()
	if !ok || typeName == "" {
		return "", errs.Format("ast entry", e.id(), fmt.Errorf("payload @type must be a non-empty string, got %s", v.Kind()))
	}
	return typeName, nil
}

func (e Entry) id() string {
	if v, ok := e.Identity.Get("@id"); ok {
		if id, ok := v.Str(); ok && id != "" {
			return id
		}
	}
	return strconv.Itoa(e.Index)
}

// ParseEntries reads an AST export: a JSON array of {payload, identity}
// objects. Any entry lacking either object fails with a format error naming
// the entry's index.
func ParseEntries(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, errs.Format("ast document", "", err)
	}
	items, ok := root.Items()
	if !ok {
		return nil, errs.Format("ast document", "", fmt.Errorf("expected a JSON array, got %s", root.Kind()))
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		entry, err := entryFromValue(i, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromValue(index int, v Value) (Entry, error) {
	id := strconv.Itoa(index)
	rec, ok := v.Record()
	if !ok {
		return Entry{}, errs.Format("ast entry", id, fmt.Errorf("expected object, got %s", v.Kind()))
	}
	payload, err := requireRecord(rec, "payload")
	if err != nil {
		return Entry{}, errs.Format("ast entry", id, err)
	}
	identity, err := requireRecord(rec, "identity")
	if err != nil {
		return Entry{}, errs.Format("ast entry", id, err)
	}
	return Entry{Index: index, Payload: payload, Identity: identity}, nil
}

func requireRecord(rec *Record, key string) (*Record, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	nested, ok := v.Record()
	if !ok {
		return nil, fmt.Errorf("%q must be an object, got %s", key, v.Kind())
	}
	return nested, nil
}
