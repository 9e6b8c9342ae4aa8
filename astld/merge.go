package astld

import (
	"errors"
	"fmt"
)

// ErrNullConflict reports a key that is null on both sides of a merge.
var ErrNullConflict = errors.New("null on both sides")

// Merge combines two records over the union of their keys. Where both sides
// hold a nested record the two are merged recursively; otherwise the left
// value wins when present and the right value fills in when it is not.
// A JSON null on the left is absent when the right side has the key, and a
// key null on both sides is an error. Neither input is modified.
func Merge(left, right *Record) (*Record, error) {
	return merge(left, right, "")
}

func merge(left, right *Record, path string) (*Record, error) {
	out := NewRecord()
	for _, key := range left.Keys() {
		lv, _ := left.Get(key)
		rv, ok := right.Get(key)
		if !ok {
			out.Set(key, lv.clone())
			continue
		}
		lrec, lok := lv.Record()
		rrec, rok := rv.Record()
		switch {
		case lok && rok:
			nested, err := merge(lrec, rrec, joinPath(path, key))
			if err != nil {
				return nil, err
			}
			out.Set(key, Nested(nested))
		case lv.Kind() != KindNull:
			out.Set(key, lv.clone())
		case rv.Kind() != KindNull:
			out.Set(key, rv.clone())
		default:
			return nil, fmt.Errorf("key %q: %w", joinPath(path, key), ErrNullConflict)
		}
	}
	for _, key := range right.Keys() {
		if _, ok := left.Get(key); ok {
			continue
		}
		rv, _ := right.Get(key)
		out.Set(key, rv.clone())
	}
	return out, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
