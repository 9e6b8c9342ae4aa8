package astld

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/geoknoesis/sysml-semtag/errs"
)

// ContextStore resolves the JSON-LD context fragment for a metamodel type.
// Implementations return a LOOKUP_ERROR when no fragment exists.
type ContextStore interface {
	Context(typeName string) (*Record, error)
}

// DirStore reads fragments from <dir>/<type>.jsonld and caches them.
type DirStore struct {
	dir string

	mu    sync.Mutex
	cache map[string]*Record
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir, cache: make(map[string]*Record)}
}

// Dir returns the store's root directory.
func (s *DirStore) Dir() string { return s.dir }

// Context returns a copy of the fragment for typeName.
func (s *DirStore) Context(typeName string) (*Record, error) {
	if typeName == "" || strings.ContainsAny(typeName, `/\`) || typeName == "." || typeName == ".." {
		return nil, errs.Lookup("context for type", typeName, errors.New("invalid type name"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.cache[typeName]; ok {
		return rec.Clone(), nil
	}

	path := filepath.Join(s.dir, typeName+".jsonld")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Lookup("context for type", typeName, fmt.Errorf("no fragment at %s", path))
		}
		return nil, errs.Lookup("context for type", typeName, err)
	}
	defer f.Close()

	rec, err := ParseRecord(f)
	if err != nil {
		return nil, errs.Format("context fragment", path, err)
	}
	s.cache[typeName] = rec
	return rec.Clone(), nil
}

// MapStore is an in-memory ContextStore.
type MapStore map[string]*Record

// Context returns a copy of the fragment for typeName.
func (m MapStore) Context(typeName string) (*Record, error) {
	rec, ok := m[typeName]
	if !ok {
		return nil, errs.Lookup("context for type", typeName, errors.New("no fragment registered"))
	}
	return rec.Clone(), nil
}
