package astld

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/errs"
)

// Converter merges AST entries with their type contexts.
type Converter struct {
	store  ContextStore
	base   string
	logger *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the converter's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter returns a converter that pins every record's @base to base.
func NewConverter(store ContextStore, base string, opts ...Option) *Converter {
	c := &Converter{store: store, base: base, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert merges every entry, preserving input order. The first failing
// entry aborts the conversion and nothing is returned.
func (c *Converter) Convert(entries []Entry) ([]*Record, error) {
	out := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		rec, err := c.ConvertEntry(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	c.logger.Debug("converted ast entries", zap.Int("count", len(out)))
	return out, nil
}

// ConvertEntry merges payload, identity and the payload type's context
// fragment, in that precedence, then sets @context.@base.
func (c *Converter) ConvertEntry(entry Entry) (*Record, error) {
	typeName, err := entry.Type()
	if err != nil {
		return nil, err
	}
	merged, err := Merge(entry.Payload, entry.Identity)
	if err != nil {
		return nil, errs.Format("ast entry", entry.id(), err)
	}
	fragment, err := c.store.Context(typeName)
	if err != nil {
		return nil, err
	}
	merged, err = Merge(merged, fragment)
	if err != nil {
		return nil, errs.Format("ast entry", entry.id(), err)
	}
	setBase(merged, c.base)
	return merged, nil
}

// setBase pins @base inside the record's @context. A missing context
// becomes an object, a context list gets the base on its last object, and
// a remote context reference is turned into a list.
func setBase(rec *Record, base string) {
	ctx, ok := rec.Get("@context")
	if !ok {
		fresh := NewRecord()
		fresh.Set("@base", String(base))
		rec.Set("@context", Nested(fresh))
		return
	}
	if nested, ok := ctx.Record(); ok {
		nested.Set("@base", String(base))
		return
	}
	baseOnly := NewRecord()
	baseOnly.Set("@base", String(base))
	if items, ok := ctx.Items(); ok {
		if n := len(items); n > 0 {
			if last, ok := items[n-1].Record(); ok {
				last.Set("@base", String(base))
				return
			}
		}
		rec.Set("@context", List(append(items, Nested(baseOnly))...))
		return
	}
	rec.Set("@context", List(ctx, Nested(baseOnly)))
}

// Document renders records as the JSON array a linked-data reader expects.
func Document(records []*Record) Value {
	items := make([]Value, len(records))
	for i, rec := range records {
		items[i] = Nested(rec)
	}
	return List(items...)
}

// WriteDocument writes the records as an indented JSON array.
func WriteDocument(w io.Writer, records []*Record) error {
	raw, err := Document(records).MarshalJSON()
	if err != nil {
		return fmt.Errorf("astld: encode document: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return fmt.Errorf("astld: indent document: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
