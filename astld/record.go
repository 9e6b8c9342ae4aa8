package astld

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is one node of a JSON tree.
type Value struct {
	kind   Kind
	text   string
	flag   bool
	list   []Value
	record *Record
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns a number value holding its literal text.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: n.String()} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List returns a list value.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Nested wraps a record as a value.
func Nested(r *Record) Value {
	if r == nil {
		r = NewRecord()
	}
	return Value{kind: KindRecord, record: r}
}

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindString }

// Record returns the nested record and whether the value is one.
func (v Value) Record() (*Record, bool) { return v.record, v.kind == KindRecord }

// Items returns the list items and whether the value is a list.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Equal reports deep equality, including record key order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString, KindNumber:
		return v.text == other.text
	case KindBool:
		return v.flag == other.flag
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		return v.record.Equal(other.record)
	default:
		return true
	}
}

func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.clone()
		}
		return List(items...)
	case KindRecord:
		return Nested(v.record.Clone())
	default:
		return v
	}
}

// MarshalJSON encodes the value, keeping record key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return marshalString(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		if v.flag {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindRecord:
		return v.record.MarshalJSON()
	default:
		return nil, fmt.Errorf("astld: cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// Record is a JSON object that remembers key insertion order.
type Record struct {
	keys   []string
	fields map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the value stored at key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Set stores a value. Existing keys keep their position.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := NewRecord()
	if r == nil {
		return out
	}
	for _, key := range r.keys {
		out.Set(key, r.fields[key].clone())
	}
	return out
}

// Equal reports deep equality including key order.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	for i, key := range r.Keys() {
		if other.keys[i] != key {
			return false
		}
		if !r.fields[key].Equal(other.fields[key]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record with its keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		data, err := r.fields[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	rec, ok := v.Record()
	if !ok {
		return fmt.Errorf("astld: expected object, got %s", v.Kind())
	}
	*r = *rec
	return nil
}

// ParseRecord decodes a JSON object from r.
func ParseRecord(r io.Reader) (*Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	rec, ok := v.Record()
	if !ok {
		return nil, fmt.Errorf("astld: expected object, got %s", v.Kind())
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := NewRecord()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("astld: expected object key, got %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				rec.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Nested(rec), nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		default:
			return Value{}, fmt.Errorf("astld: unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(json.Number(fmt.Sprint(t))), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("astld: unexpected token %v", tok)
	}
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
