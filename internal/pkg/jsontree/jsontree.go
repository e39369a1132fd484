// Package jsontree decodes JSON into an order-preserving tree.
//
// encoding/json decodes objects into maps, which loses member order. Image
// discovery and report rendering walk structured data in document order, so
// objects are kept as ordered member lists here.
package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of an object, in source order.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of a decoded JSON document.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Str     string
	Items   []*Value
	Members []Member
}

// MaxDepth bounds the nesting of arrays and objects, matching encoding/json.
const MaxDepth = 10000

// Parse decodes exactly one JSON value from text. Trailing data other than
// whitespace is an error. A key repeated inside one object keeps its first
// position and its last value.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}

	tok, err := dec.Token()
	if err == io.EOF {
		return v, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("extra data after top-level value: unexpected %v at offset %d", tok, dec.InputOffset())
}

func decodeValue(dec *json.Decoder, depth int) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, unexpectedEOF(err)
	}

	switch t := tok.(type) {
	case nil:
		return &Value{Kind: Null}, nil
	case bool:
		return &Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		return &Value{Kind: Number, Number: t}, nil
	case string:
		return &Value{Kind: String, Str: t}, nil
	case json.Delim:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("exceeded max depth %d at offset %d", MaxDepth, dec.InputOffset())
		}
		switch t {
		case '{':
			return decodeObject(dec, depth+1)
		case '[':
			return decodeArray(dec, depth+1)
		}
	}
	return nil, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

func decodeObject(dec *json.Decoder, depth int) (*Value, error) {
	obj := &Value{Kind: Object, Members: []Member{}}
	index := map[string]int{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string at offset %d", dec.InputOffset())
		}

		val, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}

		if i, seen := index[key]; seen {
			obj.Members[i].Value = val
			continue
		}
		index[key] = len(obj.Members)
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	if err := closeDelim(dec, '}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder, depth int) (*Value, error) {
	arr := &Value{Kind: Array, Items: []*Value{}}
	for dec.More() {
		val, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, val)
	}

	if err := closeDelim(dec, ']'); err != nil {
		return nil, err
	}
	return arr, nil
}

func closeDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v at offset %d", want, tok, dec.InputOffset())
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Get returns the value of the member named key on an object.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Text renders a value for use in a label: strings verbatim, arrays joined
// with ", ", null as the empty string and anything else as compact JSON.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case Null:
		return ""
	case String:
		return v.Str
	case Array:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, item.Text())
		}
		return strings.Join(parts, ", ")
	}
	raw, _ := v.MarshalJSON()
	return string(raw)
}

// MarshalJSON encodes the tree keeping object member order. Strings are not
// HTML-escaped.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Indent returns the tree as indented JSON.
func (v *Value) Indent(indent string) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Interface converts the tree into the generic encoding/json representation.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Bool:
		return v.Bool
	case Number:
		return v.Number
	case String:
		return v.Str
	case Array:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			out = append(out, item.Interface())
		}
		return out
	case Object:
		out := make(map[string]any, len(v.Members))
		for _, m := range v.Members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(v.Number.String())
	case String:
		return encodeString(buf, v.Str)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsontree: unknown kind %d", v.Kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
