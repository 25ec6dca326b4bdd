package normalize

import (
	"encoding/json"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Sequence
	Record
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
	case Sequence:
		return "sequence"
	case Record:
		return "record"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Field is a single key/value pair of a Record. Records keep their fields in
// wire order.
type Field struct {
	Key   string
	Value Value
}

// Value is a JSON-like tree: a record, a sequence, or a scalar.
// The zero Value is Null. Values are treated as immutable once built.
type Value struct {
	kind   Kind
	b      bool
	text   string // number literal or string contents
	items  []Value
	fields []Field
}

func NullValue() Value { return Value{} }

func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue keeps the literal as written so numbers pass through unchanged.
func NumberValue(n json.Number) Value { return Value{kind: Number, text: string(n)} }

func FloatValue(f float64) Value {
	return Value{kind: Number, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func StringValue(s string) Value { return Value{kind: String, text: s} }

func SequenceOf(items ...Value) Value {
	return Value{kind: Sequence, items: items}
}

func RecordOf(fields ...Field) Value {
	return Value{kind: Record, fields: fields}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Len is the number of items of a sequence or fields of a record.
func (v Value) Len() int {
	switch v.kind {
	case Sequence:
		return len(v.items)
	case Record:
		return len(v.fields)
	default:
		return 0
	}
}

// Fields returns a copy of a record's fields, nil for any other kind.
func (v Value) Fields() []Field {
	if v.kind != Record {
		return nil
	}
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Items returns a copy of a sequence's items, nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != Sequence {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Get looks up key in a record. Duplicate keys resolve to the last one,
// matching how JSON objects are usually read.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Record {
		return Value{}, false
	}
	for i := len(v.fields) - 1; i >= 0; i-- {
		if v.fields[i].Key == key {
			return v.fields[i].Value, true
		}
	}
	return Value{}, false
}

func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Index returns the i-th item of a sequence.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Sequence || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Path walks nested records by key.
func (v Value) Path(keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

func (v Value) Float() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text returns the contents of a string or the literal of a number.
func (v Value) Text() (string, bool) {
	if v.kind != String && v.kind != Number {
		return "", false
	}
	return v.text, true
}

func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Equal reports deep equality. Record fields are compared in order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number, String:
		return a.text == b.text
	case Sequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Record:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
