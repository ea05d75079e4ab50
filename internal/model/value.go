package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindNull
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "undefined"
	}
}

// Value is an answer value: undefined, null, string, number or boolean.
// The zero Value is undefined.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func Null() Value              { return Value{kind: KindNull} }
func String(s string) Value    { return Value{kind: KindString, str: s} }
func Number(n float64) Value   { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsZero lets `omitzero` drop undefined values from JSON output.
func (v Value) IsZero() bool { return v.kind == KindUndefined }

// Equal is strict equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String renders the value the way it is shown to users.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "undefined"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(formatNumber(v.num)), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*v = Value{}
		return nil
	}
	switch b[0] {
	case 'n':
		*v = Null()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = Bool(x)
		return nil
	case '{', '[':
		return fmt.Errorf("unsupported answer value: %s", string(b))
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid answer value: %s", string(b))
		}
		*v = Number(n)
		return nil
	}
}

// ParseValue reads a literal typed by a user: JSON scalars keep their type,
// "undefined" is the undefined value and anything else is a string.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "undefined" {
		return Value{}
	}
	var v Value
	if err := v.UnmarshalJSON([]byte(t)); err == nil && t != "" {
		return v
	}
	return String(s)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
