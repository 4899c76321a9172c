package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBare
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBare:
		return "bare"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Member is one key/value pair of an object. Members keep source order.
type Member struct {
	Key   string
	Value Value
}

// Value is a node of the generic tree produced by Parse.
//
// Partial is set on arrays and objects whose closing bracket was never
// reached because parsing failed inside them; they hold only the children
// that were completed.
type Value struct {
	Kind    Kind
	Text    string
	Items   []Value
	Members []Member
	Offset  int
	Partial bool
}

// String returns a quoted string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Int returns a bare integer value.
func Int(n int) Value { return Value{Kind: KindBare, Text: strconv.Itoa(n)} }

// Bool returns a bare true/false value.
func Bool(b bool) Value { return Value{Kind: KindBare, Text: strconv.FormatBool(b)} }

// Array returns an array of items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// Object returns an object with members in the given order.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{Kind: KindObject, Members: members}
}

// Field builds a Member.
func Field(key string, v Value) Member { return Member{Key: key, Value: v} }

// Get returns the value of the first member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Scalar returns the text of a string or bare value.
func (v Value) Scalar() (string, bool) {
	if v.Kind == KindString || v.Kind == KindBare {
		return v.Text, true
	}
	return "", false
}

// AsInt interprets a string or bare value as a base-10 integer. Quoted
// numbers are accepted.
func (v Value) AsInt() (int, error) {
	text, ok := v.Scalar()
	if !ok {
		return 0, fmt.Errorf("expected integer, found %s", v.Kind)
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", text)
	}
	return n, nil
}

// AsBool interprets a string or bare value as true or false, ignoring case.
func (v Value) AsBool() (bool, error) {
	text, ok := v.Scalar()
	if !ok {
		return false, fmt.Errorf("expected boolean, found %s", v.Kind)
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", text)
}
