package vector

import (
	"errors"
	"fmt"
	"reflect"
)

type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Condition restricts one payload field.
//
// eq takes a string, bool or number; in takes a slice of those;
// the range ops take a number. For list-valued fields eq and in match
// when any element matches.
type Condition struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value"`
}

// Filter is a conjunction of conditions. The zero value matches everything.
type Filter struct {
	Must []Condition `json:"must,omitempty"`
}

func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

func In(field string, values ...any) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

func (f Filter) Empty() bool {
	return len(f.Must) == 0
}

// Validate reports the first malformed condition, wrapped in ErrInvalidFilter.
func (f Filter) Validate() error {
	for i, c := range f.Must {
		if err := c.validate(); err != nil {
			return fmt.Errorf("%w: condition %d: %v", ErrInvalidFilter, i, err)
		}
	}
	return nil
}

func (c Condition) validate() error {
	if c.Field == "" {
		return errors.New("empty field")
	}
	switch c.Op {
	case OpEq:
		if !scalar(c.Value) {
			return fmt.Errorf("%s: eq needs a string, bool or number, got %T", c.Field, c.Value)
		}
	case OpIn:
		values, ok := list(c.Value)
		if !ok || len(values) == 0 {
			return fmt.Errorf("%s: in needs a non-empty list, got %T", c.Field, c.Value)
		}
		for _, v := range values {
			if !scalar(v) {
				return fmt.Errorf("%s: in value %v is not a scalar", c.Field, v)
			}
		}
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := toFloat(c.Value); !ok {
			return fmt.Errorf("%s: %s needs a number, got %T", c.Field, c.Op, c.Value)
		}
	default:
		return fmt.Errorf("%s: unknown op %q", c.Field, c.Op)
	}
	return nil
}

// Match evaluates the filter against a payload.
func (f Filter) Match(payload map[string]any) bool {
	for _, c := range f.Must {
		if !c.match(payload[c.Field]) {
			return false
		}
	}
	return true
}

func (c Condition) match(field any) bool {
	if values, ok := list(field); ok {
		for _, v := range values {
			if c.match(v) {
				return true
			}
		}
		return false
	}

	switch c.Op {
	case OpEq:
		return equal(field, c.Value)
	case OpIn:
		values, _ := list(c.Value)
		for _, v := range values {
			if equal(field, v) {
				return true
			}
		}
		return false
	}

	got, ok := toFloat(field)
	if !ok {
		return false
	}
	want, _ := toFloat(c.Value)
	switch c.Op {
	case OpGt:
		return got > want
	case OpGte:
		return got >= want
	case OpLt:
		return got < want
	case OpLte:
		return got <= want
	}
	return false
}

func equal(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}

func scalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := toFloat(v)
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// list flattens any slice into []any. Strings are not lists.
func list(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
