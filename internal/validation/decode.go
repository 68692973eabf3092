package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

const tagName = "mapstructure"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get(tagName), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parse checks the raw payload against the shape of out, decodes what is
// well typed on top of the defaults already in out, then applies the
// validate tags. Every violation ends up in the returned *Errors.
func parse(input map[string]any, out any) error {
	errs := &Errors{}

	t := reflect.TypeOf(out).Elem()
	clean, _ := sanitize("", t, input, errs)

	if clean != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: tagName,
			Result:  out,
		})
		if err != nil {
			return fmt.Errorf("failed to create decoder: %w", err)
		}
		if err := dec.Decode(clean); err != nil {
			errs.Add("", "decode", err.Error())
		}
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); !ok {
			return fmt.Errorf("failed to validate: %w", err)
		}
		for _, fe := range verrs {
			field := fieldPath(fe.Namespace())
			if errs.Has(field) {
				continue
			}
			errs.Add(field, fe.Tag(), message(fe))
		}
	}

	return errs.OrNil()
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*out = v
	}
	return ok
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit(fe.Kind()))
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit(fe.Kind()))
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters"
	case reflect.Slice:
		return " items"
	}
	return ""
}

// sanitize walks v against the Go type t. Values of the wrong shape are
// reported and dropped so the decoder never silently coerces them
// (a 2.5 quantity must not become 2). Unknown keys are stripped.
func sanitize(path string, t reflect.Type, v any, errs *Errors) (any, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v == nil {
		errs.Add(path, "type", "must not be null")
		return nil, false
	}

	switch t.Kind() {
	case reflect.String:
		if _, ok := v.(string); !ok {
			errs.Add(path, "type", "must be a string")
			return nil, false
		}
		return v, true

	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			errs.Add(path, "type", "must be a boolean")
			return nil, false
		}
		return v, true

	case reflect.Int, reflect.Int32, reflect.Int64:
		n, fe := Integer(v)
		if fe != nil {
			errs.Add(path, fe.Tag, fe.Message)
			return nil, false
		}
		return n, true

	case reflect.Float32, reflect.Float64:
		f, ok := Number(v)
		if !ok {
			errs.Add(path, "type", "must be a number")
			return nil, false
		}
		return f, true

	case reflect.Slice:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			errs.Add(path, "type", "must be an array")
			return nil, false
		}
		out := make([]any, 0, rv.Len())
		valid := true
		for i := 0; i < rv.Len(); i++ {
			elem, ok := sanitize(fmt.Sprintf("%s[%d]", path, i), t.Elem(), rv.Index(i).Interface(), errs)
			if !ok {
				valid = false
				continue
			}
			out = append(out, elem)
		}
		if !valid {
			return nil, false
		}
		return out, true

	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			errs.Add(path, "type", "must be an object")
			return nil, false
		}
		out := make(map[string]any, len(m))
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.SplitN(f.Tag.Get(tagName), ",", 2)[0]
			if name == "" || name == "-" {
				continue
			}
			raw, present := m[name]
			if !present {
				continue
			}
			child := name
			if path != "" {
				child = path + "." + name
			}
			if clean, ok := sanitize(child, f.Type, raw, errs); ok {
				out[name] = clean
			}
		}
		return out, true
	}

	return v, true
}

// Number returns v as a float64 when it holds any Go numeric type.
func Number(v any) (float64, bool) {
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

// Integer converts a decoded number to int64. Fractions and values outside
// the int32 range (the size of an integer column) are violations.
func Integer(v any) (int64, *FieldError) {
	f, ok := Number(v)
	if !ok {
		return 0, &FieldError{Tag: "type", Message: "must be a number"}
	}
	if f != math.Trunc(f) {
		return 0, &FieldError{Tag: "int", Message: "must be an integer"}
	}
	if f > math.MaxInt32 {
		return 0, &FieldError{Tag: "max", Message: fmt.Sprintf("must be at most %d", math.MaxInt32)}
	}
	if f < math.MinInt32 {
		return 0, &FieldError{Tag: "min", Message: fmt.Sprintf("must be at least %d", math.MinInt32)}
	}
	return int64(f), nil
}

// Fields returns the payload keys accepted for the request type of v.
func Fields(v any) []string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get(tagName), ",", 2)[0]
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}
