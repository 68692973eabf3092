// Package schema derives insert and select shapes from the GORM models so
// payload checks cannot drift from the table definitions.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fashionpod/fashionpod/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	gormschema "gorm.io/gorm/schema"
)

var cache sync.Map

// Kind is the payload shape a column accepts.
type Kind string

const (
	KindAny     Kind = "any"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBool    Kind = "boolean"
	KindTime    Kind = "time"
	KindUUID    Kind = "uuid"
	KindArray   Kind = "array"
	KindVector  Kind = "vector"
	KindJSON    Kind = "json"
)

type Column struct {
	// Name is the payload key, taken from the json tag.
	Name     string
	DBName   string
	Kind     Kind
	Required bool
	Nullable bool
	Default  string
}

type Schema struct {
	Table   string
	Columns []Column
	byName  map[string]int
}

// Insert returns the writable columns of model. Database generated primary
// keys and auto timestamps are left out. A column is required when it is
// NOT NULL (or a primary key) and has no default.
func Insert(model any) (*Schema, error) {
	return build(model, true)
}

// Select returns every column of model as read back from storage.
func Select(model any) (*Schema, error) {
	return build(model, false)
}

func MustInsert(model any) *Schema {
	s, err := Insert(model)
	if err != nil {
		panic(err)
	}
	return s
}

func MustSelect(model any) *Schema {
	s, err := Select(model)
	if err != nil {
		panic(err)
	}
	return s
}

func build(model any, insert bool) (*Schema, error) {
	parsed, err := gormschema.Parse(model, &cache, gormschema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}

	s := &Schema{Table: parsed.Table, byName: map[string]int{}}
	for _, f := range parsed.Fields {
		if f.DBName == "" {
			continue
		}
		generated := f.AutoCreateTime != 0 || f.AutoUpdateTime != 0 || (f.PrimaryKey && f.HasDefaultValue)
		if insert && generated {
			continue
		}

		col := Column{
			Name:     payloadName(f),
			DBName:   f.DBName,
			Kind:     kindOf(f),
			Nullable: !f.NotNull && !f.PrimaryKey,
			Default:  f.DefaultValue,
		}
		if insert {
			col.Required = (f.NotNull || f.PrimaryKey) && !f.HasDefaultValue
		}
		s.byName[col.Name] = len(s.Columns)
		s.Columns = append(s.Columns, col)
	}
	return s, nil
}

// kindOf maps the column type GORM resolved (the type tag wins over the Go
// type) to a payload shape.
func kindOf(f *gormschema.Field) Kind {
	dt := strings.ToLower(string(f.DataType))
	switch {
	case dt == "uuid":
		return KindUUID
	case strings.HasSuffix(dt, "[]"):
		return KindArray
	case strings.HasPrefix(dt, "vector"):
		return KindVector
	case dt == "json" || dt == "jsonb":
		return KindJSON
	case strings.HasPrefix(dt, "decimal"), strings.HasPrefix(dt, "numeric"), dt == string(gormschema.Float):
		return KindNumber
	case dt == string(gormschema.Int), dt == string(gormschema.Uint), dt == "integer", dt == "bigint":
		return KindInteger
	case dt == string(gormschema.Bool), dt == "boolean":
		return KindBool
	case dt == string(gormschema.Time), strings.HasPrefix(dt, "timestamp"):
		return KindTime
	case dt == string(gormschema.String), dt == "text", strings.HasPrefix(dt, "varchar"):
		return KindString
	}
	return KindAny
}

// check returns the violated tag and message, or an empty tag when v fits.
// Decimal columns also take numeric strings such as "29.99".
func (k Kind) check(v any) (string, string) {
	switch k {
	case KindString:
		if _, ok := v.(string); !ok {
			return "type", "must be a string"
		}
	case KindInteger:
		if _, fe := validation.Integer(v); fe != nil {
			return fe.Tag, fe.Message
		}
	case KindNumber:
		if _, ok := validation.Number(v); ok {
			return "", ""
		}
		if str, ok := v.(string); ok {
			if _, err := decimal.NewFromString(str); err == nil {
				return "", ""
			}
		}
		return "type", "must be a number"
	case KindBool:
		if _, ok := v.(bool); !ok {
			return "type", "must be a boolean"
		}
	case KindTime:
		switch t := v.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.RFC3339, t); err != nil {
				return "type", "must be an RFC 3339 timestamp"
			}
		default:
			return "type", "must be an RFC 3339 timestamp"
		}
	case KindUUID:
		switch id := v.(type) {
		case uuid.UUID:
		case string:
			if _, err := uuid.Parse(id); err != nil {
				return "uuid", "must be a valid UUID"
			}
		default:
			return "uuid", "must be a valid UUID"
		}
	case KindArray:
		switch items := v.(type) {
		case []string:
		case []any:
			for _, item := range items {
				if _, ok := item.(string); !ok {
					return "type", "must be an array of strings"
				}
			}
		default:
			return "type", "must be an array of strings"
		}
	case KindVector:
		switch items := v.(type) {
		case []float32:
		case []any:
			for _, item := range items {
				if _, ok := validation.Number(item); !ok {
					return "type", "must be an array of numbers"
				}
			}
		default:
			return "type", "must be an array of numbers"
		}
	}
	return "", ""
}

func payloadName(f *gormschema.Field) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.DBName
	}
	return name
}

func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Names returns the payload keys in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s *Schema) Required() []string {
	var names []string
	for _, c := range s.Columns {
		if c.Required {
			names = append(names, c.Name)
		}
	}
	return names
}

// Validate checks a row payload against the schema. Unknown keys, values of
// the wrong type, missing required keys and nulls in NOT NULL columns are
// all reported.
func (s *Schema) Validate(row map[string]any) error {
	errs := &validation.Errors{}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := s.Column(k)
		if !ok {
			errs.Add(k, "unknown", fmt.Sprintf("is not a column of %s", s.Table))
			continue
		}
		if row[k] == nil {
			if !col.Nullable && col.Default == "" {
				errs.Add(k, "required", "must not be null")
			}
			continue
		}
		if tag, msg := col.Kind.check(row[k]); tag != "" {
			errs.Add(k, tag, msg)
		}
	}

	for _, c := range s.Columns {
		if _, ok := row[c.Name]; c.Required && !ok {
			errs.Add(c.Name, "required", "is required")
		}
	}

	return errs.OrNil()
}
