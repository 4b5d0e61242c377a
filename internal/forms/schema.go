// Package forms implements declarative, data-described validation of form
// input: a Schema is a table of field rules (name, kind, constraints) that
// coerces raw string values and collects per-field error messages. The same
// rule set drives server-side checks and the messages shown inline on forms.
package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"invoicedash/internal/domain"
)

// Kind is the coercion target of a field.
type Kind int

const (
	// String accepts any non-empty string.
	String Kind = iota
	// Decimal coerces the value to a number.
	Decimal
	// Enum accepts only the values listed in Field.Enum.
	Enum
)

// Field is one validation rule: a field name, its kind, and its constraints.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Enum     []string // accepted values when Kind is Enum
	Min      *float64 // lower bound when Kind is Decimal
}

// Schema is an ordered set of field rules.
type Schema struct {
	Fields []Field
}

// Values holds the coerced output of a successful Parse.
type Values struct {
	Strings map[string]string
	Numbers map[string]float64
}

// Get returns the coerced string value for the named field.
func (v *Values) Get(name string) string {
	return v.Strings[name]
}

// Number returns the coerced numeric value for the named field.
func (v *Values) Number(name string) float64 {
	return v.Numbers[name]
}

// Min returns a pointer suitable for Field.Min.
func Min(v float64) *float64 {
	return &v
}

// Parse coerces and validates form against the schema. On failure it returns
// a ValidationError with messages for every offending field; Values is nil.
// Parse has no side effects and never touches storage.
func (s Schema) Parse(form url.Values) (*Values, *domain.ValidationError) {
	values := &Values{
		Strings: make(map[string]string),
		Numbers: make(map[string]float64),
	}
	verr := domain.NewValidationError()

	for _, f := range s.Fields {
		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" {
			if f.Required {
				verr.Add(f.Name, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		switch f.Kind {
		case String:
			values.Strings[f.Name] = raw
		case Decimal:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				verr.Add(f.Name, fmt.Sprintf("%s must be a number", f.Name))
				continue
			}
			if f.Min != nil && n < *f.Min {
				verr.Add(f.Name, fmt.Sprintf("%s must be at least %g", f.Name, *f.Min))
				continue
			}
			values.Numbers[f.Name] = n
			values.Strings[f.Name] = raw
		case Enum:
			ok := false
			for _, allowed := range f.Enum {
				if raw == allowed {
					ok = true
					break
				}
			}
			if !ok {
				verr.Add(f.Name, fmt.Sprintf("%s must be one of: %s", f.Name, strings.Join(f.Enum, ", ")))
				continue
			}
			values.Strings[f.Name] = raw
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return values, nil
}
