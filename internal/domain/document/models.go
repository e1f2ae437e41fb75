package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Document is a schemaless record in a named collection.
type Document struct {
	ID        string
	CreatedAt time.Time
	Fields    map[string]any
}

// Filter is an exact-match condition on one top-level field.
type Filter struct {
	Field string
	Value any
}

// Eq builds a Filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Matches reports whether fields satisfy f. Values are compared by their
// string form, which is how the SQL backend compares JSON text.
func (f Filter) Matches(fields map[string]any) bool {
	v, ok := fields[f.Field]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == fmt.Sprint(f.Value)
}

// NewID returns a fresh unique document id.
func NewID() string {
	return uuid.NewString()
}

// Decode copies the document fields into out, a pointer to a struct tagged
// with `mapstructure`. The document id is exposed as the "$id" field.
func (d *Document) Decode(out any) error {
	fields := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		fields[k] = v
	}
	fields["$id"] = d.ID

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	return nil
}

// Encode flattens a `mapstructure`-tagged struct into document fields.
func Encode(in any) (map[string]any, error) {
	fields := map[string]any{}
	if err := mapstructure.Decode(in, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	delete(fields, "$id")
	return fields, nil
}
