package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Fields carries a partial update keyed by JSON field name.
// A nil value clears an optional field.
type Fields map[string]any

// Keys returns the field names in the update.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

// ApplyFields overlays fields onto a copy of cur and returns the copy.
// cur is left untouched. The id field is immutable, and names that are
// not part of the entity's JSON shape are rejected.
func ApplyFields[T any](entity string, cur *T, fields Fields) (*T, error) {
	base, err := json.Marshal(cur)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", entity, err)
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", entity, err)
	}

	for key, value := range fields {
		if key == "id" {
			return nil, &ValidationError{Entity: entity, Field: "id", Reason: "identifier is immutable"}
		}
		if _, ok := merged[key]; !ok {
			return nil, &ValidationError{Entity: entity, Field: key, Reason: "unknown field"}
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, &ValidationError{Entity: entity, Field: key, Reason: err.Error()}
		}
		merged[key] = raw
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshal %s update: %w", entity, err)
	}

	next := new(T)
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.DisallowUnknownFields()
	if err := dec.Decode(next); err != nil {
		return nil, &ValidationError{Entity: entity, Field: decodeField(err), Reason: err.Error()}
	}
	return next, nil
}

// decodeField extracts the offending field name from a json decode error
func decodeField(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	return "fields"
}
