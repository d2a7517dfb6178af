package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document is an opaque JSON object (profile data, attachments). Nothing in
// the lifecycle engine inspects its keys.
type Document map[string]any

// Scan implements the sql.Scanner interface for JSONB columns.
func (d *Document) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan Document: unsupported type %T", value)
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	out := Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to scan Document: %w", err)
	}
	*d = out
	return nil
}

// Value implements the driver.Valuer interface; nil encodes as an empty object.
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Merge returns a copy of d with patch applied on top. A nil value in patch removes the key.
func (d Document) Merge(patch Document) Document {
	out := make(Document, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
