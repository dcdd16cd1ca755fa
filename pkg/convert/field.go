package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is the result of selecting a key from a document: Text or Missing.
type Field interface {
	isField()
}

// Text is a selected field ready to be transformed.
type Text string

// Missing means the document has nothing to convert under the key.
type Missing struct {
	Reason string
}

func (Text) isField()    {}
func (Missing) isField() {}

// SelectField extracts key from a decoded JSON document.
// Strings are used verbatim; other non-null values are encoded as compact JSON.
// Absent keys, null values and non-object documents yield Missing.
func SelectField(value any, key string) (Field, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return Missing{Reason: fmt.Sprintf("document is %s, not an object", kindOf(value))}, nil
	}

	v, ok := obj[key]
	if !ok {
		return Missing{Reason: fmt.Sprintf("key %q not present", key)}, nil
	}

	switch t := v.(type) {
	case nil:
		return Missing{Reason: fmt.Sprintf("key %q is null", key)}, nil
	case string:
		return Text(t), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", key, err)
		}
		return Text(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64, json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
