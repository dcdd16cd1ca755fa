package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Document is one decoded input document.
// Value holds the generic JSON decoding (map[string]any for objects).
// Numbers are kept as json.Number so they re-encode exactly as written.
type Document struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// DecodeValue decodes a single JSON value, keeping numbers as json.Number.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}
