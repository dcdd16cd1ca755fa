package convert_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  convert.Field
	}{
		{"String Verbatim", map[string]any{"entries": "{@dc 12}"}, convert.Text("{@dc 12}")},
		{"Empty String", map[string]any{"entries": ""}, convert.Text("")},
		{"Array Encoded", map[string]any{"entries": []any{"a", float64(1)}}, convert.Text(`["a",1]`)},
		{"Object Encoded", map[string]any{"entries": map[string]any{"x": true}}, convert.Text(`{"x":true}`)},
		{"Number Encoded", map[string]any{"entries": float64(3)}, convert.Text("3")},
		{"Tags Inside Array", map[string]any{"entries": []any{"{@b x}"}}, convert.Text(`["{@b x}"]`)},
		{"No HTML Escaping", map[string]any{"entries": []any{"a < b & c"}}, convert.Text(`["a < b & c"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.SelectField(tt.value, "entries")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectField_NumbersKeepTheirSpelling(t *testing.T) {
	value, err := domain.DecodeValue([]byte(`{"k": {"id": 9007199254740993, "w": 1.0, "e": 1e3}, "n": -0.50}`))
	require.NoError(t, err)

	got, err := convert.SelectField(value, "k")
	require.NoError(t, err)
	assert.Equal(t, convert.Text(`{"e":1e3,"id":9007199254740993,"w":1.0}`), got)

	got, err = convert.SelectField(value, "n")
	require.NoError(t, err)
	assert.Equal(t, convert.Text("-0.50"), got)
}

func TestSelectField_Missing(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"Absent Key", map[string]any{"other": "x"}},
		{"Null Value", map[string]any{"entries": nil}},
		{"Array Document", []any{"entries"}},
		{"String Document", "entries"},
		{"Null Document", nil},
		{"Number Document", json.Number("7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.SelectField(tt.value, "entries")
			require.NoError(t, err)
			missing, ok := got.(convert.Missing)
			require.True(t, ok, "got %#v", got)
			assert.NotEmpty(t, missing.Reason)
		})
	}
}
