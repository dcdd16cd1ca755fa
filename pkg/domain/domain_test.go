package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentError(t *testing.T) {
	err := &domain.DocumentError{Name: "goblin.json", Op: domain.OpLoad, Err: domain.ErrInvalidDocument}

	assert.Equal(t, "load goblin.json: invalid document", err.Error())
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	var target *domain.DocumentError
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, "goblin.json", target.Name)
}

func TestConversionHooks_Fire(t *testing.T) {
	var got []string
	hooks := domain.ConversionHooks{
		OnDocumentDone:   func(_ context.Context, ev *domain.DocumentEvent) { got = append(got, "done:"+ev.Name) },
		OnDocumentFailed: func(_ context.Context, ev *domain.DocumentEvent) { got = append(got, "failed:"+ev.Name) },
	}
	ctx := context.Background()

	hooks.Fire(ctx, &domain.DocumentEvent{Name: "a", Outcome: domain.OutcomeWritten})
	hooks.Fire(ctx, &domain.DocumentEvent{Name: "b", Outcome: domain.OutcomeSkipped})
	hooks.Fire(ctx, &domain.DocumentEvent{Name: "c", Outcome: domain.OutcomeFailed})

	assert.Equal(t, []string{"done:a", "failed:c"}, got)
}

func TestDecodeValue(t *testing.T) {
	v, err := domain.DecodeValue([]byte(` {"id": 9007199254740993, "w": 1.0, "tags": ["a"]} `))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":   json.Number("9007199254740993"),
		"w":    json.Number("1.0"),
		"tags": []any{"a"},
	}, v)

	_, err = domain.DecodeValue([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)

	_, err = domain.DecodeValue([]byte(`{"a": `))
	assert.Error(t, err)
}
