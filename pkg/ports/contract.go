package ports

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOutputSinkContract runs a suite of tests to verify that a ReadableSink implementation
// adheres to the defined interface contract.
func RunOutputSinkContract(t *testing.T, sink ReadableSink) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405") + ".json"

	t.Run("Write and Read", func(t *testing.T) {
		text := "Melee Weapon Attack _+5_ → **2d6+3**"
		require.NoError(t, sink.Write(ctx, name, text), "Write should not return error")

		got, err := sink.Read(ctx, name)
		require.NoError(t, err, "Read should not return error")
		assert.Equal(t, text, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, sink.Write(ctx, name, "first"))
		require.NoError(t, sink.Write(ctx, name, "second"))

		got, err := sink.Read(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Empty Text", func(t *testing.T) {
		empty := "empty-" + name
		require.NoError(t, sink.Write(ctx, empty, ""))

		got, err := sink.Read(ctx, empty)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("Read Non-Existent", func(t *testing.T) {
		_, err := sink.Read(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := "other-" + name
		require.NoError(t, sink.Write(ctx, other, "x"))

		names, err := sink.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name)
		assert.Contains(t, names, other)
	})
}

// RunDocumentLoaderContract verifies a DocumentLoader against the documents it was seeded with.
func RunDocumentLoaderContract(t *testing.T, loader DocumentLoader, want map[string]any) {
	t.Helper()
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)

		expected := make([]string, 0, len(want))
		for name := range want {
			expected = append(expected, name)
		}
		sort.Strings(expected)
		assert.Equal(t, expected, names)
	})

	t.Run("Load", func(t *testing.T) {
		for name, value := range want {
			doc, err := loader.Load(ctx, name)
			require.NoError(t, err, "loading %s", name)
			assert.Equal(t, name, doc.Name)
			assert.Equal(t, value, doc.Value)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent.json")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}
