package convert_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/chazz/pkg/adapters/memory"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySink fails writes for the listed names.
type flakySink struct {
	*memory.Sink
	fail map[string]bool
}

func (s *flakySink) Write(ctx context.Context, name, text string) error {
	if s.fail[name] {
		return errors.New("disk full")
	}
	return s.Sink.Write(ctx, name, text)
}

// unchangedSink reports every write as unchanged.
type unchangedSink struct{}

func (unchangedSink) Write(context.Context, string, string) error { return domain.ErrUnchanged }

// failingLoader cannot list its documents.
type failingLoader struct{}

func (failingLoader) List(context.Context) ([]string, error) { return nil, errors.New("offline") }
func (failingLoader) Load(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("offline")
}

func newLoader(t *testing.T, raw map[string]string) *memory.Loader {
	t.Helper()
	loader, err := memory.NewFromJSON(raw)
	require.NoError(t, err)
	return loader
}

func TestConverter_Run(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"goblin.json": `{"entries": "{@atk mw} {@hit 4} to hit"}`,
		"dragon.json": `{"entries": ["{@dc 18}"]}`,
		"empty.json":  `{"name": "no entries"}`,
		"null.json":   `{"entries": null}`,
		"list.json":   `[1, 2, 3]`,
	})
	sink := memory.NewSink()

	report, err := convert.New(loader, sink, "entries").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"dragon.json", "goblin.json"}, report.Written)
	assert.Equal(t, []string{"empty.json", "list.json", "null.json"}, report.Skipped)
	assert.Empty(t, report.Failures)
	assert.NoError(t, report.Err())
	assert.Equal(t, 5, report.Total())
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, map[string]string{
		"goblin.json": "Melee Weapon Attack _4_ to hit",
		"dragon.json": `["DC 18"]`,
	}, sink.Snapshot())
}

func TestConverter_FailureDoesNotStopSiblings(t *testing.T) {
	raw := map[string]string{}
	for i := range 10 {
		raw[fmt.Sprintf("doc%02d.json", i)] = fmt.Sprintf(`{"entries": "{@dc %d}"}`, i)
	}
	sink := &flakySink{Sink: memory.NewSink(), fail: map[string]bool{"doc03.json": true, "doc07.json": true}}

	report, err := convert.New(newLoader(t, raw), sink, "entries", convert.WithWorkers(3)).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Written, 8)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "doc03.json", report.Failures[0].Name)
	assert.Equal(t, domain.OpWrite, report.Failures[0].Op)
	assert.Equal(t, "doc07.json", report.Failures[1].Name)
	assert.ErrorContains(t, report.Err(), "disk full")

	got, err := sink.Read(context.Background(), "doc05.json")
	require.NoError(t, err)
	assert.Equal(t, "DC 5", got)
}

func TestConverter_ListFailure(t *testing.T) {
	report, err := convert.New(failingLoader{}, memory.NewSink(), "entries").Run(context.Background())
	assert.Nil(t, report)
	assert.ErrorContains(t, err, "offline")
}

func TestConverter_NoDocuments(t *testing.T) {
	_, err := convert.New(memory.NewLoader(nil), memory.NewSink(), "entries").Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestConverter_Cancelled(t *testing.T) {
	loader := newLoader(t, map[string]string{"a.json": `{"entries": "x"}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := convert.New(loader, memory.NewSink(), "entries").Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Written)
}

func TestConverter_HTMLFormat(t *testing.T) {
	loader := newLoader(t, map[string]string{"goblin.json": `{"entries": "{@b Nimble Escape}"}`})
	sink := memory.NewSink()

	_, err := convert.New(loader, sink, "entries", convert.WithFormat(convert.FormatHTML)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"goblin.html": "<p><strong>Nimble Escape</strong></p>\n",
	}, sink.Snapshot())
}

func TestConverter_UnchangedIsSkipped(t *testing.T) {
	loader := newLoader(t, map[string]string{"a.json": `{"entries": "x"}`})

	report, err := convert.New(loader, unchangedSink{}, "entries").Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, report.Skipped)
}

func TestConverter_Hooks(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"ok.json":   `{"entries": "{@i ok}"}`,
		"skip.json": `{}`,
		"bad.json":  `{"entries": "x"}`,
	})
	sink := &flakySink{Sink: memory.NewSink(), fail: map[string]bool{"bad.json": true}}

	var mu sync.Mutex
	seen := map[string]domain.Outcome{}
	record := func(_ context.Context, e *domain.DocumentEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen[e.Name] = e.Outcome
		assert.NotEmpty(t, e.RunID)
	}
	hooks := domain.ConversionHooks{
		OnDocumentDone:    record,
		OnDocumentSkipped: record,
		OnDocumentFailed: func(ctx context.Context, e *domain.DocumentEvent) {
			assert.Error(t, e.Err)
			record(ctx, e)
		},
	}

	_, err := convert.New(loader, sink, "entries", convert.WithHooks(hooks)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.Outcome{
		"ok.json":   domain.OutcomeWritten,
		"skip.json": domain.OutcomeSkipped,
		"bad.json":  domain.OutcomeFailed,
	}, seen)
}

func TestConverter_ConvertOne(t *testing.T) {
	loader := newLoader(t, map[string]string{"a.json": `{"entries": "{@chance 50}"}`})
	sink := memory.NewSink()
	c := convert.New(loader, sink, "entries")
	ctx := context.Background()

	outcome, err := c.ConvertOne(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWritten, outcome)

	got, err := sink.Read(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "50 percent", got)

	outcome, err = c.ConvertOne(ctx, "missing.json")
	assert.Equal(t, domain.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	var derr *domain.DocumentError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.OpLoad, derr.Op)
}

func TestConverter_CustomEngine(t *testing.T) {
	var matches atomic.Int64
	eng := markup.NewEngine(markup.WithObserver(func(_ string, n int) {
		matches.Add(int64(n))
	}))
	loader := newLoader(t, map[string]string{"a.json": `{"entries": "{@dc 1} {@dc 2} {@b x}"}`})

	_, err := convert.New(loader, memory.NewSink(), "entries", convert.WithEngine(eng)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), matches.Load())
}

func TestConverter_Render(t *testing.T) {
	c := convert.New(memory.NewLoader(nil), memory.NewSink(), "text")

	out, ok, err := c.Render(&domain.Document{Name: "inline", Value: map[string]any{"text": "{@s gone}"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "~gone~", out)

	_, ok, err = c.Render(&domain.Document{Name: "inline", Value: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, ok)
}
