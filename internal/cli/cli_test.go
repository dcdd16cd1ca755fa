package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/chazz/internal/cli"
	"github.com/aretw0/chazz/internal/config"
	"github.com/aretw0/chazz/internal/logging"
	"github.com/aretw0/chazz/pkg/adapters/memory"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func batchConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input = t.TempDir()
	cfg.Output = filepath.Join(t.TempDir(), "out")
	cfg.Key = "entries"
	return cfg
}

func TestRunConvert_FileSink(t *testing.T) {
	cfg := batchConfig(t)
	writeDoc(t, cfg.Input, "goblin.json", `{"entries": "{@atk mw} {@hit 4} to hit"}`)
	writeDoc(t, cfg.Input, "empty.json", `{"name": "x"}`)

	p, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer p.Close()

	var out bytes.Buffer
	report, err := cli.RunConvert(context.Background(), p, &out, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"goblin.json"}, report.Written)
	assert.Contains(t, out.String(), "Converted 2 documents (1 written, 1 skipped, 0 failed)")

	data, err := os.ReadFile(filepath.Join(cfg.Output, "goblin.json"))
	require.NoError(t, err)
	assert.Equal(t, "Melee Weapon Attack _4_ to hit", string(data))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.Documents.WithLabelValues("written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.RuleMatches.WithLabelValues(markup.RuleAttack)))
}

func TestRunConvert_FailOnError(t *testing.T) {
	cfg := batchConfig(t)
	writeDoc(t, cfg.Input, "bad.json", `{"entries": `)
	writeDoc(t, cfg.Input, "good.json", `{"entries": "{@dc 12}"}`)

	p, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	report, err := cli.RunConvert(context.Background(), p, &out, false)
	require.NoError(t, err, "failures are warnings by default")
	assert.Len(t, report.Failures, 1)
	assert.Contains(t, out.String(), "! load bad.json")

	_, err = cli.RunConvert(context.Background(), p, &out, true)
	assert.ErrorIs(t, err, cli.ErrDocumentsFailed)
}

func TestRunConvert_EmptyInput(t *testing.T) {
	cfg := batchConfig(t)

	p, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	_, err = cli.RunConvert(context.Background(), p, &bytes.Buffer{}, false)
	assert.Error(t, err)
}

func TestBuildPipeline_HTMLAndSinkOverride(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Format = "html"
	writeDoc(t, cfg.Input, "a.json", `{"entries": "{@b bold}"}`)
	sink := memory.NewSink()

	p, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop(), cli.WithSink(sink))
	require.NoError(t, err)

	_, err = cli.RunConvert(context.Background(), p, &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.html": "<p><strong>bold</strong></p>\n"}, sink.Snapshot())
}

func TestBuildPipeline_RedisSink(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := batchConfig(t)
	cfg.Sink = config.SinkRedis
	cfg.Redis.Addr = mr.Addr()
	writeDoc(t, cfg.Input, "a.json", `{"entries": "{@chance 10}"}`)

	p, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer p.Close()

	_, err = cli.RunConvert(context.Background(), p, &bytes.Buffer{}, false)
	require.NoError(t, err)

	got, err := mr.Get("chazz:output:a.json")
	require.NoError(t, err)
	assert.Equal(t, "10 percent", got)
}

func TestBuildPipeline_Errors(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Format = "pdf"
	_, err := cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)

	cfg = batchConfig(t)
	cfg.Sink = config.SinkRedis
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err = cli.BuildPipeline(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "redis")
}

func TestRunPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts cli.PreviewOptions
		want string
	}{
		{"Plain Text", "{@dc 15} {@i careful}", cli.PreviewOptions{}, "DC 15 _careful_"},
		{"Document Field", `{"entries": "{@recharge}"}`, cli.PreviewOptions{Key: "entries"}, "Recharge 6"},
		{"Document With Comments", "{\n// c\n\"entries\": [\"{@b x}\"],\n}", cli.PreviewOptions{Key: "entries"}, `["**x**"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, cli.RunPreview(strings.NewReader(tt.in), &out, tt.opts))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunPreview_Errors(t *testing.T) {
	err := cli.RunPreview(strings.NewReader(`{"other": 1}`), &bytes.Buffer{}, cli.PreviewOptions{Key: "entries"})
	assert.ErrorContains(t, err, "nothing to preview")

	err = cli.RunPreview(strings.NewReader(`not json`), &bytes.Buffer{}, cli.PreviewOptions{Key: "entries"})
	assert.Error(t, err)
}

func TestRunPreview_Styled(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.RunPreview(strings.NewReader("{@b Nimble}"), &out, cli.PreviewOptions{Styled: true, Width: 60}))
	assert.Contains(t, out.String(), "Nimble")
	assert.NotContains(t, out.String(), "{@b")
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	_, ok := cli.TerminalWidth(f)
	assert.False(t, ok)
}

func TestChangeBatcher(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string
	b := cli.NewChangeBatcher(20*time.Millisecond, func(names []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, names)
	})
	defer b.Stop()

	for _, name := range []string{"b.json", "a.json", "b.json", "c.json", "a.json"} {
		b.Add(name)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]string{{"a.json", "b.json", "c.json"}}, batches)
}

func TestChangeBatcher_StopDropsPending(t *testing.T) {
	var calls atomic.Int32
	b := cli.NewChangeBatcher(20*time.Millisecond, func([]string) { calls.Add(1) })
	b.Add("a.json")
	b.Stop()
	b.Stop()
	b.Add("b.json")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestChangeBatcher_StopWaitsForRunningFlush(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	b := cli.NewChangeBatcher(time.Millisecond, func([]string) {
		close(started)
		<-release
		finished.Store(true)
	})

	b.Add("a.json")
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("flush did not start")
	}

	stopped := make(chan struct{})
	go func() {
		b.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a flush was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
		assert.True(t, finished.Load())
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the flush finished")
	}
}
