package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/aretw0/chazz/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Converter turns every document of a loader into text in a sink.
type Converter struct {
	loader  ports.DocumentLoader
	sink    ports.OutputSink
	key     string
	engine  *markup.Engine
	format  Format
	workers int
	hooks   domain.ConversionHooks
	logger  *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithEngine replaces the default markup engine.
func WithEngine(e *markup.Engine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithFormat sets the output format. Defaults to FormatMarkdown.
func WithFormat(f Format) Option {
	return func(c *Converter) {
		c.format = f
	}
}

// WithWorkers bounds the number of documents converted concurrently.
// Values below 1 fall back to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithHooks registers per-document callbacks.
func WithHooks(h domain.ConversionHooks) Option {
	return func(c *Converter) {
		c.hooks = h
	}
}

// WithLogger sets the logger for per-document outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a Converter that reads key from each document of loader and writes to sink.
func New(loader ports.DocumentLoader, sink ports.OutputSink, key string, opts ...Option) *Converter {
	c := &Converter{
		loader: loader,
		sink:   sink,
		key:    key,
		format: FormatMarkdown,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = markup.NewEngine()
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	return c
}

// Run converts every document the loader lists.
// Per-document failures are collected in the report and do not stop the run.
// An error is returned only when listing fails or ctx is cancelled.
func (c *Converter) Run(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString())
	log := c.logger.With("run_id", report.RunID)

	names, err := c.loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	log.Debug("Starting conversion", "documents", len(names), "workers", c.workers, "key", c.key)

	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, derr := c.convert(ctx, report.RunID, name)
			report.record(name, outcome, derr)
			return nil
		})
	}
	_ = g.Wait()
	report.finish()

	log.Info("Conversion finished",
		"written", len(report.Written),
		"skipped", len(report.Skipped),
		"failed", len(report.Failures),
		"duration", report.Duration,
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// ConvertOne converts a single document by name.
// A nil error with OutcomeSkipped means the document had nothing to convert or was unchanged.
func (c *Converter) ConvertOne(ctx context.Context, name string) (domain.Outcome, error) {
	outcome, derr := c.convert(ctx, "", name)
	if derr != nil {
		return outcome, derr
	}
	return outcome, nil
}

// Render runs the select, transform and format steps on an already loaded document.
// ok is false when the document has no text under the key.
func (c *Converter) Render(doc *domain.Document) (out string, ok bool, err error) {
	field, err := SelectField(doc.Value, c.key)
	if err != nil {
		return "", false, &domain.DocumentError{Name: doc.Name, Op: domain.OpSelect, Err: err}
	}

	switch f := field.(type) {
	case Missing:
		c.logger.Info("Skipping document", "name", doc.Name, "reason", f.Reason)
		return "", false, nil
	case Text:
		rendered, err := c.format.Render(c.engine.Transform(string(f)))
		if err != nil {
			return "", false, &domain.DocumentError{Name: doc.Name, Op: domain.OpFormat, Err: err}
		}
		return rendered, true, nil
	default:
		return "", false, fmt.Errorf("unexpected field type %T", field)
	}
}

func (c *Converter) convert(ctx context.Context, runID, name string) (domain.Outcome, *domain.DocumentError) {
	start := time.Now()
	ev := &domain.DocumentEvent{RunID: runID, Name: name}

	outcome, size, derr := c.pipeline(ctx, name)

	ev.Timestamp = time.Now()
	ev.Duration = time.Since(start)
	ev.Outcome = outcome
	ev.Bytes = size
	if derr != nil {
		ev.Err = derr
		c.logger.Warn("Document failed", "name", name, "op", derr.Op, "err", derr.Err)
	} else {
		c.logger.Info("Document converted", "name", name, "outcome", outcome, "duration", ev.Duration)
	}
	c.hooks.Fire(ctx, ev)

	return outcome, derr
}

func (c *Converter) pipeline(ctx context.Context, name string) (domain.Outcome, int, *domain.DocumentError) {
	fail := func(op string, err error) (domain.Outcome, int, *domain.DocumentError) {
		var derr *domain.DocumentError
		if errors.As(err, &derr) {
			return domain.OutcomeFailed, 0, derr
		}
		return domain.OutcomeFailed, 0, &domain.DocumentError{Name: name, Op: op, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(domain.OpLoad, err)
	}

	doc, err := c.loader.Load(ctx, name)
	if err != nil {
		return fail(domain.OpLoad, err)
	}

	out, ok, err := c.Render(doc)
	if err != nil {
		return fail(domain.OpTransform, err)
	}
	if !ok {
		return domain.OutcomeSkipped, 0, nil
	}

	if err := c.sink.Write(ctx, c.format.OutputName(name), out); err != nil {
		if errors.Is(err, domain.ErrUnchanged) {
			c.logger.Debug("Output unchanged", "name", name)
			return domain.OutcomeSkipped, len(out), nil
		}
		return fail(domain.OpWrite, err)
	}
	return domain.OutcomeWritten, len(out), nil
}
