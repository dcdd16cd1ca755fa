package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/chazz/internal/presentation/tui"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/ports"
	"github.com/robfig/cron/v3"
)

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Converter *convert.Converter
	Source    ports.Watchable
	Debounce  time.Duration
	Schedule  string // optional cron spec for periodic full runs
	Logger    *slog.Logger
	Out       io.Writer
}

// RunWatch converts everything once, then re-converts changed documents until ctx is done.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	// Runs never overlap; a change during a cron run waits for it.
	var runMu sync.Mutex
	fullRun := func(reason string) {
		runMu.Lock()
		defer runMu.Unlock()

		logger.Info("Starting full conversion", "reason", reason)
		report, err := opts.Converter.Run(ctx)
		if report != nil {
			PrintReport(out, report)
		}
		if err != nil && ctx.Err() == nil {
			logger.Error("Conversion failed", "err", err)
		}
	}

	fullRun("startup")

	events, err := opts.Source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if opts.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(opts.Schedule, func() { fullRun("schedule") }); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", opts.Schedule, err)
		}
		c.Start()
		defer func() {
			<-c.Stop().Done() // Wait for running jobs to finish
		}()
		logger.Info("Scheduled full conversions", "schedule", opts.Schedule)
	}

	batcher := NewChangeBatcher(opts.Debounce, func(names []string) {
		runMu.Lock()
		defer runMu.Unlock()
		for _, name := range names {
			if ctx.Err() != nil {
				return
			}
			outcome, err := opts.Converter.ConvertOne(ctx, name)
			if err != nil {
				tui.PrintSystemMessage(out, "Failed '%s': %v", name, err)
				continue
			}
			tui.PrintSystemMessage(out, "Change in '%s': %s.", name, outcome)
		}
	})
	// Returns only after an in-flight batch has finished writing to out.
	defer batcher.Stop()

	tui.PrintSystemMessage(out, "Waiting for changes...")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case name, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("Change detected", "name", name)
			batcher.Add(name)
		}
	}
}
