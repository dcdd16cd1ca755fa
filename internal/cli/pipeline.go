package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/chazz/internal/config"
	"github.com/aretw0/chazz/pkg/adapters/file"
	"github.com/aretw0/chazz/pkg/adapters/redis"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/aretw0/chazz/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline bundles the adapters a conversion needs, built from configuration.
type Pipeline struct {
	Loader    *file.Loader
	Sink      ports.OutputSink
	Engine    *markup.Engine
	Converter *convert.Converter
	Metrics   *convert.Metrics
	Registry  *prometheus.Registry

	closers []func() error
}

// PipelineOption customizes BuildPipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	sink  ports.OutputSink
	hooks domain.ConversionHooks
}

// WithSink overrides the sink selected by configuration.
func WithSink(sink ports.OutputSink) PipelineOption {
	return func(o *pipelineOptions) {
		o.sink = sink
	}
}

// WithHooks adds per-document callbacks after the metric hooks.
func WithHooks(h domain.ConversionHooks) PipelineOption {
	return func(o *pipelineOptions) {
		o.hooks = h
	}
}

// BuildPipeline wires loader, sink, engine, metrics and converter for cfg.
func BuildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...PipelineOption) (*Pipeline, error) {
	o := &pipelineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	format, err := convert.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Registry: prometheus.NewRegistry()}
	p.Metrics = convert.NewMetrics(p.Registry)
	p.Engine = markup.NewEngine(markup.WithObserver(p.Metrics.Observer()))
	p.Loader = file.NewLoader(cfg.Input, file.WithLoaderLogger(logger))

	p.Sink = o.sink
	if p.Sink == nil {
		p.Sink, err = p.buildSink(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	p.Converter = convert.New(p.Loader, p.Sink, cfg.Key,
		convert.WithEngine(p.Engine),
		convert.WithFormat(format),
		convert.WithWorkers(cfg.Workers),
		convert.WithHooks(p.Metrics.Hooks(o.hooks)),
		convert.WithLogger(logger),
	)
	return p, nil
}

func (p *Pipeline) buildSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.OutputSink, error) {
	switch cfg.Sink {
	case config.SinkRedis:
		sink := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := sink.Ping(ctx); err != nil {
			_ = sink.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		p.closers = append(p.closers, sink.Close)
		logger.Debug("Using redis sink", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return sink, nil
	case config.SinkFile, "":
		logger.Debug("Using file sink", "path", cfg.Output)
		return file.NewSink(cfg.Output, file.WithSkipUnchanged(cfg.SkipUnchanged)), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

// Close releases backend connections.
func (p *Pipeline) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
