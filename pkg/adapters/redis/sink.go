package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/chazz/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Sink implements ports.ReadableSink using Redis.
// Outputs are stored as plain strings under <prefix><name>; names are indexed in a sorted set.
type Sink struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Sink)

// WithTTL sets the expiration for stored outputs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored outputs.
func WithPrefix(prefix string) Option {
	return func(s *Sink) {
		s.prefix = prefix
	}
}

// New creates a new Redis sink with options.
func New(address, password string, db int, opts ...Option) *Sink {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis sink from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Sink {
	sink := &Sink{
		client: client,
		prefix: "chazz:output:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(sink)
	}

	return sink
}

func (s *Sink) key(name string) string {
	return s.prefix + name
}

func (s *Sink) indexKey() string {
	return s.prefix + "index"
}

// Write stores text and indexes the name.
func (s *Sink) Write(ctx context.Context, name, text string) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), text, s.ttl)

	// Score = expiry time, so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Read returns the text stored under name.
func (s *Sink) Read(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Delete removes a stored output.
func (s *Sink) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live output names, pruning expired index entries first.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired outputs: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}
	return names, nil
}

// Ping checks connectivity.
func (s *Sink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Sink) Close() error {
	return s.client.Close()
}
