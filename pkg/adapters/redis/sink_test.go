package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/chazz/pkg/adapters/redis"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ReadableSink = (*redis.Sink)(nil)

func newSink(t *testing.T, opts ...redis.Option) (*redis.Sink, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	sink := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = sink.Close() })
	return sink, mr
}

func TestRedisSink_Contract(t *testing.T) {
	sink, _ := newSink(t)
	ports.RunOutputSinkContract(t, sink)
}

func TestRedisSink_Prefix(t *testing.T) {
	sink, mr := newSink(t, redis.WithPrefix("test:"))
	require.NoError(t, sink.Write(context.Background(), "goblin.json", "_goblin_"))

	got, err := mr.Get("test:goblin.json")
	require.NoError(t, err)
	assert.Equal(t, "_goblin_", got)
}

func TestRedisSink_TTL_Expiration(t *testing.T) {
	sink, mr := newSink(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, "a.json", "text"))

	names, err := sink.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "a.json")

	mr.FastForward(2 * time.Second)

	_, err = sink.Read(ctx, "a.json")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestRedisSink_Delete(t *testing.T) {
	sink, _ := newSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, "a.json", "text"))
	require.NoError(t, sink.Delete(ctx, "a.json"))

	_, err := sink.Read(ctx, "a.json")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	names, err := sink.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, "a.json")
}

func TestRedisSink_Ping(t *testing.T) {
	sink, _ := newSink(t)
	assert.NoError(t, sink.Ping(context.Background()))
}
