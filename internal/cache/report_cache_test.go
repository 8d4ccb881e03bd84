package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func newTestCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute, nil), mr
}

func TestFetchJSONCachesUntilBump(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return summary{Count: calls, Total: "3.00"}, nil
	}

	var got summary
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "vendas", "2026-01-01", "2026-01-31"))
	assert.Equal(t, 1, got.Count)

	require.NoError(t, c.FetchJSON(ctx, &got, loader, "vendas", "2026-01-01", "2026-01-31"))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "vendas", "2026-01-01", "2026-01-31"))
	assert.Equal(t, 2, got.Count)
}

func TestBuildKeyCarriesVersion(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.BuildKey(ctx, "estoque-baixo")
	require.NoError(t, err)
	assert.Equal(t, "relatorios:estoque-baixo:1", key)

	require.NoError(t, c.Bump(ctx))
	key, err = c.BuildKey(ctx, "estoque-baixo")
	require.NoError(t, err)
	assert.Equal(t, "relatorios:estoque-baixo:2", key)
}

func TestNilClientPassesThrough(t *testing.T) {
	ctx := context.Background()
	c := NewReportCache(nil, time.Minute, nil)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return summary{Count: 7}, nil
	}

	var got summary
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "dashboard"))
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "dashboard"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 7, got.Count)
	assert.NoError(t, c.Bump(ctx))
}

func TestRedisDownFallsBackToLoader(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	var got summary
	err := c.FetchJSON(ctx, &got, func(context.Context) (interface{}, error) {
		return summary{Count: 1}, nil
	}, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestLoaderErrorPropagates(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")

	var got summary
	err := c.FetchJSON(context.Background(), &got, func(context.Context) (interface{}, error) {
		return nil, boom
	}, "dashboard")
	assert.ErrorIs(t, err, boom)
}
