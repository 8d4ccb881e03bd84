// Package cache keeps report projections in Redis behind a global version
// counter. Writers bump the version instead of deleting keys.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "relatorios:version"

// ReportCache is safe to use with a nil client, in which case every fetch
// goes straight to the loader.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewReportCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *ReportCache {
	if log == nil {
		log = slog.Default()
	}
	return &ReportCache{client: client, ttl: ttl, log: log}
}

func (c *ReportCache) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current cache version, initialising it when missing.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX so concurrent readers agree on the first version
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey joins parts and appends the current version.
func (c *ReportCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"relatorios"}, parts...), ":")
	if !c.enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON decodes the cached value for parts into dest, populating it from
// loader on a miss. Redis failures degrade to calling loader directly.
func (c *ReportCache) FetchJSON(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), parts ...string) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if !c.enabled() {
		return load(ctx, dest, loader)
	}

	key, err := c.BuildKey(ctx, parts...)
	if err != nil {
		c.log.Warn("report cache unavailable", "err", err)
		return load(ctx, dest, loader)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("report cache read failed", "key", key, "err", err)
		return load(ctx, dest, loader)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("report cache write failed", "key", key, "err", err)
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached report by incrementing the version.
func (c *ReportCache) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

func load(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
