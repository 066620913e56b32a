package sql

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/querykit/querykit/dialect"
)

// Cache is the interface for caching query results.
// Users should implement this interface with their preferred caching
// solution (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// MemoryCache is a process-local Cache backed by a map. It is safe for
// concurrent use and intended for tests and single-process deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value, expiring it lazily.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return e.value, nil
}

// Set stores a value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all values.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// cachedResult is the wire form of a cached result set.
type cachedResult struct {
	Columns []string `msgpack:"c"`
	Values  [][]any  `msgpack:"v"`
}

// CacheDriver serves repeated queries from a Cache, materializing result
// sets and replaying them through an in-memory ColumnScanner. Exec
// statements pass through untouched; invalidation is the caller's
// responsibility via the Cache.
type CacheDriver struct {
	dialect.Driver
	cache Cache
	ttl   time.Duration
}

// CacheOption configures the CacheDriver.
type CacheOption func(*CacheDriver)

// WithCacheTTL bounds the lifetime of cached result sets. Zero means no
// expiry.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(d *CacheDriver) { d.ttl = ttl }
}

// NewCacheDriver wraps a driver with result-set caching.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	cached := sql.NewCacheDriver(drv, sql.NewMemoryCache(),
//	    sql.WithCacheTTL(time.Minute),
//	)
//	conn := sql.NewConnection(cached)
func NewCacheDriver(drv dialect.Driver, cache Cache, opts ...CacheOption) *CacheDriver {
	d := &CacheDriver{Driver: drv, cache: cache}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query serves the result from the cache when possible, falling through
// to the wrapped driver and caching what it returns.
func (d *CacheDriver) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("querykit/sql: invalid type %T. expect *sql.Rows", v)
	}
	key, err := cacheKey(query, args)
	if err != nil {
		return err
	}
	if data, err := d.cache.Get(ctx, key); err == nil && data != nil {
		var res cachedResult
		if err := msgpack.Unmarshal(data, &res); err == nil {
			*vr = Rows{&cachedRows{result: res, pos: -1}}
			return nil
		}
		// A corrupt entry falls through to the driver.
	}
	if err := d.Driver.Query(ctx, query, args, v); err != nil {
		return err
	}
	res, err := materializeRows(vr)
	if err != nil {
		return err
	}
	if data, err := msgpack.Marshal(res); err == nil {
		// Best effort: a failing cache write never fails the query.
		_ = d.cache.Set(ctx, key, data, d.ttl)
	}
	*vr = Rows{&cachedRows{result: res, pos: -1}}
	return nil
}

func cacheKey(query string, args any) (string, error) {
	data, err := msgpack.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("querykit/sql: cache key: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(query))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// materializeRows drains a live result set into its cacheable form.
func materializeRows(rows *Rows) (cachedResult, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return cachedResult{}, err
	}
	res := cachedResult{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return cachedResult{}, err
		}
		res.Values = append(res.Values, values)
	}
	return res, rows.Err()
}

// cachedRows replays a materialized result set as a ColumnScanner.
type cachedRows struct {
	result cachedResult
	pos    int
	closed bool
}

func (r *cachedRows) Columns() ([]string, error) {
	return r.result.Columns, nil
}

func (r *cachedRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return nil, fmt.Errorf("querykit/sql: column types are not available on cached rows")
}

func (r *cachedRows) Next() bool {
	if r.closed || r.pos+1 >= len(r.result.Values) {
		return false
	}
	r.pos++
	return true
}

func (r *cachedRows) NextResultSet() bool { return false }

func (r *cachedRows) Scan(dest ...any) error {
	if r.closed {
		return fmt.Errorf("querykit/sql: cached rows are closed")
	}
	if r.pos < 0 || r.pos >= len(r.result.Values) {
		return fmt.Errorf("querykit/sql: Scan called without Next")
	}
	row := r.result.Values[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("querykit/sql: expected %d destination arguments in Scan, not %d", len(row), len(dest))
	}
	for i, v := range row {
		if err := assignScanValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (r *cachedRows) Close() error {
	r.closed = true
	return nil
}

func (r *cachedRows) Err() error { return nil }

// assignScanValue copies a cached value into a scan destination,
// supporting the destination types database/sql accepts for untyped
// results.
func assignScanValue(dest, v any) error {
	switch d := dest.(type) {
	case *any:
		*d = v
		return nil
	case *string:
		switch v := v.(type) {
		case string:
			*d = v
			return nil
		case []byte:
			*d = string(v)
			return nil
		}
	case *[]byte:
		switch v := v.(type) {
		case []byte:
			*d = v
			return nil
		case string:
			*d = []byte(v)
			return nil
		}
	case *int64:
		switch v := v.(type) {
		case int64:
			*d = v
			return nil
		case int32:
			*d = int64(v)
			return nil
		case int16:
			*d = int64(v)
			return nil
		case int8:
			*d = int64(v)
			return nil
		case int:
			*d = int64(v)
			return nil
		case uint64:
			*d = int64(v)
			return nil
		}
	case *float64:
		switch v := v.(type) {
		case float64:
			*d = v
			return nil
		case float32:
			*d = float64(v)
			return nil
		}
	case *bool:
		if v, ok := v.(bool); ok {
			*d = v
			return nil
		}
	case *time.Time:
		if v, ok := v.(time.Time); ok {
			*d = v
			return nil
		}
	case sql.Scanner:
		return d.Scan(v)
	}
	return fmt.Errorf("querykit/sql: cannot scan cached %T into %T", v, dest)
}

var _ dialect.Driver = (*CacheDriver)(nil)
var _ ColumnScanner = (*cachedRows)(nil)
