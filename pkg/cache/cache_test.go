package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get = %q, %v; NullCache should always miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "layout:a", []byte(`{"ok":true}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != `{"ok":true}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared entry should miss")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should survive Clear: %v", err)
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Fetch(ctx, c, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Fetch(missing) error = %v, want ErrCacheMiss", err)
	}
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if data, err := Fetch(ctx, c, "k"); err != nil || string(data) != "v" {
		t.Errorf("Fetch(k) = %q, %v", data, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]int{"cards": 8})
	if err != nil {
		t.Fatal(err)
	}
	if j2, _ := HashJSON(map[string]int{"cards": 9}); j1 == j2 {
		t.Error("HashJSON should depend on the value")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("cfg", LayoutKeyOpts{Cards: 8, Seed: 1})
	lk2 := k.LayoutKey("cfg", LayoutKeyOpts{Cards: 9, Seed: 1})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, KindLayout+":") {
		t.Errorf("LayoutKey = %q, want %q prefix", lk1, KindLayout)
	}
	if k.LayoutKey("cfg", LayoutKeyOpts{Cards: 8, Seed: 1}) != lk1 {
		t.Error("LayoutKey should be deterministic")
	}

	ak1 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "png"})
	ak3 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "svg", Labels: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, KindArtifact+":") {
		t.Errorf("ArtifactKey = %q, want %q prefix", ak1, KindArtifact)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "table:7:")

	got := scoped.LayoutKey("cfg", LayoutKeyOpts{Cards: 3})
	if want := "table:7:" + inner.LayoutKey("cfg", LayoutKeyOpts{Cards: 3}); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	got = scoped.ArtifactKey("l", ArtifactKeyOpts{Format: "json"})
	if want := "table:7:" + inner.ArtifactKey("l", ArtifactKeyOpts{Format: "json"}); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("cfg", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRedisConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RedisConfig
		addr    string
		db      int
		wantErr bool
	}{
		{name: "empty", cfg: RedisConfig{}, wantErr: true},
		{name: "addr", cfg: RedisConfig{Addr: "localhost:6380", DB: 2}, addr: "localhost:6380", db: 2},
		{name: "url", cfg: RedisConfig{URL: "redis://cache.internal:6379/4", Addr: "ignored:1"}, addr: "cache.internal:6379", db: 4},
		{name: "bad url", cfg: RedisConfig{URL: "http://nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.cfg.options()
			if (err != nil) != tt.wantErr {
				t.Fatalf("options() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.Addr != tt.addr || opts.DB != tt.db {
				t.Errorf("options() = %s db %d, want %s db %d", opts.Addr, opts.DB, tt.addr, tt.db)
			}
		})
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client, "")
	defer c.Close()

	if c.key("k") != DefaultRedisPrefix+"k" {
		t.Errorf("key(k) = %q", c.key("k"))
	}
	if _, _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get error = %v, want ErrUnavailable", err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), time.Minute); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set error = %v, want ErrUnavailable", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Retryable should keep the wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCacheMiss
	})
	if err != ErrCacheMiss || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
