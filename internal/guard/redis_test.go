package guard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisGuard(t *testing.T, ttl time.Duration) (*RedisGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisGuard(rdb, "test:", ttl), mr
}

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		run  func(t *testing.T, g *RedisGuard, mr *miniredis.Miniredis)
	}{
		{"second acquire rejected while held", func(t *testing.T, g *RedisGuard, _ *miniredis.Miniredis) {
			if _, ok, err := g.Acquire(ctx, "user:1"); !ok || err != nil {
				t.Fatalf("first acquire: ok=%v err=%v", ok, err)
			}
			if _, ok, err := g.Acquire(ctx, "user:1"); ok || err != nil {
				t.Fatalf("second acquire: ok=%v err=%v", ok, err)
			}
			if _, ok, _ := g.Acquire(ctx, "user:2"); !ok {
				t.Fatalf("other key should be free")
			}
		}},
		{"free again after release", func(t *testing.T, g *RedisGuard, mr *miniredis.Miniredis) {
			tok, ok, _ := g.Acquire(ctx, "user:1")
			if !ok {
				t.Fatal("acquire")
			}
			if err := g.Release(ctx, "user:1", tok); err != nil {
				t.Fatalf("release: %v", err)
			}
			if mr.Exists("test:user:1") {
				t.Fatalf("key still present after release")
			}
			if _, ok, _ := g.Acquire(ctx, "user:1"); !ok {
				t.Fatalf("acquire after release failed")
			}
		}},
		{"slot expires after ttl", func(t *testing.T, g *RedisGuard, mr *miniredis.Miniredis) {
			if _, ok, _ := g.Acquire(ctx, "user:1"); !ok {
				t.Fatal("acquire")
			}
			mr.FastForward(31 * time.Second)
			if _, ok, _ := g.Acquire(ctx, "user:1"); !ok {
				t.Fatalf("expired slot should be claimable")
			}
		}},
		{"stale holder cannot free a later claim", func(t *testing.T, g *RedisGuard, mr *miniredis.Miniredis) {
			first, ok, _ := g.Acquire(ctx, "user:1")
			if !ok {
				t.Fatal("first acquire")
			}
			mr.FastForward(31 * time.Second)
			second, ok, _ := g.Acquire(ctx, "user:1")
			if !ok {
				t.Fatal("second acquire")
			}
			if err := g.Release(ctx, "user:1", first); err != nil {
				t.Fatalf("stale release: %v", err)
			}
			if _, ok, _ := g.Acquire(ctx, "user:1"); ok {
				t.Fatalf("third acquire admitted while second holder still in flight")
			}
			_ = g.Release(ctx, "user:1", second)
			if _, ok, _ := g.Acquire(ctx, "user:1"); !ok {
				t.Fatalf("acquire after second release failed")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, mr := newRedisGuard(t, 30*time.Second)
			tt.run(t, g, mr)
		})
	}
}

func TestRun_RedisGuardReleases(t *testing.T) {
	g, mr := newRedisGuard(t, 30*time.Second)
	ran, err := Run(context.Background(), g, "q", func(context.Context) error { return nil })
	if !ran || err != nil {
		t.Fatalf("ran=%v err=%v", ran, err)
	}
	if mr.Exists("test:q") {
		t.Fatalf("Run left the key behind")
	}
}
