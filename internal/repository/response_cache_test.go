package repository

import (
	"context"
	"testing"
	"time"
	"zamboni-stats/internal/database"

	"github.com/rs/zerolog"
)

func openCache(t *testing.T) (*CacheRepository, *time.Time) {
	t.Helper()
	db, err := database.Open(":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewCacheRepository(db, zerolog.Nop())
	repo.now = func() time.Time { return now }
	return repo, &now
}

func TestCacheGetPut(t *testing.T) {
	repo, now := openCache(t)
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "k", time.Minute); err != nil || ok {
		t.Fatalf("empty cache Get = ok:%v err:%v, want miss", ok, err)
	}

	if err := repo.Put(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	body, ok, err := repo.Get(ctx, "k", time.Minute)
	if err != nil || !ok || string(body) != `[1]` {
		t.Fatalf("Get = %q ok:%v err:%v, want hit", body, ok, err)
	}

	*now = now.Add(30 * time.Second)
	if err := repo.Put(ctx, "k", []byte(`[2]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	body, ok, _ = repo.Get(ctx, "k", time.Minute)
	if !ok || string(body) != `[2]` {
		t.Errorf("Get after overwrite = %q ok:%v, want [2]", body, ok)
	}
}

func TestCacheTTL(t *testing.T) {
	repo, now := openCache(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "status", []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	tests := []struct {
		name    string
		advance time.Duration
		ttl     time.Duration
		wantHit bool
	}{
		{"fresh", 0, 8 * time.Second, true},
		{"just inside", 7 * time.Second, 8 * time.Second, true},
		{"expired", 8 * time.Second, 8 * time.Second, false},
		{"longer ttl", 0, time.Minute, true},
	}
	start := *now
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*now = start.Add(tt.advance)
			_, ok, err := repo.Get(ctx, "status", tt.ttl)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok != tt.wantHit {
				t.Errorf("hit = %v, want %v", ok, tt.wantHit)
			}
		})
	}
}

func TestCacheClearAndPurge(t *testing.T) {
	repo, now := openCache(t)
	ctx := context.Background()

	repo.Put(ctx, "old", []byte(`1`))
	*now = now.Add(10 * time.Minute)
	repo.Put(ctx, "new", []byte(`2`))

	n, err := repo.Purge(ctx, 5*time.Minute)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d rows, want 1", n)
	}
	if _, ok, _ := repo.Get(ctx, "new", time.Hour); !ok {
		t.Error("fresh entry was purged")
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "new", time.Hour); ok {
		t.Error("entry survived Clear")
	}
}
