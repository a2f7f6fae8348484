package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNilCacheIsSafe(t *testing.T) {
	var c *RankingsCache

	var dest []string
	if c.Get(context.Background(), "rankings:any", &dest) {
		t.Fatalf("nil cache must always miss")
	}

	// Must not panic.
	c.Set(context.Background(), "rankings:any", []string{"a"})
}

func TestNewRankingsCacheNilClient(t *testing.T) {
	if c := NewRankingsCache(nil, time.Minute, zap.NewNop()); c != nil {
		t.Fatalf("expected nil cache for nil client")
	}
}
