package db

import "testing"

func TestPoolSizes(t *testing.T) {
	cases := []struct {
		maxOpen  int
		wantOpen int
		wantIdle int
	}{
		{0, defaultMaxOpenConns, 5},
		{-3, defaultMaxOpenConns, 5},
		{50, 50, 10},
		{4, 4, 2},
	}
	for _, c := range cases {
		open, idle := poolSizes(c.maxOpen)
		if open != c.wantOpen || idle != c.wantIdle {
			t.Fatalf("poolSizes(%d) = (%d, %d), want (%d, %d)",
				c.maxOpen, open, idle, c.wantOpen, c.wantIdle)
		}
	}
}

func TestNewPostgresDBRejectsEmptyDSN(t *testing.T) {
	if _, err := NewPostgresDB("   ", 0); err == nil {
		t.Fatalf("expected error for blank DSN")
	}
}
