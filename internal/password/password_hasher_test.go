package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasherClampsCost(t *testing.T) {
	cases := []struct {
		cost int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{-1, bcrypt.DefaultCost},
		{2, bcrypt.MinCost},
		{bcrypt.MaxCost + 10, bcrypt.MaxCost},
		{12, 12},
	}
	for _, c := range cases {
		if got := NewBcryptHasher(c.cost).cost; got != c.want {
			t.Fatalf("cost %d: got %d, want %d", c.cost, got, c.want)
		}
	}
}

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("freeflow")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.Compare(hash, "freeflow"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := h.Compare(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
