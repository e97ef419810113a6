package ratelimit

import (
	"testing"
	"time"

	"RankGuard/pkg/clock"
)

func TestAllowConsumesTokens(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(clk)

	if !l.Allow("k", 2, 1) {
		t.Fatalf("first token must be available")
	}
	if !l.Allow("k", 2, 1) {
		t.Fatalf("second token must be available")
	}
	if l.Allow("k", 2, 1) {
		t.Fatalf("bucket must be empty")
	}
}

func TestAllowRefills(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(clk)

	for i := 0; i < 2; i++ {
		l.Allow("k", 2, 1)
	}
	if l.Allow("k", 2, 1) {
		t.Fatalf("bucket must be empty before refill")
	}

	clk.Advance(time.Second)
	if !l.Allow("k", 2, 1) {
		t.Fatalf("one token must have refilled")
	}
}

func TestRefillCapsAtCapacity(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(clk)

	l.Allow("k", 2, 10)
	clk.Advance(time.Hour)

	granted := 0
	for l.Allow("k", 2, 10) {
		granted++
	}
	if granted != 2 {
		t.Fatalf("refill exceeded capacity: got %d tokens", granted)
	}
}

func TestReserveReturnsWait(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(clk)

	if d := l.Reserve("k", 1, 2); d != 0 {
		t.Fatalf("first reserve must be immediate, got %v", d)
	}
	d := l.Reserve("k", 1, 2)
	if d != 500*time.Millisecond {
		t.Fatalf("second reserve = %v, want 500ms at 2 rps", d)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(clk)

	if !l.Allow("a", 1, 1) {
		t.Fatalf("key a must start full")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatalf("key b must start full")
	}
	if l.Allow("a", 1, 1) {
		t.Fatalf("key a must be empty")
	}
}
