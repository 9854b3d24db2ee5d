package main

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func mustBuckets(t *testing.T, depth int) *lagBuckets {
	t.Helper()
	b, err := newLagBuckets(depth)
	if err != nil {
		t.Fatalf("newLagBuckets(%d): %v", depth, err)
	}
	return b
}

func collect(b *lagBuckets) []*ghost {
	var out []*ghost
	for g := range b.backToFront() {
		out = append(out, g)
	}
	return out
}

func TestLagBucketsValidation(t *testing.T) {
	for _, depth := range []int{0, -3} {
		if _, err := newLagBuckets(depth); !errors.Is(err, errConfig) {
			t.Errorf("depth %d: want configuration error, got %v", depth, err)
		}
	}
}

func TestBackToFrontOrder(t *testing.T) {
	b := mustBuckets(t, 4)
	lags := []int{3, 0, 0, 2, 3, 1}
	ghosts := make([]*ghost, len(lags))
	for i, lag := range lags {
		ghosts[i] = newGhost(i, 0)
		ghosts[i].lag = lag
		b.insert(ghosts[i])
	}
	want := []*ghost{ghosts[4], ghosts[0], ghosts[3], ghosts[5], ghosts[2], ghosts[1]}
	got := collect(b)
	if len(got) != len(want) {
		t.Fatalf("yielded %d entities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got lag-%d entity %v, want %v", i, got[i].lag, got[i].id, want[i].id)
		}
	}
}

func TestAgainstStableSortOracle(t *testing.T) {
	const depth = 16
	rng := rand.New(rand.NewSource(7))
	b := mustBuckets(t, depth)
	for trial := 0; trial < 20; trial++ {
		b.clear()
		n := rng.Intn(200)
		inserted := make([]*ghost, n)
		for i := range inserted {
			g := newGhost(rng.Intn(w), rng.Intn(h))
			g.lag = rng.Intn(depth+6) - 3 // some out of range on both sides
			inserted[i] = g
			b.insert(g)
		}

		clamp := func(lag int) int {
			if lag >= depth {
				return depth - 1
			}
			if lag < 0 {
				return 0
			}
			return lag
		}
		// Within a bucket the structure yields most recent first, so the
		// oracle stable-sorts the reversed insertion order by descending
		// clamped lag.
		oracle := make([]*ghost, n)
		for i, g := range inserted {
			oracle[n-1-i] = g
		}
		sort.SliceStable(oracle, func(i, j int) bool {
			return clamp(oracle[i].lag) > clamp(oracle[j].lag)
		})

		got := collect(b)
		if len(got) != n || b.len() != n {
			t.Fatalf("trial %d: yielded %d, len() %d, want %d", trial, len(got), b.len(), n)
		}
		for i := range oracle {
			if got[i] != oracle[i] {
				t.Fatalf("trial %d position %d: got %v (lag %d), want %v (lag %d)",
					trial, i, got[i].id, got[i].lag, oracle[i].id, oracle[i].lag)
			}
		}
	}
}

func TestInsertClampsLag(t *testing.T) {
	b := mustBuckets(t, 4)
	deep := newGhost(0, 0)
	deep.lag = 99
	neg := newGhost(1, 0)
	neg.lag = -5
	mid := newGhost(2, 0)
	mid.lag = 2
	b.insert(deep)
	b.insert(neg)
	b.insert(mid)

	got := collect(b)
	want := []*ghost{deep, mid, neg}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got[i].id, want[i].id)
		}
	}
	if deep.lag != 99 || neg.lag != -5 {
		t.Error("insert mutated entity lag")
	}
}

func TestClearReusesArena(t *testing.T) {
	b := mustBuckets(t, 8)
	for round := 0; round < 5; round++ {
		b.clear()
		if b.len() != 0 {
			t.Fatalf("round %d: len %d after clear", round, b.len())
		}
		if got := collect(b); len(got) != 0 {
			t.Fatalf("round %d: stale entities survived clear: %d", round, len(got))
		}
		for i := 0; i < 10; i++ {
			g := newGhost(i, round)
			g.lag = i % 8
			b.insert(g)
		}
		if b.len() != 10 {
			t.Fatalf("round %d: len %d, want 10", round, b.len())
		}
	}
}

func TestIterationIsRestartableAndBreakable(t *testing.T) {
	b := mustBuckets(t, 4)
	for i := 0; i < 6; i++ {
		g := newGhost(i, 0)
		g.lag = i % 4
		b.insert(g)
	}
	first := collect(b)
	second := collect(b)
	if len(first) != 6 || len(second) != 6 {
		t.Fatalf("walk lengths %d and %d, want 6", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("restarted walk diverged at position %d", i)
		}
	}

	seen := 0
	for range b.backToFront() {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Fatalf("early break yielded %d entities, want 3", seen)
	}
}
