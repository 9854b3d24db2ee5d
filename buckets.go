package main

import "iter"

// lagBuckets groups entities by their integer temporal lag and yields them
// back to front without a comparison sort: O(n + k) per tick for n entities
// and k history slots.
//
// Buckets are rebuilt from scratch every tick. The clear is logical and
// O(1): a generation stamp marks which heads are live, the same trick the
// shadow mask uses for its visibility stamps, and the node arena is
// truncated in place so steady-state operation allocates nothing.
type lagBuckets struct {
	maxHistory int
	heads      []int32
	stamp      []uint32
	gen        uint32
	nodes      []bucketNode
}

type bucketNode struct {
	entity *ghost
	next   int32
}

// newLagBuckets validates the history depth and preallocates the bucket
// heads.
func newLagBuckets(maxHistory int) (*lagBuckets, error) {
	if maxHistory <= 0 {
		return nil, configErrorf("bucket history depth %d must be positive", maxHistory)
	}
	return &lagBuckets{
		maxHistory: maxHistory,
		heads:      make([]int32, maxHistory),
		stamp:      make([]uint32, maxHistory),
		gen:        1,
	}, nil
}

// clear logically empties every bucket.
func (b *lagBuckets) clear() {
	if b.gen == ^uint32(0) {
		for i := range b.stamp {
			b.stamp[i] = 0
		}
		b.gen = 1
	} else {
		b.gen++
	}
	b.nodes = b.nodes[:0]
}

// insert prepends an entity to the bucket selected by its temporal lag.
// Lags beyond the history depth are clamped into the last bucket; negative
// lags land in the first. The entity itself is never mutated.
func (b *lagBuckets) insert(e *ghost) {
	lag := e.lag
	if lag >= b.maxHistory {
		lag = b.maxHistory - 1
	} else if lag < 0 {
		lag = 0
	}
	next := int32(-1)
	if b.stamp[lag] == b.gen {
		next = b.heads[lag]
	}
	b.nodes = append(b.nodes, bucketNode{entity: e, next: next})
	b.heads[lag] = int32(len(b.nodes) - 1)
	b.stamp[lag] = b.gen
}

// backToFront walks buckets from the deepest lag down to zero, most recently
// inserted first within each bucket. The sequence is finite, restartable,
// and read-only with respect to the bucket structure.
func (b *lagBuckets) backToFront() iter.Seq[*ghost] {
	return func(yield func(*ghost) bool) {
		for lag := b.maxHistory - 1; lag >= 0; lag-- {
			if b.stamp[lag] != b.gen {
				continue
			}
			for idx := b.heads[lag]; idx >= 0; idx = b.nodes[idx].next {
				if !yield(b.nodes[idx].entity) {
					return
				}
			}
		}
	}
}

// len reports how many entities the current generation holds.
func (b *lagBuckets) len() int {
	return len(b.nodes)
}
