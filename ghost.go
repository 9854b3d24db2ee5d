package main

import "github.com/google/uuid"

// ghost marks a past source emission in the sandbox. Its temporal lag grows
// by one every tick; the bucketing renderer draws deep lags first so fresh
// markers paint over stale ones.
type ghost struct {
	id  uuid.UUID
	pos intPoint
	lag int
}

func newGhost(x, y int) *ghost {
	return &ghost{id: uuid.New(), pos: intPoint{x: x, y: y}}
}

// ageGhosts advances every marker's lag and drops markers older than the
// bucket history. The bucket structure itself clamps out-of-range lags; the
// sandbox simply has no use for markers past the fade horizon.
func ageGhosts(ghosts []*ghost) []*ghost {
	live := ghosts[:0]
	for _, g := range ghosts {
		g.lag++
		if g.lag < ghostHistory {
			live = append(live, g)
		}
	}
	return live
}
