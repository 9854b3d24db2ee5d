package main

import (
	"math"
	"math/rand"
	"time"
)

// generateMirrors procedurally scatters hard reflector segments across the
// grid. Mirror cells pin the field to zero, so wavefronts bounce off them.
func (g *Game) generateMirrors() {
	if len(g.mirrors) != w*h {
		g.mirrors = make([]bool, w*h)
	} else {
		for i := range g.mirrors {
			g.mirrors[i] = false
		}
	}
	if g.levelRand == nil {
		g.levelRand = rand.New(rand.NewSource(time.Now().UnixNano() + 1))
	}
	for s := 0; s < mirrorSegments; s++ {
		lengthRange := mirrorMaxLen - mirrorMinLen + 1
		if lengthRange <= 0 {
			lengthRange = 1
		}
		length := mirrorMinLen + g.levelRand.Intn(lengthRange)
		thickness := 1
		if mirrorThicknessVariance > 0 {
			thickness += g.levelRand.Intn(mirrorThicknessVariance + 1)
		}
		horizontal := g.levelRand.Intn(2) == 0
		x := g.levelRand.Intn(w-4) + 2
		y := g.levelRand.Intn(h-4) + 2
		dx, dy := 0, 1
		if horizontal {
			dx, dy = 1, 0
		}
		perpX, perpY := dy, dx
		cx, cy := x, y
		for l := 0; l < length; l++ {
			if cx <= 1 || cx >= w-1 || cy <= 1 || cy >= h-1 {
				break
			}
			for t := -thickness; t <= thickness; t++ {
				g.trySetMirror(cx+perpX*t, cy+perpY*t)
			}
			cx += dx
			cy += dy
		}
	}
	g.maskDirty = true
	g.mirrorsDirty = true
	g.lastVisCX, g.lastVisCY = -1, -1
}

// trySetMirror marks a grid cell as a reflector while enforcing spacing from
// the source.
func (g *Game) trySetMirror(x, y int) {
	if x <= 1 || x >= w-1 || y <= 1 || y >= h-1 {
		return
	}
	dx := float64(x) - g.sx
	dy := float64(y) - g.sy
	if dx*dx+dy*dy < float64(mirrorExclusionRadius*mirrorExclusionRadius) {
		return
	}
	idx := y*w + x
	g.mirrors[idx] = true
	g.field.zeroCell(x, y)
	g.maskDirty = true
	g.mirrorsDirty = true
}

// isMirror reports whether the coordinates reference a reflector cell.
func (g *Game) isMirror(x, y int) bool {
	if x < 0 || x >= w || y < 0 || y >= h {
		return true
	}
	if len(g.mirrors) == 0 {
		return false
	}
	return g.mirrors[y*w+x]
}

// probeOffsets computes the two detector probe positions, perpendicular to
// the source's heading.
func (g *Game) probeOffsets() (int, int) {
	fx, fy := g.sourceForwardX, g.sourceForwardY
	if fx == 0 && fy == 0 {
		fy = -1
	}
	px := -fy
	py := fx
	length := math.Hypot(px, py)
	if length == 0 {
		return probeOffsetCells, 0
	}
	scale := float64(probeOffsetCells) / length
	ox := int(math.Round(px * scale))
	oy := int(math.Round(py * scale))
	if ox == 0 && oy == 0 {
		ox = probeOffsetCells
	}
	return ox, oy
}
