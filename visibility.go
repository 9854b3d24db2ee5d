package main

import "math"

// refreshShadowMask recomputes geometric line-of-sight from the source. The
// mask only dims the rendering; the wave solver diffracts around mirrors
// regardless, which is exactly the contrast the overlay exists to show.
func (g *Game) refreshShadowMask() {
	if len(g.visibleStamp) != w*h {
		g.visibleStamp = make([]uint32, w*h)
	}
	cx := clampCoord(int(math.Round(g.sx)), 0, w-1)
	cy := clampCoord(int(math.Round(g.sy)), 0, h-1)
	if g.lastVisCX == cx && g.lastVisCY == cy && !g.mirrorsDirty {
		return
	}
	if g.visibleGen == ^uint32(0) {
		for i := range g.visibleStamp {
			g.visibleStamp[i] = 0
		}
		g.visibleGen = 1
	} else {
		g.visibleGen++
	}
	g.visibleStamp[cy*w+cx] = g.visibleGen
	radius := cx
	if r := (w - 1) - cx; r > radius {
		radius = r
	}
	if cy > radius {
		radius = cy
	}
	if r := (h - 1) - cy; r > radius {
		radius = r
	}
	// The source radiates in every direction: cast all eight octants.
	oct := [8][4]int{
		{1, 0, 0, 1},
		{0, 1, 1, 0},
		{-1, 0, 0, 1},
		{0, 1, -1, 0},
		{-1, 0, 0, -1},
		{0, -1, -1, 0},
		{1, 0, 0, -1},
		{0, -1, 1, 0},
	}
	for i := 0; i < 8; i++ {
		g.castLight(cx, cy, 1, 1.0, 0.0, radius, oct[i][0], oct[i][1], oct[i][2], oct[i][3])
	}
	g.lastVisCX, g.lastVisCY = cx, cy
}

// castLight recursively explores an octant collecting cells the source can
// see past the mirror segments.
func (g *Game) castLight(cx, cy, row int, startSlope, endSlope float64, radius int, xx, xy, yx, yy int) {
	if startSlope < endSlope {
		return
	}
	radiusSq := radius * radius
	for i := row; i <= radius; i++ {
		blocked := false
		newStart := 0.0
		for dx := -i; dx <= 0; dx++ {
			dy := -i
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if rSlope > startSlope {
				continue
			}
			if lSlope < endSlope {
				break
			}
			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy
			if X < 0 || X >= w || Y < 0 || Y >= h {
				continue
			}
			if dx*dx+dy*dy <= radiusSq {
				g.visibleStamp[Y*w+X] = g.visibleGen
			}
			blocking := g.isMirror(X, Y)
			if blocked {
				if blocking {
					newStart = rSlope
					continue
				}
				blocked = false
				startSlope = newStart
			} else if blocking && i < radius {
				blocked = true
				g.castLight(cx, cy, i+1, startSlope, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
