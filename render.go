package main

import (
	"fmt"
	"image/color"
	"math"
	"math/cmplx"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw renders the complex field (phase as hue, magnitude as brightness),
// mirror overlays, the ghost trail, probe indicators, and the debug overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	pixels := g.pixels
	shadow := *occludeShadowFlag && len(g.visibleStamp) == w*h
	for i := 0; i < w*h; i++ {
		a := complex128(g.field.curr[i])
		mag := cmplx.Abs(a)
		if mag > 1 {
			mag = 1
		}
		r, gr, b := phaseColor(cmplx.Phase(a), mag)
		if shadow && g.visibleStamp[i] != g.visibleGen {
			r /= 4
			gr /= 4
			b /= 4
		}
		base := i * 4
		pixels[base] = r
		pixels[base+1] = gr
		pixels[base+2] = b
		pixels[base+3] = 255
	}
	if *showMirrorsFlag {
		for i, m := range g.mirrors {
			if !m {
				continue
			}
			base := i * 4
			pixels[base] = 30
			pixels[base+1] = 40
			pixels[base+2] = 80
			pixels[base+3] = 255
		}
	}
	screen.WritePixels(pixels)

	g.drawGhostTrail(screen)

	for y := -sourceRad; y <= sourceRad; y++ {
		for x := -sourceRad; x <= sourceRad; x++ {
			cx := int(g.sx) + x
			cy := int(g.sy) + y
			if cx >= 0 && cx < w && cy >= 0 && cy < h {
				screen.Set(cx, cy, color.RGBA{255, 0, 0, 255})
			}
		}
	}
	g.drawProbeIndicators(screen, int(g.sx), int(g.sy))

	if *debugFlag {
		g.drawTrace(screen, g.traceD1, 8, h-40, color.RGBA{0, 255, 200, 255})
		g.drawTrace(screen, g.traceD2, 8, h-12, color.RGBA{255, 160, 0, 255})
		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		if tps < 0 {
			tps = 0
		}
		simMultiplier := 0.0
		if defaultTPS > 0 {
			simMultiplier = tps / defaultTPS
		}
		simMS := g.lastSimDuration.Seconds() * 1000
		debugMsg := fmt.Sprintf("FPS: %.1f\nSim speed: %.2fx (%.1f TPS)\nSim steps: %.1f/s (mult %dx, +/-)\nSim: %.2f ms\nGhosts: %d",
			fps, simMultiplier, tps, g.simStepsPerSecond(), g.simStepMultiplier, simMS, g.trail.len())
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return w, h }

// drawGhostTrail paints emission markers deepest lag first, so recent
// markers overdraw old ones. Brightness fades with lag.
func (g *Game) drawGhostTrail(screen *ebiten.Image) {
	for gh := range g.trail.backToFront() {
		fade := 1 - float64(gh.lag)/float64(ghostHistory)
		v := uint8(60 + 195*fade)
		screen.Set(gh.pos.x, gh.pos.y, color.RGBA{v, v / 4, v / 2, 255})
	}
}

// drawProbeIndicators renders the two detector probe positions.
func (g *Game) drawProbeIndicators(screen *ebiten.Image, cx, cy int) {
	ox, oy := g.probeOffsets()
	leftX := clampCoord(cx-ox, 0, w-1)
	leftY := clampCoord(cy-oy, 0, h-1)
	rightX := clampCoord(cx+ox, 0, w-1)
	rightY := clampCoord(cy+oy, 0, h-1)
	drawLine(screen, cx, cy, leftX, leftY, color.RGBA{0, 255, 200, 200})
	drawLine(screen, cx, cy, rightX, rightY, color.RGBA{255, 160, 0, 200})
	screen.Set(leftX, leftY, color.RGBA{0, 255, 200, 255})
	screen.Set(rightX, rightY, color.RGBA{255, 160, 0, 255})
}

// drawTrace plots a detector strip chart as a polyline.
func (g *Game) drawTrace(screen *ebiten.Image, t *detectorTrace, x0, y0 int, clr color.Color) {
	n := t.ordered(g.traceScratch)
	if n < 2 {
		return
	}
	const height = 24
	peak := t.normPeak()
	prevX, prevY := x0, y0
	for i := 0; i < n; i++ {
		px := x0 + i
		py := y0 - int(g.traceScratch[i]/peak*height)
		if i > 0 {
			drawLine(screen, prevX, prevY, px, py, clr)
		}
		prevX, prevY = px, py
	}
}

// phaseColor maps a phase angle to a hue and a magnitude to brightness.
func phaseColor(phase, mag float64) (uint8, uint8, uint8) {
	hue := (phase + math.Pi) / (2 * math.Pi) * 6
	c := mag
	x := c * (1 - math.Abs(math.Mod(hue, 2)-1))
	var r, g, b float64
	switch {
	case hue < 1:
		r, g, b = c, x, 0
	case hue < 2:
		r, g, b = x, c, 0
	case hue < 3:
		r, g, b = 0, c, x
	case hue < 4:
		r, g, b = 0, x, c
	case hue < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < w && y0 >= 0 && y0 < h {
			screen.Set(x0, y0, clr)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
