package main

import "testing"

func TestAgeGhostsDropsAtHorizon(t *testing.T) {
	ghosts := []*ghost{newGhost(1, 1), newGhost(2, 2), newGhost(3, 3)}
	ghosts[0].lag = 0
	ghosts[1].lag = ghostHistory - 2
	ghosts[2].lag = ghostHistory - 1

	live := ageGhosts(ghosts)
	if len(live) != 2 {
		t.Fatalf("%d ghosts survived, want 2", len(live))
	}
	if live[0].lag != 1 || live[1].lag != ghostHistory-1 {
		t.Errorf("lags after aging: %d, %d", live[0].lag, live[1].lag)
	}
}

func TestDetectorTraceOrdering(t *testing.T) {
	tr := newDetectorTrace(4)
	dst := make([]float64, 4)

	tr.push(1)
	tr.push(2)
	if n := tr.ordered(dst); n != 2 || dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("partial window: n=%d dst=%v", n, dst[:n])
	}

	tr.push(3)
	tr.push(4)
	tr.push(5) // overwrites the oldest sample
	if n := tr.ordered(dst); n != 4 || dst[0] != 2 || dst[3] != 5 {
		t.Fatalf("wrapped window: n=%d dst=%v", n, dst[:n])
	}
	if tr.normPeak() != 5 {
		t.Errorf("peak %.1f, want 5", tr.normPeak())
	}
}

func TestDetectorTraceZeroPeakFloor(t *testing.T) {
	tr := newDetectorTrace(8)
	if tr.normPeak() <= 0 {
		t.Fatal("normPeak must stay positive for empty traces")
	}
}
