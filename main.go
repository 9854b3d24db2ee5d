package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	if *experimentFlag != "" {
		if err := runExperiment(*experimentFlag); err != nil {
			log.Fatalf("experiment %q failed: %v", *experimentFlag, err)
		}
		return
	}

	g := newGame()

	if *recordDefaultPGO {
		stop, err := startDefaultPGORecording("default.pgo")
		if err != nil {
			log.Fatalf("PGO recording failed: %v", err)
		}
		g.enableAutoWalk(pgoRecordDuration)
		time.AfterFunc(pgoRecordDuration, func() {
			stop()
			log.Printf("default.pgo written")
		})
	}

	ebiten.SetWindowSize(w*windowScale, h*windowScale)
	ebiten.SetWindowTitle("Tick-Frame Optics Sandbox")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("sandbox exited: %v", err)
	}
}
