// episode-dump inspects a trajectory file the way the viewer would see it:
// adapted frames, reconstructed transient objects, cooking countdowns and
// the delivered count at a chosen timestep. Debugging aid for recorder
// format changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"trajview/internal/episode"
	"trajview/internal/reconstruct"
)

func main() {
	file := flag.String("file", "", "trajectory JSON file")
	at := flag.Int("at", -1, "timestep to inspect (default: last frame)")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	ep, warnings, err := episode.Adapt(data, filepath.Base(*file), 0)
	if err != nil {
		log.Fatalf("adapt: %v", err)
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	static := ep.StaticInfo
	fmt.Printf("file:    %s\n", ep.FileName)
	fmt.Printf("layout:  %s (%dx%d)\n", static.Layout(), static.Width, static.Height)
	fmt.Printf("frames:  %d\n", len(ep.Frames))
	fmt.Printf("cook:    %d steps, reward %d\n", static.CookDuration(), static.Reward())

	if len(ep.Frames) == 0 {
		return
	}

	target := *at
	if target < 0 || target > len(ep.Frames)-1 {
		target = len(ep.Frames) - 1
	}
	frame := ep.Frames[target]

	fmt.Printf("\ntimestep %d (score %.1f)\n", frame.Timestep, frame.Score)
	for i, p := range frame.Players {
		held := "-"
		if p.HeldObject != nil {
			held = p.HeldObject.Name
		}
		fmt.Printf("  player %d: (%d,%d) facing %s holding %s\n",
			i, p.Position.X, p.Position.Y, p.Orientation, held)
	}
	for _, o := range frame.Objects {
		fmt.Printf("  object: %s at (%d,%d) cooking=%v ready=%v ingredients=%d\n",
			o.Name, o.Position.X, o.Position.Y, o.IsCooking, o.IsReady, o.IngredientCount())
	}

	for _, tr := range reconstruct.At(ep.Frames, static, target) {
		fmt.Printf("  transient: %s at (%d,%d)\n", tr.Name, tr.Position.X, tr.Position.Y)
	}
	for pos, left := range reconstruct.RemainingAll(ep.Frames, static, target) {
		fmt.Printf("  cooking at (%d,%d): %d steps left\n", pos.X, pos.Y, left)
	}
	fmt.Printf("  delivered: %d\n", reconstruct.Delivered(ep.Frames, target, static.Reward()))
}
