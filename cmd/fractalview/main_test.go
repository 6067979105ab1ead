package main

import (
	"testing"

	"github.com/zephyrtronium/fractal"
)

func TestShadeWhileRendering(t *testing.T) {
	g, err := newGame(4, 3, [3]string{defaultInit, defaultFirst, defaultIter}, []fractal.RenderOption{fractal.Workers(1)})
	if err != nil {
		t.Fatal(err)
	}
	g.render()
	g.toggleShade()
	if !g.pending {
		t.Fatal("shade change during a render was dropped")
	}
	f := <-g.frames
	if f.shade != fractal.DistanceEstimate {
		t.Errorf("first frame has shade %v", f.shade)
	}
	if img := g.receive(f); img == nil {
		t.Error("no image from first frame")
	}
	if !g.rendering || g.pending {
		t.Fatalf("pending render did not start: rendering %t, pending %t", g.rendering, g.pending)
	}
	f = <-g.frames
	if f.shade != fractal.EscapeTime {
		t.Errorf("second frame has shade %v, want %v", f.shade, fractal.EscapeTime)
	}
	if img := g.receive(f); img == nil {
		t.Error("no image from second frame")
	}
	if g.rendering || g.pending {
		t.Errorf("render still running: rendering %t, pending %t", g.rendering, g.pending)
	}
}

func TestNewGameError(t *testing.T) {
	if _, err := newGame(1, 1, [3]string{"c", "(c", "z"}, nil); err == nil {
		t.Error("no error from invalid expression")
	}
}
