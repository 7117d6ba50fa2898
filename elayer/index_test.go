// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elayer

import (
	"testing"

	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

func cmpIdxs(t *testing.T, msg string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%v: got %v candidates %v, want %v: %v", msg, len(got), got, len(want), want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%v: candidate %v: got %v, want %v", msg, i, got[i], want[i])
			return
		}
	}
}

// queryBoxes is a spread of box sizes and centers, including boxes straddling
// the layer edge and boxes fully outside.  Centers are off the node lattice so
// no box edge lands exactly on a node coordinate.
func queryBoxes() [][2]mat32.Vec3 {
	var boxes [][2]mat32.Vec3
	for _, ctr := range []mat32.Vec3{{X: 0.013, Y: -0.007, Z: 0}, {X: 0.4, Y: 0.38, Z: 0}, {X: -0.51, Y: 0.11, Z: 0}, {X: 0.93, Y: 0.88, Z: 0}} {
		for _, half := range []float32{0.052, 0.21, 0.5} {
			h := mat32.Vec3{X: half, Y: half, Z: 0}
			boxes = append(boxes, [2]mat32.Vec3{ctr.Sub(h), ctr.Add(h)})
		}
	}
	return boxes
}

func TestGridCandidatesMatchScan(t *testing.T) {
	for _, wrap := range []bool{false, true} {
		ly := NewGrid("grid", []int{10, 10})
		ly.Wrap[0] = wrap
		ly.Wrap[1] = wrap
		if err := ly.Build(1); err != nil {
			t.Fatalf("build: %v", err)
		}
		for _, box := range queryBoxes() {
			got := ly.Candidates(box[0], box[1])
			want := ly.scanCandidates(box[0], box[1])
			cmpIdxs(t, "grid candidates", got, want)
		}
	}
}

func TestKdCandidatesMatchScan(t *testing.T) {
	rnd := erand.NewSysRand(17)
	pos := make([]mat32.Vec3, 200)
	for i := range pos {
		pos[i] = mat32.Vec3{
			X: float32(rnd.Float64(-1)) - 0.5,
			Y: float32(rnd.Float64(-1)) - 0.5,
		}
	}
	ly := NewFree("free", 2, pos)
	if err := ly.Build(1); err != nil {
		t.Fatalf("build: %v", err)
	}
	if ly.kd == nil {
		t.Fatalf("free unwrapped layer must build a spatial index")
	}
	for _, box := range queryBoxes() {
		got := ly.kd.candidates(box[0], box[1], ly.Dims)
		want := ly.scanCandidates(box[0], box[1])
		cmpIdxs(t, "kd candidates", got, want)
	}
}

func TestCandidatesComposite(t *testing.T) {
	ly := NewGrid("comp", []int{4, 4})
	ly.Elems = []Elem{{Model: "ex", Count: 3}}
	if err := ly.Build(1); err != nil {
		t.Fatalf("build: %v", err)
	}
	// box covering only the upper-left cell: all its co-located nodes
	got := ly.Candidates(mat32.Vec3{X: -0.45, Y: 0.25, Z: 0}, mat32.Vec3{X: -0.25, Y: 0.45, Z: 0})
	cmpIdxs(t, "composite candidates", got, []int{0, 1, 2})
}
