// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"errors"
	"reflect"
	"testing"

	"github.com/emer/econn/ekernel"
	"github.com/emer/econn/elayer"
	"github.com/emer/econn/emask"
	"github.com/goki/mat32"
)

const delayTol = 1.0e-6

// twoCollections builds a network with two plain node collections.
func twoCollections(t *testing.T, na, nb int) (*Network, *elayer.Layer, *elayer.Layer) {
	t.Helper()
	nt := NewNetwork("test")
	a := elayer.NewCollection("a", na, "")
	b := elayer.NewCollection("b", nb, "")
	if err := nt.AddLayer(a); err != nil {
		t.Fatal(err)
	}
	if err := nt.AddLayer(b); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	return nt, a, b
}

// twoGrids builds a network with two co-extensive square grid layers.
func twoGrids(t *testing.T, side int, wrap bool) (*Network, *elayer.Layer, *elayer.Layer) {
	t.Helper()
	nt := NewNetwork("test")
	a := nt.AddGrid("a", []int{side, side})
	b := nt.AddGrid("b", []int{side, side})
	if a == nil || b == nil {
		t.Fatal("AddGrid failed")
	}
	a.Wrap[0], a.Wrap[1] = wrap, wrap
	b.Wrap[0], b.Wrap[1] = wrap, wrap
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	return nt, a, b
}

func recvCounts(cns []Conn) map[int]int {
	cts := map[int]int{}
	for _, cn := range cns {
		cts[cn.Recv]++
	}
	return cts
}

func sendCounts(cns []Conn) map[int]int {
	cts := map[int]int{}
	for _, cn := range cns {
		cts[cn.Send]++
	}
	return cts
}

func TestOneToOne(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 5)
	cns, err := nt.Connect(a, b, NewConnSpec(OneToOne), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 5 {
		t.Fatalf("got %v connections, want 5", len(cns))
	}
	for i, cn := range cns {
		if cn.Send != a.Ids[i] || cn.Recv != b.Ids[i] {
			t.Errorf("pair %v: got %v -> %v, want %v -> %v", i, cn.Send, cn.Recv, a.Ids[i], b.Ids[i])
		}
		if mat32.Abs(cn.Delay-nt.Res) > delayTol {
			t.Errorf("default delay: got %v, want %v", cn.Delay, nt.Res)
		}
		if cn.Wt != 1 {
			t.Errorf("default weight: got %v, want 1", cn.Wt)
		}
	}
}

func TestOneToOneSizeMismatch(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 4)
	cns, err := nt.Connect(a, b, NewConnSpec(OneToOne), 1)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want a config error", err)
	}
	if cns != nil {
		t.Errorf("failed connect must not return connections")
	}
}

func TestAllToAll(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 4)
	cns, err := nt.Connect(a, b, NewConnSpec(AllToAll), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 20 {
		t.Fatalf("got %v connections, want 20", len(cns))
	}
	seen := map[[2]int]bool{}
	for _, cn := range cns {
		seen[[2]int{cn.Send, cn.Recv}] = true
	}
	if len(seen) != 20 {
		t.Errorf("all-to-all produced duplicate pairs")
	}
}

func TestAutapsesExcluded(t *testing.T) {
	nt := NewNetwork("test")
	a := elayer.NewCollection("a", 6, "")
	if err := nt.AddLayer(a); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	cs := NewConnSpec(AllToAll)
	cns, err := nt.Connect(a, a, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 36 {
		t.Fatalf("self all-to-all with autapses: got %v, want 36", len(cns))
	}
	cs.Autapses = false
	cns, err = nt.Connect(a, a, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 30 {
		t.Fatalf("self all-to-all without autapses: got %v, want 30", len(cns))
	}
	for _, cn := range cns {
		if cn.Send == cn.Recv {
			t.Errorf("autapse %v -> %v emitted despite policy", cn.Send, cn.Recv)
		}
	}
}

func TestBernoulliExtremes(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 4)
	cs := NewConnSpec(PairwiseBernoulli)
	cs.P = ekernel.NewConstant(1)
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 20 {
		t.Errorf("p = 1: got %v connections, want the full cross product 20", len(cns))
	}
	cs.P = ekernel.NewConstant(0)
	cns, err = nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 0 {
		t.Errorf("p = 0: got %v connections, want none", len(cns))
	}
}

func TestKernelOnPlainCollections(t *testing.T) {
	// non-spatial parameters work on layers without positions; geometric
	// masks and displacement-dependent kernels do not
	nt, a, b := twoCollections(t, 5, 4)
	cs := NewConnSpec(PairwiseBernoulli)
	cs.P = ekernel.NewUniform(1, 1)
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 20 {
		t.Errorf("stochastic p of 1: got %v connections, want 20", len(cns))
	}

	var ce *ConfigError
	cs.P = ekernel.NewGaussian(1, 0.2)
	if _, err = nt.Connect(a, b, cs, 1); !errors.As(err, &ce) {
		t.Errorf("spatial kernel on plain collections: got %v, want ConfigError", err)
	}
	cs.P = nil
	cs.Rule = AllToAll
	cs.Mask = rectMask()
	if _, err = nt.Connect(a, b, cs, 1); !errors.As(err, &ce) {
		t.Errorf("geometric mask on plain collections: got %v, want ConfigError", err)
	}
}

func TestProbabilityAboveOneFatal(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 4)
	cs := NewConnSpec(PairwiseBernoulli)
	cs.P = ekernel.NewConstant(1.5)
	cns, err := nt.Connect(a, b, cs, 1)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want a config error", err)
	}
	if cns != nil {
		t.Errorf("failed connect must not return connections")
	}
}

// rectMask is a box of half-width 0.25: on a 5x5 unit grid (spacing 0.2) it
// covers the 3x3 neighborhood with margin to spare.
func rectMask() *emask.Rect {
	return emask.NewRect(mat32.Vec2{X: -0.25, Y: -0.25}, mat32.Vec2{X: 0.25, Y: 0.25})
}

// exactMask puts the mask boundary exactly on the neighbor spacing of the
// 5x5 unit grid, so neighbors at displacement 0.2 sit right on the edge.
func exactMask() *emask.Rect {
	return emask.NewRect(mat32.Vec2{X: -0.2, Y: -0.2}, mat32.Vec2{X: 0.2, Y: 0.2})
}

func TestMaskCountsOpen(t *testing.T) {
	nt, a, b := twoGrids(t, 5, false)
	cs := NewConnSpec(AllToAll)
	cs.Mask = rectMask()
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	cts := recvCounts(cns)
	// driver = receiver: corner 2x2, edge 2x3, center 3x3
	if got := cts[b.Ids[0]]; got != 4 {
		t.Errorf("corner driver: got %v in-connections, want 4", got)
	}
	if got := cts[b.Ids[2]]; got != 6 {
		t.Errorf("edge driver: got %v in-connections, want 6", got)
	}
	if got := cts[b.Ids[12]]; got != 9 {
		t.Errorf("center driver: got %v in-connections, want 9", got)
	}
}

func TestMaskCountsWrapped(t *testing.T) {
	nt, a, b := twoGrids(t, 5, true)
	cs := NewConnSpec(AllToAll)
	cs.Mask = rectMask()
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for id, ct := range recvCounts(cns) {
		if ct != 9 {
			t.Errorf("wrapped driver %v: got %v in-connections, want 9", id, ct)
		}
	}
	if len(cns) != 25*9 {
		t.Errorf("wrapped total: got %v, want %v", len(cns), 25*9)
	}
}

func TestMaskCountsExactBoundary(t *testing.T) {
	// boundary nodes at exactly mask-width displacement must be included
	// even when wrapped float32 arithmetic lands them an ulp past the edge
	nt, a, b := twoGrids(t, 5, false)
	cs := NewConnSpec(AllToAll)
	cs.Mask = exactMask()
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	cts := recvCounts(cns)
	if got := cts[b.Ids[0]]; got != 4 {
		t.Errorf("open corner driver: got %v in-connections, want 4", got)
	}
	if got := cts[b.Ids[12]]; got != 9 {
		t.Errorf("open center driver: got %v in-connections, want 9", got)
	}

	nt, a, b = twoGrids(t, 5, true)
	cns, err = nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for id, ct := range recvCounts(cns) {
		if ct != 9 {
			t.Errorf("wrapped driver %v: got %v in-connections, want 9", id, ct)
		}
	}
	if len(cns) != 25*9 {
		t.Errorf("wrapped total: got %v, want %v", len(cns), 25*9)
	}
}

func TestMaskTooWideForWrap(t *testing.T) {
	nt, a, b := twoGrids(t, 5, true)
	cs := NewConnSpec(AllToAll)
	cs.Mask = emask.NewRect(mat32.Vec2{X: -0.6, Y: -0.1}, mat32.Vec2{X: 0.6, Y: 0.1})
	_, err := nt.Connect(a, b, cs, 1)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("mask wider than a periodic extent must fail: got %v", err)
	}
}

func TestGridMaskCounts(t *testing.T) {
	for _, wrap := range []bool{false, true} {
		nt, a, b := twoGrids(t, 5, wrap)
		cs := NewConnSpec(AllToAll)
		cs.GMask = emask.NewGridMask(3, 3)
		cs.GMask.Anchor.X, cs.GMask.Anchor.Y = 1, 1 // centered block
		cns, err := nt.Connect(a, b, cs, 1)
		if err != nil {
			t.Fatal(err)
		}
		cts := recvCounts(cns)
		wantCorner, wantCenter := 4, 9
		if wrap {
			wantCorner = 9
		}
		if got := cts[b.Ids[0]]; got != wantCorner {
			t.Errorf("wrap=%v corner driver: got %v, want %v", wrap, got, wantCorner)
		}
		if got := cts[b.Ids[12]]; got != wantCenter {
			t.Errorf("wrap=%v center driver: got %v, want %v", wrap, got, wantCenter)
		}
	}
}

func TestFixedOutDegree(t *testing.T) {
	nt, a, b := twoCollections(t, 4, 10)
	cs := NewConnSpec(FixedOutDegree)
	cs.N = 3
	cs.Multapses = false
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 12 {
		t.Fatalf("got %v connections, want 12", len(cns))
	}
	seen := map[[2]int]bool{}
	for sid, ct := range sendCounts(cns) {
		if ct != 3 {
			t.Errorf("sender %v: got %v out-connections, want 3", sid, ct)
		}
	}
	for _, cn := range cns {
		pr := [2]int{cn.Send, cn.Recv}
		if seen[pr] {
			t.Errorf("duplicate pair %v with multapses disallowed", pr)
		}
		seen[pr] = true
	}
}

func TestFixedInDegree(t *testing.T) {
	nt, a, b := twoCollections(t, 10, 4)
	cs := NewConnSpec(FixedInDegree)
	cs.N = 3
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for rid, ct := range recvCounts(cns) {
		if ct != 3 {
			t.Errorf("receiver %v: got %v in-connections, want 3", rid, ct)
		}
	}
	if len(cns) != 12 {
		t.Errorf("got %v connections, want 12", len(cns))
	}
}

func TestFixedInDegreeInfeasible(t *testing.T) {
	nt, a, b := twoCollections(t, 5, 3)
	cs := NewConnSpec(FixedInDegree)
	cs.N = 10
	cs.Multapses = false
	cns, err := nt.Connect(a, b, cs, 1)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("degree above the pool size without multapses must fail fast: got %v", err)
	}
	if cns != nil {
		t.Errorf("failed connect must not return connections")
	}
}

func TestFixedTotalNumber(t *testing.T) {
	nt, a, b := twoCollections(t, 6, 5)
	cs := NewConnSpec(FixedTotalNumber)
	cs.N = 30
	cs.Multapses = false
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 30 {
		t.Fatalf("got %v connections, want 30", len(cns))
	}
	seen := map[[2]int]bool{}
	for _, cn := range cns {
		pr := [2]int{cn.Send, cn.Recv}
		if seen[pr] {
			t.Errorf("duplicate pair %v with multapses disallowed", pr)
		}
		seen[pr] = true
	}
	cs.N = 31
	if _, err := nt.Connect(a, b, cs, 1); err == nil {
		t.Errorf("total above the pair count without multapses must fail")
	}
}

func TestThreadInvariance(t *testing.T) {
	nt, a, b := twoGrids(t, 10, true)
	cs := NewConnSpec(PairwiseBernoulli)
	cs.P = ekernel.NewGaussian(1, 0.2)
	cs.Mask = emask.NewCircle(0.35)
	cs.Wt = ekernel.NewUniform(0.5, 1.5)
	base, err := nt.Connect(a, b, cs, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(base) == 0 {
		t.Fatal("expected some connections")
	}
	for _, nth := range []int{2, 4, 7} {
		nt.Threads = nth
		cns, err := nt.Connect(a, b, cs, 42)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(cns, base) {
			t.Errorf("%v threads produced different output than 1 thread", nth)
		}
	}
}

func TestSeedReproducible(t *testing.T) {
	nt, a, b := twoGrids(t, 8, false)
	cs := NewConnSpec(FixedInDegree)
	cs.N = 5
	cs.Wt = ekernel.NewUniform(0, 1)
	one, err := nt.Connect(a, b, cs, 7)
	if err != nil {
		t.Fatal(err)
	}
	two, err := nt.Connect(a, b, cs, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(one, two) {
		t.Errorf("identical seeds must reproduce identical connections")
	}
	other, err := nt.Connect(a, b, cs, 8)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(one, other) {
		t.Errorf("different seeds produced identical stochastic connections")
	}
}

func TestDelayQuantization(t *testing.T) {
	nt, a, b := twoCollections(t, 3, 3)
	cs := NewConnSpec(OneToOne)
	cs.Delay = ekernel.NewConstant(0.234)
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, cn := range cns {
		if mat32.Abs(cn.Delay-0.2) > delayTol {
			t.Errorf("delay 0.234 at res 0.1: got %v, want 0.2", cn.Delay)
		}
	}
	cs.Delay = ekernel.NewConstant(0.04)
	cns, err = nt.Connect(a, b, cs, 1)
	var ne *NumericError
	if !errors.As(err, &ne) {
		t.Fatalf("delay below the resolution must fail: got %v", err)
	}
	if cns != nil {
		t.Errorf("failed connect must not return connections")
	}
}

func TestWeightRange(t *testing.T) {
	nt, a, b := twoCollections(t, 3, 3)
	nt.WtRange.Set(0, 1)
	cs := NewConnSpec(OneToOne)
	cs.Wt = ekernel.NewConstant(2)
	_, err := nt.Connect(a, b, cs, 1)
	var ne *NumericError
	if !errors.As(err, &ne) {
		t.Fatalf("weight outside the allowed range must fail: got %v", err)
	}
	cs.Wt = ekernel.NewUniform(0.2, 0.8)
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, cn := range cns {
		if cn.Wt < 0.2 || cn.Wt > 0.8 {
			t.Errorf("sampled weight %v outside [0.2, 0.8]", cn.Wt)
		}
	}
}

func TestModelFiltering(t *testing.T) {
	nt := NewNetwork("test")
	a := elayer.NewGrid("a", []int{2, 2})
	a.Elems = []elayer.Elem{{Model: "ex", Count: 1}, {Model: "in", Count: 1}}
	b := elayer.NewGrid("b", []int{2, 2})
	b.Elems = []elayer.Elem{{Model: "ex", Count: 1}, {Model: "in", Count: 1}}
	if err := nt.AddLayer(a); err != nil {
		t.Fatal(err)
	}
	if err := nt.AddLayer(b); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	cs := NewConnSpec(AllToAll)
	cs.SendModel = "ex"
	cs.RecvModel = "in"
	cns, err := nt.Connect(a, b, cs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 16 {
		t.Fatalf("got %v connections, want 4 ex senders x 4 in receivers = 16", len(cns))
	}
	for _, cn := range cns {
		if a.Model(a.IdIndex(cn.Send)) != "ex" {
			t.Errorf("sender %v is not an ex node", cn.Send)
		}
		if b.Model(b.IdIndex(cn.Recv)) != "in" {
			t.Errorf("receiver %v is not an in node", cn.Recv)
		}
	}
}

func TestConnectArrays(t *testing.T) {
	nt, a, b := twoCollections(t, 3, 3)
	sends := []int{a.Ids[0], a.Ids[1], a.Ids[2]}
	recvs := []int{b.Ids[2], b.Ids[1], b.Ids[0]}
	wts := []float32{0.5, 1.5, 2.5}
	dls := []float32{0.1, 0.234, 0.3}
	cns, err := nt.ConnectArrays(sends, recvs, wts, dls)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 3 {
		t.Fatalf("got %v conns, want 3", len(cns))
	}
	for i, cn := range cns {
		if cn.Send != sends[i] || cn.Recv != recvs[i] {
			t.Errorf("conn %v: got %v -> %v, want %v -> %v", i, cn.Send, cn.Recv, sends[i], recvs[i])
		}
		if cn.Wt != wts[i] {
			t.Errorf("conn %v: got wt %v, want %v", i, cn.Wt, wts[i])
		}
	}
	if mat32.Abs(cns[1].Delay-0.2) > delayTol {
		t.Errorf("delay 0.234 at res 0.1: got %v, want 0.2", cns[1].Delay)
	}

	// nil arrays take the defaults
	cns, err = nt.ConnectArrays(sends, recvs, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, cn := range cns {
		if cn.Wt != 1 {
			t.Errorf("default weight: got %v, want 1", cn.Wt)
		}
		if mat32.Abs(cn.Delay-nt.Res) > delayTol {
			t.Errorf("default delay: got %v, want %v", cn.Delay, nt.Res)
		}
	}

	var ce *ConfigError
	if _, err = nt.ConnectArrays(sends, recvs[:2], nil, nil); !errors.As(err, &ce) {
		t.Errorf("length mismatch: got %v, want ConfigError", err)
	}

	nt.WtRange.Set(0, 1)
	var ne *NumericError
	cns, err = nt.ConnectArrays(sends, recvs, []float32{0.5, 2, 0.5}, nil)
	if !errors.As(err, &ne) {
		t.Errorf("out-of-range weight: got %v, want NumericError", err)
	}
	if cns != nil {
		t.Errorf("conns not nil after weight error")
	}
}
