// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"sort"
	"sync"

	"github.com/emer/econn/ekernel"
	"github.com/emer/econn/elayer"
	"github.com/emer/econn/emask"
	"github.com/emer/emergent/edge"
	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

// spacingTol is the relative tolerance for the identical-spacing requirement
// between grid-mask layers.
const spacingTol = 1e-6

// Connect generates the connections from send to recv according to the given
// spec, using the given seed.  The result is deterministic for a fixed seed
// and spec, independent of Threads: driver nodes are visited in ascending
// order and each driver uses its own random substream (seed + driver position
// + 1; rule-level draws use the seed itself).  On any configuration,
// sampling-exhaustion or numeric-policy error the whole operation aborts and
// no connections are returned.
func (nt *Network) Connect(send, recv *elayer.Layer, cs *ConnSpec, seed int64) ([]Conn, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	st, err := nt.newConnState(send, recv, cs)
	if err != nil {
		return nil, err
	}
	switch cs.Rule {
	case OneToOne:
		return st.oneToOne(seed)
	case AllToAll, PairwiseBernoulli:
		return st.pairs(seed)
	case FixedInDegree, FixedOutDegree:
		return st.degree(seed)
	case FixedTotalNumber:
		return st.total(seed)
	default:
		return nil, &ConfigError{Rule: cs.Rule.String(), Node: -1, What: "unhandled connection rule"}
	}
}

// cand is one masked pool candidate for a driver node: pool node index and
// the driver -> pool displacement in the pool layer's frame.
type cand struct {
	pi   int
	disp mat32.Vec3
}

// connState holds the resolved per-connect state: driver / pool roles,
// model-filtered node index lists, and the parameter sampler.
type connState struct {
	nt        *Network
	cs        *ConnSpec
	send      *elayer.Layer
	recv      *elayer.Layer
	drv       *elayer.Layer // layer visited node by node (outer loop)
	pool      *elayer.Layer // layer searched for partners of each driver
	drvIsSend bool
	drvIdxs   []int
	poolIdxs  []int
	spatial   bool
	rl        string
	smp       sampler
}

func (nt *Network) newConnState(send, recv *elayer.Layer, cs *ConnSpec) (*connState, error) {
	rl := cs.Rule.String()
	if send == nil || recv == nil {
		return nil, &ConfigError{Rule: rl, Node: -1, What: "nil layer"}
	}
	if !send.Built() || !recv.Built() {
		return nil, &ConfigError{Rule: rl, Node: -1, What: "layers must be built before connecting"}
	}
	st := &connState{nt: nt, cs: cs, send: send, recv: recv, rl: rl}
	st.drvIsSend = cs.Rule == FixedOutDegree ||
		((cs.Rule == PairwiseBernoulli || cs.Rule == AllToAll) && cs.OnSource)
	if st.drvIsSend {
		st.drv, st.pool = send, recv
	} else {
		st.drv, st.pool = recv, send
	}
	st.spatial = send.Spatial && recv.Spatial
	st.smp = nt.newSampler(cs)

	if !st.spatial {
		if cs.Mask != nil {
			return nil, &ConfigError{Rule: rl, Node: -1, What: "geometric mask requires spatial layers on both sides"}
		}
		// non-spatial parameters (constants, random draws) see a zero
		// displacement and are fine on plain collections
		for _, p := range []ekernel.Param{cs.P, cs.Wt, cs.Delay} {
			if p != nil && p.Type().Spatial() {
				return nil, &ConfigError{Rule: rl, Node: -1, What: "spatial kernel requires spatial layers on both sides"}
			}
		}
	}
	if cs.Mask != nil {
		if cs.Mask.Dims() != st.pool.Dims {
			return nil, &ConfigError{Rule: rl, Layer: st.pool.Nm, Node: -1,
				What: "mask dimensionality does not match the pool layer"}
		}
		lo, hi := cs.Mask.BBox()
		ext := st.pool.Extent
		for ax := 0; ax < st.pool.Dims; ax++ {
			if !st.pool.Wrap[ax] {
				continue
			}
			var w, e float32
			switch ax {
			case 0:
				w, e = hi.X-lo.X, ext.X
			case 1:
				w, e = hi.Y-lo.Y, ext.Y
			default:
				w, e = hi.Z-lo.Z, ext.Z
			}
			if w > e*(1+spacingTol) {
				return nil, &ConfigError{Rule: rl, Layer: st.pool.Nm, Node: -1,
					What: "mask wider than the layer extent on a periodic axis"}
			}
		}
	}
	if cs.GMask != nil {
		if err := st.checkGridMask(); err != nil {
			return nil, err
		}
	}
	st.drvIdxs = modelIdxs(st.drv, st.drvModel())
	st.poolIdxs = modelIdxs(st.pool, st.poolModel())
	return st, nil
}

func (st *connState) drvModel() string {
	if st.drvIsSend {
		return st.cs.SendModel
	}
	return st.cs.RecvModel
}

func (st *connState) poolModel() string {
	if st.drvIsSend {
		return st.cs.RecvModel
	}
	return st.cs.SendModel
}

func modelIdxs(ly *elayer.Layer, model string) []int {
	if model == "" {
		idxs := make([]int, ly.NNodes())
		for i := range idxs {
			idxs[i] = i
		}
		return idxs
	}
	var idxs []int
	for i := 0; i < ly.NNodes(); i++ {
		if ly.Model(i) == model {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (st *connState) checkGridMask() error {
	gm := st.cs.GMask
	if !st.drv.IsGrid() || !st.pool.IsGrid() {
		return &ConfigError{Rule: st.rl, Node: -1, What: "grid mask requires grid layers on both sides"}
	}
	ds, ps := st.drv.Spacing(), st.pool.Spacing()
	if !spacingEq(ds.X, ps.X) || !spacingEq(ds.Y, ps.Y) || !spacingEq(ds.Z, ps.Z) {
		return &ConfigError{Rule: st.rl, Layer: st.pool.Nm, Node: -1,
			What: "grid mask requires identical grid spacing in both layers"}
	}
	rows, cols, _ := st.pool.GridSize()
	if st.pool.Wrap[1] && gm.Rows > rows {
		return &ConfigError{Rule: st.rl, Layer: st.pool.Nm, Node: -1,
			What: "grid mask taller than the layer on a periodic axis"}
	}
	if st.pool.Wrap[0] && gm.Cols > cols {
		return &ConfigError{Rule: st.rl, Layer: st.pool.Nm, Node: -1,
			What: "grid mask wider than the layer on a periodic axis"}
	}
	return nil
}

func spacingEq(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	m := mat32.Max(mat32.Abs(a), mat32.Abs(b))
	return d <= m*spacingTol
}

// candidates returns the masked, model-filtered pool candidates for the
// driver node at index di, in ascending pool index order, with autapses
// already excluded when disallowed.
func (st *connState) candidates(di int) []cand {
	var cands []cand
	keep := func(pi int) {
		if !st.cs.Autapses && st.drv.Ids[di] == st.pool.Ids[pi] {
			return
		}
		if m := st.poolModel(); m != "" && st.pool.Model(pi) != m {
			return
		}
		var d mat32.Vec3
		if st.spatial {
			d = st.pool.Displacement(st.pool.MapInto(st.drv.Pos[di]), st.pool.Pos[pi])
		}
		cands = append(cands, cand{pi: pi, disp: d})
	}
	switch {
	case st.cs.GMask != nil:
		gm := st.cs.GMask
		drow, dcol, ddep := st.drv.GridCoord(di)
		rows, cols, _ := st.pool.GridSize()
		npp := st.pool.NPerPos()
		r0 := drow - gm.Anchor.Y
		c0 := dcol - gm.Anchor.X
		for r := r0; r < r0+gm.Rows; r++ {
			rr, rok := edge.Edge(r, rows, st.pool.Wrap[1])
			if !rok {
				continue
			}
			for c := c0; c < c0+gm.Cols; c++ {
				cc, cok := edge.Edge(c, cols, st.pool.Wrap[0])
				if !cok {
					continue
				}
				pi := st.pool.CellIndex(rr, cc, ddep)
				for ei := 0; ei < npp; ei++ {
					keep(pi*npp + ei)
				}
			}
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].pi < cands[j].pi })
	case st.cs.Mask != nil:
		dpos := st.pool.MapInto(st.drv.Pos[di])
		lo, hi := emask.PadBox(st.cs.Mask.BBox())
		for _, pi := range st.pool.Candidates(dpos.Add(lo), dpos.Add(hi)) {
			d := st.pool.Displacement(dpos, st.pool.Pos[pi])
			if !st.cs.Mask.Inside(d) {
				continue
			}
			keep(pi)
		}
	default:
		for _, pi := range st.poolIdxs {
			keep(pi)
		}
	}
	return cands
}

// conn builds the correctly-oriented connection record for a driver / pool
// pair via the parameter sampler.
func (st *connState) conn(di int, cn cand, rnd erand.Rand) (Conn, error) {
	if st.drvIsSend {
		return st.smp.sample(st.drv.Ids[di], st.pool.Ids[cn.pi], cn.disp, rnd)
	}
	return st.smp.sample(st.pool.Ids[cn.pi], st.drv.Ids[di], cn.disp, rnd)
}

// overDrivers runs fn for every driver (by position in the filtered driver
// list) with a deterministic per-driver random substream, partitioning
// drivers across nt.Threads goroutines, and merges the per-driver results in
// ascending driver order.  Output is identical for any thread count.
func (nt *Network) overDrivers(nd int, seed int64, fn func(di int, rnd erand.Rand) ([]Conn, error)) ([]Conn, error) {
	res := make([][]Conn, nd)
	nth := nt.Threads
	if nth < 1 {
		nth = 1
	}
	if nth == 1 {
		for di := 0; di < nd; di++ {
			cns, err := fn(di, erand.NewSysRand(seed+int64(di)+1))
			if err != nil {
				return nil, err
			}
			res[di] = cns
		}
	} else {
		errs := make([]error, nth)
		var wg sync.WaitGroup
		for th := 0; th < nth; th++ {
			wg.Add(1)
			go func(th int) {
				defer wg.Done()
				for di := th; di < nd; di += nth {
					cns, err := fn(di, erand.NewSysRand(seed+int64(di)+1))
					if err != nil {
						errs[th] = err
						return
					}
					res[di] = cns
				}
			}(th)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	var out []Conn
	for _, cns := range res {
		out = append(out, cns...)
	}
	return out, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Rules

// oneToOne pairs the model-filtered collections elementwise.
func (st *connState) oneToOne(seed int64) ([]Conn, error) {
	sidx := modelIdxs(st.send, st.cs.SendModel)
	ridx := modelIdxs(st.recv, st.cs.RecvModel)
	if len(sidx) != len(ridx) {
		return nil, &ConfigError{Rule: st.rl, Layer: st.send.Nm, Node: -1,
			What: "one-to-one requires equal population sizes"}
	}
	return st.nt.overDrivers(len(ridx), seed, func(di int, rnd erand.Rand) ([]Conn, error) {
		si, ri := sidx[di], ridx[di]
		if !st.cs.Autapses && st.send.Ids[si] == st.recv.Ids[ri] {
			return nil, nil
		}
		var d mat32.Vec3
		if st.spatial {
			d = st.send.Displacement(st.send.MapInto(st.recv.Pos[ri]), st.send.Pos[si])
		}
		cn, err := st.smp.sample(st.send.Ids[si], st.recv.Ids[ri], d, rnd)
		if err != nil {
			return nil, err
		}
		return []Conn{cn}, nil
	})
}

// pairs implements all-to-all and pairwise bernoulli: every masked driver /
// pool pair is visited exactly once and accepted with the kernel probability
// (unconditionally if no kernel), so the rule by itself never produces
// multapses.
func (st *connState) pairs(seed int64) ([]Conn, error) {
	return st.nt.overDrivers(len(st.drvIdxs), seed, func(dxi int, rnd erand.Rand) ([]Conn, error) {
		di := st.drvIdxs[dxi]
		var out []Conn
		for _, cn := range st.candidates(di) {
			if st.cs.P != nil {
				v := st.cs.P.Val(cn.disp, rnd)
				if v < 0 || v > 1 {
					return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di],
						What: "kernel probability outside [0, 1]"}
				}
				if !erand.BoolP(v, -1, rnd) {
					continue
				}
			}
			c, err := st.conn(di, cn, rnd)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	})
}

// degree implements fixed in-degree and fixed out-degree: for each driver,
// candidates are drawn uniformly (or kernel-weighted by rejection) until N
// connections are accepted.  Feasibility under the no-multapse policy is
// checked before any draws.
func (st *connState) degree(seed int64) ([]Conn, error) {
	n := st.cs.N
	return st.nt.overDrivers(len(st.drvIdxs), seed, func(dxi int, rnd erand.Rand) ([]Conn, error) {
		di := st.drvIdxs[dxi]
		cands := st.candidates(di)
		if n == 0 {
			return nil, nil
		}
		if len(cands) == 0 {
			return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di],
				What: "no eligible pool nodes for this driver"}
		}
		if !st.cs.Multapses && n > len(cands) {
			return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di],
				What: "requested degree exceeds the eligible pool with multapses disallowed"}
		}
		var pv []float64
		maxP := 0.0
		if st.cs.P != nil {
			pv = make([]float64, len(cands))
			for i, cn := range cands {
				v := st.cs.P.Val(cn.disp, rnd)
				if v < 0 {
					return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di],
						What: "negative kernel value in degree sampling"}
				}
				pv[i] = v
				if v > maxP {
					maxP = v
				}
			}
			if maxP == 0 {
				return nil, &ExhaustError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di], Tries: 0}
			}
		}
		bound := st.nt.MaxTries * n
		used := map[int]bool{}
		var out []Conn
		tries := 0
		for len(out) < n {
			if tries >= bound {
				return nil, &ExhaustError{Rule: st.rl, Layer: st.drv.Nm, Node: st.drv.Ids[di], Tries: tries}
			}
			tries++
			ci := rnd.Intn(len(cands), -1)
			if pv != nil && !erand.BoolP(pv[ci]/maxP, -1, rnd) {
				continue
			}
			if !st.cs.Multapses {
				if used[ci] {
					continue
				}
				used[ci] = true
			}
			c, err := st.conn(di, cands[ci], rnd)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	})
}

// total implements fixed total number: N pairs sampled uniformly across the
// masked cross product from a single rule-level stream (seeded with the
// connect seed), in draw order.  With multapses disallowed the draws are
// without replacement.
func (st *connState) total(seed int64) ([]Conn, error) {
	n := st.cs.N
	all := make([][]cand, len(st.drvIdxs))
	cum := make([]int, len(st.drvIdxs)+1)
	for i, di := range st.drvIdxs {
		all[i] = st.candidates(di)
		cum[i+1] = cum[i] + len(all[i])
	}
	total := cum[len(st.drvIdxs)]
	if n == 0 {
		return nil, nil
	}
	if total == 0 {
		return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: -1,
			What: "no eligible pairs for fixed total number"}
	}
	if !st.cs.Multapses && n > total {
		return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: -1,
			What: "requested total exceeds the eligible pairs with multapses disallowed"}
	}
	var pv [][]float64
	maxP := 0.0
	rnd := erand.NewSysRand(seed)
	if st.cs.P != nil {
		pv = make([][]float64, len(all))
		for i, cns := range all {
			pv[i] = make([]float64, len(cns))
			for j, cn := range cns {
				v := st.cs.P.Val(cn.disp, rnd)
				if v < 0 {
					return nil, &ConfigError{Rule: st.rl, Layer: st.drv.Nm, Node: -1,
						What: "negative kernel value in total-number sampling"}
				}
				pv[i][j] = v
				if v > maxP {
					maxP = v
				}
			}
		}
		if maxP == 0 {
			return nil, &ExhaustError{Rule: st.rl, Layer: st.drv.Nm, Node: -1, Tries: 0}
		}
	}
	bound := st.nt.MaxTries * n
	used := map[int]bool{}
	var out []Conn
	tries := 0
	for len(out) < n {
		if tries >= bound {
			return nil, &ExhaustError{Rule: st.rl, Layer: st.drv.Nm, Node: -1, Tries: tries}
		}
		tries++
		k := rnd.Intn(total, -1)
		i := sort.Search(len(cum)-1, func(i int) bool { return cum[i+1] > k })
		j := k - cum[i]
		if pv != nil && !erand.BoolP(pv[i][j]/maxP, -1, rnd) {
			continue
		}
		if !st.cs.Multapses {
			if used[k] {
				continue
			}
			used[k] = true
		}
		c, err := st.conn(st.drvIdxs[i], all[i][j], rnd)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
