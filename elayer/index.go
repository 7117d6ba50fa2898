// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elayer

import (
	"sort"

	"github.com/emer/emergent/edge"
	"github.com/goki/mat32"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// candEps is the relative slack applied to grid index ranges so that nodes
// sitting exactly on a bounding-box edge are never pruned by float error.
// The mask test on the exact displacement decides final membership.
const candEps = 1e-5

// Candidates returns the indexes (ascending) of all nodes whose position lies
// within the axis-aligned box [lo, hi], considering wrapped copies of the box
// on any axis with edge wrap enabled.  The box prunes the search; callers
// apply the exact mask test to each candidate.  Results are deterministic.
func (ly *Layer) Candidates(lo, hi mat32.Vec3) []int {
	if !ly.Spatial {
		return nil
	}
	if ly.IsGrid() {
		return ly.gridCandidates(lo, hi)
	}
	if ly.wrapAny() || ly.kd == nil {
		return ly.scanCandidates(lo, hi)
	}
	return ly.kd.candidates(lo, hi, ly.Dims)
}

// gridCandidates computes the covered grid index range analytically from the
// grid spacing: O(matching cells) rather than O(layer size).
func (ly *Layer) gridCandidates(lo, hi mat32.Vec3) []int {
	sp := ly.Spacing()
	nd := ly.Shp.NumDims()
	cols := ly.Shp.Dim(nd - 1)
	rows := ly.Shp.Dim(nd - 2)
	depth := 1
	if ly.Dims == 3 {
		depth = ly.Shp.Dim(0)
	}

	// x(c) = x0 + sx*(c+0.5); y(r) = y0 - sy*(r+0.5) with rows top-down
	x0 := ly.Center.X - ly.Extent.X/2
	y0 := ly.Center.Y + ly.Extent.Y/2
	cmin := int(mat32.Ceil((lo.X-x0)/sp.X - 0.5 - candEps))
	cmax := int(mat32.Floor((hi.X-x0)/sp.X - 0.5 + candEps))
	rmin := int(mat32.Ceil((y0-hi.Y)/sp.Y - 0.5 - candEps))
	rmax := int(mat32.Floor((y0-lo.Y)/sp.Y - 0.5 + candEps))
	zmin, zmax := 0, 0
	if ly.Dims == 3 {
		z0 := ly.Center.Z - ly.Extent.Z/2
		zmin = int(mat32.Ceil((lo.Z-z0)/sp.Z - 0.5 - candEps))
		zmax = int(mat32.Floor((hi.Z-z0)/sp.Z - 0.5 + candEps))
	}
	cmin, cmax = clipRange(cmin, cmax, cols, ly.Wrap[0])
	rmin, rmax = clipRange(rmin, rmax, rows, ly.Wrap[1])
	zmin, zmax = clipRange(zmin, zmax, depth, ly.Dims == 3 && ly.Wrap[2])

	var cis []int
	for zi := zmin; zi <= zmax; zi++ {
		z, _ := edge.Edge(zi, depth, ly.Wrap[2]) // ranges pre-clipped above
		for ri := rmin; ri <= rmax; ri++ {
			r, _ := edge.Edge(ri, rows, ly.Wrap[1])
			for ci := cmin; ci <= cmax; ci++ {
				c, _ := edge.Edge(ci, cols, ly.Wrap[0])
				pi := (z*rows+r)*cols + c
				for ei := 0; ei < ly.npc; ei++ {
					cis = append(cis, pi*ly.npc+ei)
				}
			}
		}
	}
	sort.Ints(cis)
	return dedupSorted(cis)
}

// clipRange clips an index range to [0, n) when not wrapping; when wrapping
// it caps the range length at n so no cell is visited twice.
func clipRange(min, max, n int, wrap bool) (int, int) {
	if !wrap {
		if min < 0 {
			min = 0
		}
		if max > n-1 {
			max = n - 1
		}
		return min, max
	}
	if max-min+1 > n {
		max = min + n - 1
	}
	return min, max
}

func dedupSorted(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// scanCandidates is the general path: a full scan testing each node's
// wrap-minimized position against the box.  Used for wrapped free layers and
// as the reference implementation for the k-d tree path.
func (ly *Layer) scanCandidates(lo, hi mat32.Vec3) []int {
	ctr := lo.Add(hi).MulScalar(0.5)
	var cis []int
	for i, p := range ly.Pos {
		q := p
		if ly.Wrap[0] {
			q.X = edge.WrapMinDist(q.X, ly.Extent.X, ctr.X)
		}
		if ly.Wrap[1] {
			q.Y = edge.WrapMinDist(q.Y, ly.Extent.Y, ctr.Y)
		}
		if ly.Dims == 3 && ly.Wrap[2] {
			q.Z = edge.WrapMinDist(q.Z, ly.Extent.Z, ctr.Z)
		}
		if q.X < lo.X || q.X > hi.X || q.Y < lo.Y || q.Y > hi.Y {
			continue
		}
		if ly.Dims == 3 && (q.Z < lo.Z || q.Z > hi.Z) {
			continue
		}
		cis = append(cis, i)
	}
	return cis
}

//////////////////////////////////////////////////////////////////////////////////////
//  k-d tree index for free layers

// kdIndex wraps a gonum k-d tree over node positions for free layers without
// periodic boundaries.  Read-only after construction, safe for concurrent use.
type kdIndex struct {
	tree *kdtree.Tree
}

func newKdIndex(pos []mat32.Vec3, dims int) *kdIndex {
	pts := make(kdPoints, len(pos))
	for i, p := range pos {
		pts[i] = kdPoint{idx: i, pos: p, dims: dims}
	}
	return &kdIndex{tree: kdtree.New(pts, false)}
}

// candidates queries all points within the circumradius of the box about its
// center, then filters to the box and returns ascending node indexes.
// Must return exactly the scanCandidates result set.
func (kd *kdIndex) candidates(lo, hi mat32.Vec3, dims int) []int {
	ctr := lo.Add(hi).MulScalar(0.5)
	half := hi.Sub(ctr)
	r2 := float64(half.LengthSq()) * (1 + candEps)
	kp := kdtree.NewDistKeeper(r2)
	kd.tree.NearestSet(kp, kdPoint{pos: ctr, dims: dims})
	var cis []int
	for _, cd := range kp.Heap {
		if cd.Comparable == nil {
			continue
		}
		p := cd.Comparable.(kdPoint)
		q := p.pos
		if q.X < lo.X || q.X > hi.X || q.Y < lo.Y || q.Y > hi.Y {
			continue
		}
		if dims == 3 && (q.Z < lo.Z || q.Z > hi.Z) {
			continue
		}
		cis = append(cis, p.idx)
	}
	sort.Ints(cis)
	return cis
}

// kdPoint is one node position in the k-d tree.
type kdPoint struct {
	idx  int
	pos  mat32.Vec3
	dims int
}

func (p kdPoint) dim(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return float64(p.pos.X)
	case 1:
		return float64(p.pos.Y)
	default:
		return float64(p.pos.Z)
	}
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	return p.dim(d) - q.dim(d)
}

func (p kdPoint) Dims() int { return p.dims }

// Distance returns the squared Euclidean distance, matching the squared
// radius used by the keeper.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	d := p.pos.Sub(q.pos)
	return float64(d.LengthSq())
}

// kdPoints implements kdtree.Interface.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int        { return kdPlane{points: p, dim: d}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// kdPlane sorts kdPoints along a dimension for pivot selection.
type kdPlane struct {
	dim    kdtree.Dim
	points kdPoints
}

func (p kdPlane) Len() int { return len(p.points) }
func (p kdPlane) Less(i, j int) bool {
	return p.points[i].dim(p.dim) < p.points[j].dim(p.dim)
}
func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
