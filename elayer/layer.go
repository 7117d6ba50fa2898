// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elayer

import (
	"fmt"
	"sort"

	"github.com/emer/emergent/edge"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// LayerDimNames2D are the etensor dimension names for 2D grid layers
var LayerDimNames2D = []string{"Y", "X"}

// LayerDimNames3D are the etensor dimension names for 3D grid layers
var LayerDimNames3D = []string{"Z", "Y", "X"}

// Elem is one typed element of a composite layer: Count nodes with the given
// model tag are created at every grid position (or at every free position),
// in the order the elements are listed.
type Elem struct {
	Model string `desc:"model / type tag for these nodes -- used to filter drivers and pools during connection generation"`
	Count int    `desc:"number of nodes of this model per position"`
}

// Layer is an ordered population of nodes with optional spatial metadata.
// Configure the fields (or use NewGrid / NewFree) and then call Build once to
// assign ids and compute positions -- nodes are immutable thereafter.
type Layer struct {
	Nm      string        `desc:"name of the layer -- must be unique within a network"`
	Dims    int           `desc:"number of spatial dimensions: 2 or 3"`
	Spatial bool          `desc:"layer carries spatial metadata (center, extent, positions) -- false for plain node collections"`
	Shp     etensor.Shape `desc:"grid shape, outer-to-inner (row major): [Y, X] for 2D, [Z, Y, X] for 3D -- zero length for free and non-spatial layers"`
	Center  mat32.Vec3    `desc:"center of the layer extent in layer coordinates"`
	Extent  mat32.Vec3    `desc:"size of the layer along each axis -- must be positive on all used axes for spatial layers"`
	Wrap    [3]bool       `desc:"periodic boundary (edge wrap) per axis -- default false"`
	Elems   []Elem        `desc:"composite layer elements -- empty means one untagged node per position"`

	Ids  []int        `view:"-" desc:"node ids, strictly ascending -- assigned by Build"`
	Pos  []mat32.Vec3 `view:"-" desc:"node positions, one per node -- Z is 0 for 2D layers"`
	Free []mat32.Vec3 `view:"-" desc:"explicit per-position coordinates for free layers, one per position (not per node) -- set before Build"`

	npc  int     // nodes per position: sum of element counts, min 1
	kd   *kdIndex
	blt  bool
}

// NewGrid returns a 2D grid layer with the given shape ([Y, X] = rows, cols),
// unit extent centered on the origin, and no edge wrap.  Call Build to
// finalize.  Use a 3-element shape ([Z, Y, X]) for a 3D grid.
func NewGrid(name string, shape []int) *Layer {
	ly := &Layer{Nm: name, Spatial: true}
	ly.Dims = 2
	dnms := LayerDimNames2D
	if len(shape) == 3 {
		ly.Dims = 3
		dnms = LayerDimNames3D
	}
	ly.Shp.SetShape(shape, nil, dnms)
	ly.Extent = mat32.Vec3{X: 1, Y: 1, Z: 0}
	if ly.Dims == 3 {
		ly.Extent.Z = 1
	}
	return ly
}

// NewFree returns a free (non-grid) spatial layer with the given explicit
// positions (Z = 0 for 2D).  If Extent is left zero, Build infers it from the
// position bounding box.  Call Build to finalize.
func NewFree(name string, dims int, pos []mat32.Vec3) *Layer {
	return &Layer{Nm: name, Spatial: true, Dims: dims, Free: pos}
}

// NewCollection returns a plain non-spatial node collection of n nodes with
// an optional single model tag.
func NewCollection(name string, n int, model string) *Layer {
	ly := &Layer{Nm: name}
	if model != "" {
		ly.Elems = []Elem{{Model: model, Count: 1}}
	}
	ly.Free = make([]mat32.Vec3, n) // position slots only; layer is non-spatial
	return ly
}

func (ly *Layer) Name() string { return ly.Nm }

// NNodes returns the number of nodes in the layer (only valid after Build
// for grid layers).
func (ly *Layer) NNodes() int { return len(ly.Ids) }

// NPos returns the number of distinct spatial positions.
func (ly *Layer) NPos() int {
	if ly.Shp.Len() > 0 {
		return ly.Shp.Len()
	}
	return len(ly.Free)
}

// NPerPos returns the number of nodes at each position: the sum of element
// counts, or 1 for plain layers.
func (ly *Layer) NPerPos() int {
	n := 0
	for _, el := range ly.Elems {
		n += el.Count
	}
	if n == 0 {
		n = 1
	}
	return n
}

// IsGrid returns true if this is a spatial layer with grid-determined positions.
func (ly *Layer) IsGrid() bool { return ly.Spatial && ly.Shp.Len() > 0 }

// Spacing returns the grid spacing (extent / shape, componentwise).
// Only meaningful for grid layers.
func (ly *Layer) Spacing() mat32.Vec3 {
	var sp mat32.Vec3
	if !ly.IsGrid() {
		return sp
	}
	sp.X = ly.Extent.X / float32(ly.Shp.Dim(ly.Shp.NumDims()-1))
	sp.Y = ly.Extent.Y / float32(ly.Shp.Dim(ly.Shp.NumDims()-2))
	if ly.Dims == 3 {
		sp.Z = ly.Extent.Z / float32(ly.Shp.Dim(0))
	}
	return sp
}

// Build validates the layer configuration, assigns node ids starting at
// first, and computes node positions.  It must be called exactly once.
func (ly *Layer) Build(first int) error {
	if ly.blt {
		return fmt.Errorf("elayer.Layer: %v already built", ly.Nm)
	}
	if err := ly.Validate(); err != nil {
		return err
	}
	ly.npc = ly.NPerPos()
	np := ly.NPos()
	nn := np * ly.npc
	ly.Ids = make([]int, nn)
	for i := range ly.Ids {
		ly.Ids[i] = first + i
	}
	if ly.Spatial {
		ly.Pos = make([]mat32.Vec3, nn)
		for pi := 0; pi < np; pi++ {
			p := ly.posAt(pi)
			for ei := 0; ei < ly.npc; ei++ {
				ly.Pos[pi*ly.npc+ei] = p
			}
		}
		if !ly.IsGrid() && ly.extentZero() {
			ly.inferExtent()
		}
		if !ly.wrapAny() && !ly.IsGrid() {
			ly.kd = newKdIndex(ly.Pos, ly.Dims)
		}
	}
	ly.blt = true
	return nil
}

// Built returns true once Build has been called.
func (ly *Layer) Built() bool { return ly.blt }

// Validate checks the layer configuration, returning a descriptive error for
// the first problem found.
func (ly *Layer) Validate() error {
	if ly.Dims != 0 && ly.Dims != 2 && ly.Dims != 3 {
		return fmt.Errorf("elayer.Layer: %v invalid Dims: %v (must be 2 or 3)", ly.Nm, ly.Dims)
	}
	for _, el := range ly.Elems {
		if el.Count <= 0 {
			return fmt.Errorf("elayer.Layer: %v element %v has non-positive count %v", ly.Nm, el.Model, el.Count)
		}
	}
	if !ly.Spatial {
		return nil
	}
	if ly.IsGrid() {
		nd := ly.Shp.NumDims()
		if (ly.Dims == 2 && nd != 2) || (ly.Dims == 3 && nd != 3) {
			return fmt.Errorf("elayer.Layer: %v grid shape dims %v does not match Dims %v", ly.Nm, nd, ly.Dims)
		}
		for d := 0; d < nd; d++ {
			if ly.Shp.Dim(d) <= 0 {
				return fmt.Errorf("elayer.Layer: %v grid shape has non-positive dim %v", ly.Nm, d)
			}
		}
	} else if len(ly.Free) == 0 {
		return fmt.Errorf("elayer.Layer: %v free spatial layer has no positions", ly.Nm)
	}
	if !ly.extentZero() {
		if ly.Extent.X <= 0 || ly.Extent.Y <= 0 || (ly.Dims == 3 && ly.Extent.Z <= 0) {
			return fmt.Errorf("elayer.Layer: %v extent must be positive on all %vD axes: %v", ly.Nm, ly.Dims, ly.Extent)
		}
	} else if ly.IsGrid() {
		return fmt.Errorf("elayer.Layer: %v grid layer requires an explicit extent", ly.Nm)
	}
	return nil
}

func (ly *Layer) extentZero() bool {
	return ly.Extent.X == 0 && ly.Extent.Y == 0 && ly.Extent.Z == 0
}

func (ly *Layer) wrapAny() bool { return ly.Wrap[0] || ly.Wrap[1] || ly.Wrap[2] }

// posAt returns the position for flat position index pi.
// Grid layers: deterministic function of the grid coordinates, first cell at
// center - extent/2 + spacing/2, rows advancing in -Y (top-down), columns in
// +X, depth planes in +Z.
func (ly *Layer) posAt(pi int) mat32.Vec3 {
	if !ly.IsGrid() {
		return ly.Free[pi]
	}
	sp := ly.Spacing()
	nd := ly.Shp.NumDims()
	cols := ly.Shp.Dim(nd - 1)
	rows := ly.Shp.Dim(nd - 2)
	ci := pi % cols
	ri := (pi / cols) % rows
	var p mat32.Vec3
	p.X = ly.Center.X - ly.Extent.X/2 + sp.X*(float32(ci)+0.5)
	p.Y = ly.Center.Y + ly.Extent.Y/2 - sp.Y*(float32(ri)+0.5)
	if ly.Dims == 3 {
		zi := pi / (cols * rows)
		p.Z = ly.Center.Z - ly.Extent.Z/2 + sp.Z*(float32(zi)+0.5)
	}
	return p
}

// Model returns the model tag of the node at the given index, or "" for
// untagged nodes.
func (ly *Layer) Model(ni int) string {
	if len(ly.Elems) == 0 {
		return ""
	}
	ei := ni % ly.npc
	for _, el := range ly.Elems {
		if ei < el.Count {
			return el.Model
		}
		ei -= el.Count
	}
	return ""
}

// IdIndex returns the index of the given node id in this layer, or -1 if it
// is not a member.
func (ly *Layer) IdIndex(id int) int {
	i := sort.SearchInts(ly.Ids, id)
	if i < len(ly.Ids) && ly.Ids[i] == id {
		return i
	}
	return -1
}

// GridCoord returns the (row, col) grid coordinates (and depth plane for 3D)
// of the node at the given index.  Only valid for grid layers.
func (ly *Layer) GridCoord(ni int) (row, col, depth int) {
	nd := ly.Shp.NumDims()
	cols := ly.Shp.Dim(nd - 1)
	rows := ly.Shp.Dim(nd - 2)
	pi := ni / ly.npc
	col = pi % cols
	row = (pi / cols) % rows
	depth = pi / (cols * rows)
	return
}

// GridSize returns the number of rows, columns and depth planes (1 for 2D).
// Only valid for grid layers.
func (ly *Layer) GridSize() (rows, cols, depth int) {
	nd := ly.Shp.NumDims()
	cols = ly.Shp.Dim(nd - 1)
	rows = ly.Shp.Dim(nd - 2)
	depth = 1
	if nd == 3 {
		depth = ly.Shp.Dim(0)
	}
	return
}

// CellIndex returns the flat position index of the given grid cell.
// Only valid for grid layers.
func (ly *Layer) CellIndex(row, col, depth int) int {
	rows, cols, _ := ly.GridSize()
	return (depth*rows+row)*cols + col
}

// MapInto expresses a position from another layer's frame in this layer's
// frame.  Layer frames are identical Euclidean spaces (no scaling or rotation
// between layers), so this is the identity -- kept explicit so every
// cross-layer coordinate transfer goes through one function.
func (ly *Layer) MapInto(pos mat32.Vec3) mat32.Vec3 {
	return pos
}

// Displacement returns the vector from the from position to the to position
// in this layer's frame, minimized across periodic boundaries on each axis
// with edge wrap enabled.
func (ly *Layer) Displacement(from, to mat32.Vec3) mat32.Vec3 {
	var d mat32.Vec3
	if ly.Wrap[0] {
		d.X = edge.WrapMinDist(to.X, ly.Extent.X, from.X) - from.X
	} else {
		d.X = to.X - from.X
	}
	if ly.Wrap[1] {
		d.Y = edge.WrapMinDist(to.Y, ly.Extent.Y, from.Y) - from.Y
	} else {
		d.Y = to.Y - from.Y
	}
	if ly.Dims == 3 {
		if ly.Wrap[2] {
			d.Z = edge.WrapMinDist(to.Z, ly.Extent.Z, from.Z) - from.Z
		} else {
			d.Z = to.Z - from.Z
		}
	}
	return d
}

// inferExtent sets the extent of a free layer from the bounding box of its
// positions, padded by half the mean nearest spacing so boundary nodes are
// interior to the extent.
func (ly *Layer) inferExtent() {
	lo := mat32.NewVec3Scalar(mat32.Infinity)
	hi := lo.Negate()
	for _, p := range ly.Pos {
		lo.X = mat32.Min(lo.X, p.X)
		lo.Y = mat32.Min(lo.Y, p.Y)
		lo.Z = mat32.Min(lo.Z, p.Z)
		hi.X = mat32.Max(hi.X, p.X)
		hi.Y = mat32.Max(hi.Y, p.Y)
		hi.Z = mat32.Max(hi.Z, p.Z)
	}
	sz := hi.Sub(lo)
	pad := float32(0)
	if n := len(ly.Pos); n > 1 {
		pad = sz.Length() / float32(n)
	}
	ly.Extent = sz.AddScalar(2 * pad)
	if ly.Dims == 2 {
		ly.Extent.Z = 0
	}
	ly.Center = lo.Add(hi).MulScalar(0.5)
}

// Join concatenates two non-spatial collections into a new one.  Collections
// with spatial metadata cannot be joined; ids must be disjoint and the
// element models must match.
func Join(name string, a, b *Layer) (*Layer, error) {
	if a.Spatial || b.Spatial {
		return nil, fmt.Errorf("elayer.Join: cannot join spatial layers %v and %v", a.Nm, b.Nm)
	}
	if len(a.Elems) != len(b.Elems) {
		return nil, fmt.Errorf("elayer.Join: %v and %v have different element models", a.Nm, b.Nm)
	}
	for i := range a.Elems {
		if a.Elems[i] != b.Elems[i] {
			return nil, fmt.Errorf("elayer.Join: %v and %v have different element models", a.Nm, b.Nm)
		}
	}
	ids := make([]int, 0, len(a.Ids)+len(b.Ids))
	ids = append(ids, a.Ids...)
	ids = append(ids, b.Ids...)
	sort.Ints(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, fmt.Errorf("elayer.Join: %v and %v overlap at id %v", a.Nm, b.Nm, ids[i])
		}
	}
	jn := &Layer{Nm: name, Elems: a.Elems, Ids: ids, blt: true}
	jn.npc = jn.NPerPos()
	return jn, nil
}
