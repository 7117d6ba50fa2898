// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emask

import (
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// Mask is a geometric region relative to a driver node.  Inside tests a
// displacement (driver -> pool, already wrap-minimized); BBox returns the
// axis-aligned box fully containing the mask (anchor and rotation included),
// used to prune the spatial index.
type Mask interface {
	Type() MaskType

	// Inside returns true if the given driver -> pool displacement falls
	// within the mask.
	Inside(d mat32.Vec3) bool

	// BBox returns the axis-aligned bounding box of the mask as lo, hi
	// displacement corners.  For rotated masks this is the AABB of the
	// rotated shape.
	BBox() (lo, hi mat32.Vec3)

	// Dims returns the number of spatial dimensions the mask applies to.
	Dims() int

	// Validate checks the mask geometry parameters.
	Validate() error
}

// MaskTypes enumerates the mask region variants.
type MaskType int

//go:generate stringer -type=MaskType

var KiT_MaskType = kit.Enums.AddEnum(MaskTypeN, kit.NotBitFlag, nil)

func (ev MaskType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *MaskType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Rectangular is a 2D axis-aligned (optionally rotated) rectangle
	Rectangular MaskType = iota

	// Circular is a 2D disc of a given radius
	Circular

	// Doughnut is a 2D annulus: inner radius excluded, outer included
	Doughnut

	// Elliptical is a 2D ellipse with major (X) and minor (Y) axis lengths
	Elliptical

	// Box is a 3D rectangular volume
	Box

	// Spherical is a 3D ball of a given radius
	Spherical

	// Ellipsoidal is a 3D ellipsoid with major (X), minor (Y) and polar (Z)
	// axis lengths
	Ellipsoidal

	// Grid is the discrete mask over integer grid offsets (see GridMask)
	Grid

	MaskTypeN
)

// Rotate specifies an optional mask rotation: Azimuth degrees about the Z
// (out of plane) axis first, then Polar degrees about the resulting X axis
// (3D only).  Zero values mean no rotation.
type Rotate struct {
	Azimuth float32 `desc:"rotation in degrees about the Z axis"`
	Polar   float32 `desc:"rotation in degrees about the azimuth-rotated X axis -- 3D masks only"`
}

// ToLocal rotates a displacement into mask-local coordinates (inverse of the
// mask rotation).
func (rt *Rotate) ToLocal(p mat32.Vec3) mat32.Vec3 {
	if rt.Azimuth != 0 {
		a := mat32.DegToRad(rt.Azimuth)
		s, c := mat32.Sin(a), mat32.Cos(a)
		p = mat32.Vec3{X: p.X*c + p.Y*s, Y: -p.X*s + p.Y*c, Z: p.Z}
	}
	if rt.Polar != 0 {
		b := mat32.DegToRad(rt.Polar)
		s, c := mat32.Sin(b), mat32.Cos(b)
		p = mat32.Vec3{X: p.X, Y: p.Y*c + p.Z*s, Z: -p.Y*s + p.Z*c}
	}
	return p
}

// FromLocal rotates a mask-local point into driver coordinates.
func (rt *Rotate) FromLocal(p mat32.Vec3) mat32.Vec3 {
	if rt.Polar != 0 {
		b := mat32.DegToRad(rt.Polar)
		s, c := mat32.Sin(b), mat32.Cos(b)
		p = mat32.Vec3{X: p.X, Y: p.Y*c - p.Z*s, Z: p.Y*s + p.Z*c}
	}
	if rt.Azimuth != 0 {
		a := mat32.DegToRad(rt.Azimuth)
		s, c := mat32.Sin(a), mat32.Cos(a)
		p = mat32.Vec3{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c, Z: p.Z}
	}
	return p
}

// IsZero returns true for the identity rotation.
func (rt *Rotate) IsZero() bool { return rt.Azimuth == 0 && rt.Polar == 0 }

// boundTol is the relative tolerance applied at inclusive mask boundaries.
// Wrapped displacement arithmetic in float32 can land a node a few ulps past
// an exact boundary (0.200000018 vs 0.2), and the boundary must still include
// it.
const boundTol = 1e-5

// boundEps returns the absolute boundary slack at scale s.
func boundEps(s float32) float32 {
	return boundTol * mat32.Max(mat32.Abs(s), 1)
}

// PadBox expands a bounding box by the boundary tolerance on each side, so
// candidate pruning keeps every node the Inside tolerance admits.
func PadBox(lo, hi mat32.Vec3) (mat32.Vec3, mat32.Vec3) {
	e := mat32.Vec3{X: boundEps(hi.X - lo.X), Y: boundEps(hi.Y - lo.Y), Z: boundEps(hi.Z - lo.Z)}
	return lo.Sub(e), hi.Add(e)
}

// rotBox returns the AABB of a local-frame box [lo, hi] after rotation and
// anchor translation, by transforming all 8 corners.
func rotBox(lo, hi mat32.Vec3, rt *Rotate, anchor mat32.Vec3) (mat32.Vec3, mat32.Vec3) {
	olo := mat32.NewVec3Scalar(mat32.Infinity)
	ohi := olo.Negate()
	for i := 0; i < 8; i++ {
		c := mat32.Vec3{X: lo.X, Y: lo.Y, Z: lo.Z}
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		c = rt.FromLocal(c).Add(anchor)
		olo.X = mat32.Min(olo.X, c.X)
		olo.Y = mat32.Min(olo.Y, c.Y)
		olo.Z = mat32.Min(olo.Z, c.Z)
		ohi.X = mat32.Max(ohi.X, c.X)
		ohi.Y = mat32.Max(ohi.Y, c.Y)
		ohi.Z = mat32.Max(ohi.Z, c.Z)
	}
	return olo, ohi
}
