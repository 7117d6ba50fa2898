// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emask

import (
	"fmt"

	"github.com/goki/mat32"
)

// BoxMask is a 3D rectangular volume specified by its lower-left-front and
// upper-right-back corners in mask-local coordinates, inclusive on all faces.
type BoxMask struct {
	LL     mat32.Vec3 `desc:"lower corner, mask-local coordinates"`
	UR     mat32.Vec3 `desc:"upper corner, mask-local coordinates"`
	Anchor mat32.Vec3 `desc:"offset of the box center relative to the driver node"`
	Rot    Rotate     `view:"inline" desc:"optional rotation about the anchor"`
}

// NewBox returns a box mask with the given corners.
func NewBox(ll, ur mat32.Vec3) *BoxMask {
	return &BoxMask{LL: ll, UR: ur}
}

func (mk *BoxMask) Type() MaskType { return Box }
func (mk *BoxMask) Dims() int      { return 3 }

func (mk *BoxMask) Inside(d mat32.Vec3) bool {
	p := mk.Rot.ToLocal(d.Sub(mk.Anchor))
	return p.X >= mk.LL.X-boundEps(mk.LL.X) && p.X <= mk.UR.X+boundEps(mk.UR.X) &&
		p.Y >= mk.LL.Y-boundEps(mk.LL.Y) && p.Y <= mk.UR.Y+boundEps(mk.UR.Y) &&
		p.Z >= mk.LL.Z-boundEps(mk.LL.Z) && p.Z <= mk.UR.Z+boundEps(mk.UR.Z)
}

func (mk *BoxMask) BBox() (mat32.Vec3, mat32.Vec3) {
	return rotBox(mk.LL, mk.UR, &mk.Rot, mk.Anchor)
}

func (mk *BoxMask) Validate() error {
	if mk.UR.X < mk.LL.X || mk.UR.Y < mk.LL.Y || mk.UR.Z < mk.LL.Z {
		return fmt.Errorf("emask.Box: upper corner %v below lower corner %v", mk.UR, mk.LL)
	}
	return nil
}

// Sphere is a 3D ball mask: displacement length <= Radius.
type Sphere struct {
	Radius float32    `min:"0" desc:"ball radius"`
	Anchor mat32.Vec3 `desc:"offset of the ball center relative to the driver node"`
}

// NewSphere returns a spherical mask with the given radius.
func NewSphere(radius float32) *Sphere {
	return &Sphere{Radius: radius}
}

func (mk *Sphere) Type() MaskType { return Spherical }
func (mk *Sphere) Dims() int      { return 3 }

func (mk *Sphere) Inside(d mat32.Vec3) bool {
	p := d.Sub(mk.Anchor)
	r := mk.Radius + boundEps(mk.Radius)
	return p.LengthSq() <= r*r
}

func (mk *Sphere) BBox() (mat32.Vec3, mat32.Vec3) {
	r := mat32.NewVec3Scalar(mk.Radius)
	return mk.Anchor.Sub(r), mk.Anchor.Add(r)
}

func (mk *Sphere) Validate() error {
	if mk.Radius <= 0 {
		return fmt.Errorf("emask.Sphere: radius must be positive: %v", mk.Radius)
	}
	return nil
}

// Ellipsoid is a 3D ellipsoidal mask with full axis lengths Major (X),
// Minor (Y) and Polar (Z) in mask-local coordinates.
type Ellipsoid struct {
	Major  float32    `min:"0" desc:"full axis length along mask-local X"`
	Minor  float32    `min:"0" desc:"full axis length along mask-local Y"`
	Polar  float32    `min:"0" desc:"full axis length along mask-local Z"`
	Anchor mat32.Vec3 `desc:"offset of the ellipsoid center relative to the driver node"`
	Rot    Rotate     `view:"inline" desc:"optional rotation about the anchor"`
}

// NewEllipsoid returns an ellipsoidal mask with the given full axis lengths.
func NewEllipsoid(major, minor, polar float32) *Ellipsoid {
	return &Ellipsoid{Major: major, Minor: minor, Polar: polar}
}

func (mk *Ellipsoid) Type() MaskType { return Ellipsoidal }
func (mk *Ellipsoid) Dims() int      { return 3 }

func (mk *Ellipsoid) Inside(d mat32.Vec3) bool {
	p := mk.Rot.ToLocal(d.Sub(mk.Anchor))
	a := mk.Major / 2
	b := mk.Minor / 2
	c := mk.Polar / 2
	return (p.X*p.X)/(a*a)+(p.Y*p.Y)/(b*b)+(p.Z*p.Z)/(c*c) <= 1+boundTol
}

func (mk *Ellipsoid) BBox() (mat32.Vec3, mat32.Vec3) {
	h := mat32.Vec3{X: mk.Major / 2, Y: mk.Minor / 2, Z: mk.Polar / 2}
	return rotBox(h.Negate(), h, &mk.Rot, mk.Anchor)
}

func (mk *Ellipsoid) Validate() error {
	if mk.Major <= 0 || mk.Minor <= 0 || mk.Polar <= 0 {
		return fmt.Errorf("emask.Ellipsoid: axes must be positive: major %v minor %v polar %v", mk.Major, mk.Minor, mk.Polar)
	}
	return nil
}
