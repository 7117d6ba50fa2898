// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emask

import (
	"fmt"

	"github.com/goki/mat32"
)

// Rect is a 2D rectangular mask specified by its lower-left and upper-right
// corners in mask-local coordinates, inclusive on all edges.
type Rect struct {
	LL     mat32.Vec2 `desc:"lower-left corner, mask-local coordinates"`
	UR     mat32.Vec2 `desc:"upper-right corner, mask-local coordinates"`
	Anchor mat32.Vec3 `desc:"offset of the mask center relative to the driver node"`
	Rot    Rotate     `view:"inline" desc:"optional rotation about the anchor"`
}

// NewRect returns a rectangular mask with the given corners.
func NewRect(ll, ur mat32.Vec2) *Rect {
	return &Rect{LL: ll, UR: ur}
}

func (mk *Rect) Type() MaskType { return Rectangular }
func (mk *Rect) Dims() int      { return 2 }

func (mk *Rect) Inside(d mat32.Vec3) bool {
	p := mk.Rot.ToLocal(d.Sub(mk.Anchor))
	return p.X >= mk.LL.X-boundEps(mk.LL.X) && p.X <= mk.UR.X+boundEps(mk.UR.X) &&
		p.Y >= mk.LL.Y-boundEps(mk.LL.Y) && p.Y <= mk.UR.Y+boundEps(mk.UR.Y)
}

func (mk *Rect) BBox() (mat32.Vec3, mat32.Vec3) {
	return rotBox(mat32.Vec3{X: mk.LL.X, Y: mk.LL.Y, Z: 0}, mat32.Vec3{X: mk.UR.X, Y: mk.UR.Y, Z: 0}, &mk.Rot, mk.Anchor)
}

func (mk *Rect) Validate() error {
	if mk.UR.X < mk.LL.X || mk.UR.Y < mk.LL.Y {
		return fmt.Errorf("emask.Rect: upper-right %v below lower-left %v", mk.UR, mk.LL)
	}
	return nil
}

// Circle is a 2D disc mask: displacement length <= Radius.
type Circle struct {
	Radius float32    `min:"0" desc:"disc radius"`
	Anchor mat32.Vec3 `desc:"offset of the disc center relative to the driver node"`
}

// NewCircle returns a circular mask with the given radius.
func NewCircle(radius float32) *Circle {
	return &Circle{Radius: radius}
}

func (mk *Circle) Type() MaskType { return Circular }
func (mk *Circle) Dims() int      { return 2 }

func (mk *Circle) Inside(d mat32.Vec3) bool {
	p := d.Sub(mk.Anchor)
	r := mk.Radius + boundEps(mk.Radius)
	return p.LengthSq() <= r*r
}

func (mk *Circle) BBox() (mat32.Vec3, mat32.Vec3) {
	r := mat32.Vec3{X: mk.Radius, Y: mk.Radius, Z: 0}
	return mk.Anchor.Sub(r), mk.Anchor.Add(r)
}

func (mk *Circle) Validate() error {
	if mk.Radius <= 0 {
		return fmt.Errorf("emask.Circle: radius must be positive: %v", mk.Radius)
	}
	return nil
}

// DoughnutMask is a 2D annulus: inner radius strictly excluded, outer radius
// included (inner^2 < d^2 <= outer^2).
type DoughnutMask struct {
	Inner  float32    `min:"0" desc:"inner radius, excluded"`
	Outer  float32    `min:"0" desc:"outer radius, included"`
	Anchor mat32.Vec3 `desc:"offset of the annulus center relative to the driver node"`
}

// NewDoughnut returns a doughnut mask with the given inner and outer radii.
func NewDoughnut(inner, outer float32) *DoughnutMask {
	return &DoughnutMask{Inner: inner, Outer: outer}
}

func (mk *DoughnutMask) Type() MaskType { return Doughnut }
func (mk *DoughnutMask) Dims() int      { return 2 }

func (mk *DoughnutMask) Inside(d mat32.Vec3) bool {
	d2 := d.Sub(mk.Anchor).LengthSq()
	// inner bound stays exact: it is exclusive, not inclusive
	ro := mk.Outer + boundEps(mk.Outer)
	return d2 > mk.Inner*mk.Inner && d2 <= ro*ro
}

func (mk *DoughnutMask) BBox() (mat32.Vec3, mat32.Vec3) {
	r := mat32.Vec3{X: mk.Outer, Y: mk.Outer, Z: 0}
	return mk.Anchor.Sub(r), mk.Anchor.Add(r)
}

func (mk *DoughnutMask) Validate() error {
	if mk.Inner < 0 || mk.Outer <= mk.Inner {
		return fmt.Errorf("emask.Doughnut: need 0 <= inner < outer, got inner %v outer %v", mk.Inner, mk.Outer)
	}
	return nil
}

// Ellipse is a 2D elliptical mask with full axis lengths Major (along the
// mask-local X axis) and Minor (Y): the normalized quadratic form <= 1.
type Ellipse struct {
	Major  float32    `min:"0" desc:"full major axis length, along mask-local X"`
	Minor  float32    `min:"0" desc:"full minor axis length, along mask-local Y"`
	Anchor mat32.Vec3 `desc:"offset of the ellipse center relative to the driver node"`
	Rot    Rotate     `view:"inline" desc:"optional rotation about the anchor"`
}

// NewEllipse returns an elliptical mask with the given full axis lengths.
func NewEllipse(major, minor float32) *Ellipse {
	return &Ellipse{Major: major, Minor: minor}
}

func (mk *Ellipse) Type() MaskType { return Elliptical }
func (mk *Ellipse) Dims() int      { return 2 }

func (mk *Ellipse) Inside(d mat32.Vec3) bool {
	p := mk.Rot.ToLocal(d.Sub(mk.Anchor))
	a := mk.Major / 2
	b := mk.Minor / 2
	return (p.X*p.X)/(a*a)+(p.Y*p.Y)/(b*b) <= 1+boundTol
}

func (mk *Ellipse) BBox() (mat32.Vec3, mat32.Vec3) {
	a := mk.Major / 2
	b := mk.Minor / 2
	return rotBox(mat32.Vec3{X: -a, Y: -b, Z: 0}, mat32.Vec3{X: a, Y: b, Z: 0}, &mk.Rot, mk.Anchor)
}

func (mk *Ellipse) Validate() error {
	if mk.Major <= 0 || mk.Minor <= 0 {
		return fmt.Errorf("emask.Ellipse: axes must be positive: major %v minor %v", mk.Major, mk.Minor)
	}
	return nil
}
