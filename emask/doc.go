// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package emask provides geometric masks restricting which pool nodes are
eligible partners for a driver node during connection generation.

A mask is evaluated on the displacement from the driver to a pool node (after
anchor offset and periodic wrap minimization), and exposes an axis-aligned
bounding box used to prune the pool layer's spatial index.  Masks may be
rotated: azimuth degrees about the out-of-plane Z axis first, then polar
degrees about the resulting X axis (3D only); the displacement is rotated
into mask-local coordinates before the closed-form shape test.

The discrete Grid mask is evaluated purely on integer (row, col) offsets
between grid coordinates, ignoring physical positions; it is only legal
between grid layers with identical spacing.
*/
package emask
