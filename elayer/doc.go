// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package elayer provides spatially-embedded populations of nodes (layers),
which are the inputs to connection generation.

A Layer is an ordered collection of nodes with strictly ascending, unique
ids.  A layer with spatial metadata places every node at a fixed position in
2D or 3D space, either on a regular grid (positions are a deterministic
function of the grid coordinates, spacing = extent / shape) or freely (caller
supplies explicit positions).  Composite layers place multiple typed element
nodes at each grid position.

Positions are immutable once Build has been called.  Candidate search over a
layer goes through the layer's spatial index: an analytic index-range
computation for grid layers, and a k-d tree (or a linear scan for layers with
periodic boundaries) for free layers.  Displacements between positions are
minimized across periodic boundaries on any axis with edge wrap enabled.
*/
package elayer
