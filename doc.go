// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package econn is the overall repository for spatial connection generation
between layered populations of spatially-positioned nodes, implemented in the
Go language (golang).

Given two populations with spatial metadata, a connection rule, an optional
geometric mask and probability kernel, and per-connection weight / delay
parameter specifications, it deterministically enumerates the (send, recv)
pairs to connect and samples the parameters for each resulting connection,
respecting periodic boundary conditions and autapse / multapse policy.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* elayer: populations (layers) of nodes with spatial metadata -- grid layers
with analytically-determined positions, free layers with explicit positions,
the spatial index used for candidate search, and the plain-text node dump
format.

* emask: geometric masks (rectangles, circles, doughnuts, ellipses, and their
3D equivalents) with anchor offsets and rotation, used to restrict which pool
nodes are eligible partners for each driver node, plus the discrete grid mask.

* ekernel: kernel / parameter functions mapping a displacement or distance to
a connection probability or a sampled numeric value (weight, delay), covering
both deterministic spatial profiles and random distributions.

* econn: the connection rule engine (one-to-one, all-to-all, fixed in / out
degree, pairwise bernoulli, fixed total number), the per-connection parameter
sampler, connection records and their text / table exports, and the YAML
specification boundary.

* examples: compile into runnable programs; examples/bench benchmarks
connection generation at different layer sizes and thread counts.
*/
package econn
