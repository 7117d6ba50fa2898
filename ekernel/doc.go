// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ekernel provides kernel / parameter functions mapping a displacement
or distance to a connection probability or a sampled numeric value (weight,
delay) during connection generation.

Deterministic kernels (constant, linear, exponential, gaussian, gaussian2D,
gamma) are pure functions of the displacement; stochastic parameters
(uniform, normal, lognormal) draw from an explicitly supplied erand.Rand
stream so that results are reproducible for a fixed seed.  Bounded stochastic
parameters redraw until the value falls within [Min, Max] and return NaN
after a fixed number of failed redraws; consumers treat NaN as a fatal
numeric error.

When a kernel is used as a Bernoulli acceptance probability the connection
engine requires the value to lie in [0, 1] -- out-of-range values are a
configuration error, never clamped.
*/
package ekernel
