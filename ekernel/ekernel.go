// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ekernel

import (
	"github.com/emer/emergent/erand"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// Param is a kernel / parameter function evaluated per candidate pair.
// Implementations are immutable once constructed.
type Param interface {
	Type() KernelType

	// Val returns the kernel value for the given driver -> pool displacement.
	// Stochastic parameters draw from rnd (which must be non-nil for them);
	// deterministic kernels ignore it.  A NaN return signals a failed bounded
	// draw and must be treated as fatal by the consumer.
	Val(d mat32.Vec3, rnd erand.Rand) float64

	// Stochastic returns true if Val draws from the random stream.
	Stochastic() bool

	// Validate checks the function parameters.
	Validate() error
}

// KernelTypes enumerates the closed set of kernel / parameter functions.
type KernelType int

//go:generate stringer -type=KernelType

var KiT_KernelType = kit.Enums.AddEnum(KernelTypeN, kit.NotBitFlag, nil)

func (ev KernelType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *KernelType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ConstantFn is a fixed value, independent of displacement
	ConstantFn KernelType = iota

	// LinearFn is a * distance + c
	LinearFn

	// ExpFn is c + a * exp(-distance / tau)
	ExpFn

	// GaussianFn is c + pCenter * exp(-(distance-mean)^2 / (2 sigma^2))
	GaussianFn

	// Gaussian2DFn is the bivariate gaussian over the displacement components
	Gaussian2DFn

	// GammaFn is the gamma distribution density evaluated at the distance
	GammaFn

	// UniformFn draws uniformly from [min, max]
	UniformFn

	// NormalFn draws from a gaussian with mean and sigma, redrawn into [min, max]
	NormalFn

	// LognormalFn draws exp(gaussian(mu, sigma)), redrawn into [min, max]
	LognormalFn

	KernelTypeN
)

// Spatial returns true for kernels whose value depends on the driver -> pool
// displacement.  Constants and the pure random distributions ignore it.
func (ev KernelType) Spatial() bool {
	switch ev {
	case LinearFn, ExpFn, GaussianFn, Gaussian2DFn, GammaFn:
		return true
	}
	return false
}

// maxRedraw is the retry bound for drawing a bounded stochastic value before
// Val gives up and returns NaN.
const maxRedraw = 10000
