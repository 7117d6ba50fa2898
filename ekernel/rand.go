// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ekernel

import (
	"fmt"
	"math"

	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

// Uniform draws uniformly from [Min, Max], independent of displacement.
type Uniform struct {
	Min float64 `desc:"lower bound, inclusive"`
	Max float64 `desc:"upper bound, inclusive"`
}

func NewUniform(min, max float64) *Uniform { return &Uniform{Min: min, Max: max} }

func (kn *Uniform) Type() KernelType { return UniformFn }
func (kn *Uniform) Stochastic() bool { return true }

func (kn *Uniform) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	return erand.UniformMeanRange((kn.Min+kn.Max)/2, (kn.Max-kn.Min)/2, -1, rnd)
}

func (kn *Uniform) Validate() error {
	if kn.Max < kn.Min {
		return fmt.Errorf("ekernel.Uniform: max %v < min %v", kn.Max, kn.Min)
	}
	return nil
}

// Normal draws from a gaussian with Mean and Sigma, redrawing until the
// value falls within [Min, Max].  Min / Max of -+Inf disable the bounds.
type Normal struct {
	Mean  float64 `desc:"mean of the gaussian"`
	Sigma float64 `min:"0" desc:"standard deviation"`
	Min   float64 `desc:"lower bound -- redraw below this"`
	Max   float64 `desc:"upper bound -- redraw above this"`
}

func NewNormal(mean, sigma float64) *Normal {
	return &Normal{Mean: mean, Sigma: sigma, Min: math.Inf(-1), Max: math.Inf(1)}
}

func (kn *Normal) Type() KernelType { return NormalFn }
func (kn *Normal) Stochastic() bool { return true }

func (kn *Normal) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	for i := 0; i < maxRedraw; i++ {
		v := erand.GaussianGen(kn.Mean, kn.Sigma, -1, rnd)
		if v >= kn.Min && v <= kn.Max {
			return v
		}
	}
	return math.NaN()
}

func (kn *Normal) Validate() error {
	if kn.Sigma <= 0 {
		return fmt.Errorf("ekernel.Normal: sigma must be positive: %v", kn.Sigma)
	}
	if kn.Max < kn.Min {
		return fmt.Errorf("ekernel.Normal: max %v < min %v", kn.Max, kn.Min)
	}
	return nil
}

// Lognormal draws exp(gaussian(Mu, Sigma)), redrawing until the value falls
// within [Min, Max].
type Lognormal struct {
	Mu    float64 `desc:"mean of the underlying gaussian"`
	Sigma float64 `min:"0" desc:"standard deviation of the underlying gaussian"`
	Min   float64 `desc:"lower bound -- redraw below this"`
	Max   float64 `desc:"upper bound -- redraw above this"`
}

func NewLognormal(mu, sigma float64) *Lognormal {
	return &Lognormal{Mu: mu, Sigma: sigma, Min: 0, Max: math.Inf(1)}
}

func (kn *Lognormal) Type() KernelType { return LognormalFn }
func (kn *Lognormal) Stochastic() bool { return true }

func (kn *Lognormal) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	for i := 0; i < maxRedraw; i++ {
		v := math.Exp(erand.GaussianGen(kn.Mu, kn.Sigma, -1, rnd))
		if v >= kn.Min && v <= kn.Max {
			return v
		}
	}
	return math.NaN()
}

func (kn *Lognormal) Validate() error {
	if kn.Sigma <= 0 {
		return fmt.Errorf("ekernel.Lognormal: sigma must be positive: %v", kn.Sigma)
	}
	if kn.Max < kn.Min {
		return fmt.Errorf("ekernel.Lognormal: max %v < min %v", kn.Max, kn.Min)
	}
	return nil
}
