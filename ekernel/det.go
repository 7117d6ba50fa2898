// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ekernel

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

// Constant is a fixed parameter value, independent of displacement.
type Constant struct {
	C float64 `desc:"the value"`
}

// NewConstant returns a constant parameter with the given value.
func NewConstant(c float64) *Constant { return &Constant{C: c} }

func (kn *Constant) Type() KernelType                         { return ConstantFn }
func (kn *Constant) Stochastic() bool                         { return false }
func (kn *Constant) Val(d mat32.Vec3, rnd erand.Rand) float64 { return kn.C }
func (kn *Constant) Validate() error                          { return nil }

// Linear is a * distance + c.
type Linear struct {
	A float64 `desc:"slope over distance"`
	C float64 `desc:"offset at zero distance"`
}

func NewLinear(a, c float64) *Linear { return &Linear{A: a, C: c} }

func (kn *Linear) Type() KernelType { return LinearFn }
func (kn *Linear) Stochastic() bool { return false }

func (kn *Linear) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	return kn.A*float64(d.Length()) + kn.C
}

func (kn *Linear) Validate() error { return nil }

// Exp is c + a * exp(-distance / tau).
type Exp struct {
	A   float64 `desc:"amplitude of the exponential falloff"`
	C   float64 `desc:"constant offset"`
	Tau float64 `min:"0" desc:"falloff distance constant"`
}

func NewExp(a, c, tau float64) *Exp { return &Exp{A: a, C: c, Tau: tau} }

func (kn *Exp) Type() KernelType { return ExpFn }
func (kn *Exp) Stochastic() bool { return false }

func (kn *Exp) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	return kn.C + kn.A*float64(math32.Exp(-d.Length()/float32(kn.Tau)))
}

func (kn *Exp) Validate() error {
	if kn.Tau <= 0 {
		return fmt.Errorf("ekernel.Exp: tau must be positive: %v", kn.Tau)
	}
	return nil
}

// Gaussian is c + pCenter * exp(-(distance - mean)^2 / (2 sigma^2)).
type Gaussian struct {
	PCenter float64 `desc:"peak value at distance = mean"`
	Sigma   float64 `min:"0" desc:"width of the gaussian"`
	Mean    float64 `desc:"distance of the peak from the driver"`
	C       float64 `desc:"constant offset"`
}

func NewGaussian(pCenter, sigma float64) *Gaussian {
	return &Gaussian{PCenter: pCenter, Sigma: sigma}
}

func (kn *Gaussian) Type() KernelType { return GaussianFn }
func (kn *Gaussian) Stochastic() bool { return false }

func (kn *Gaussian) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	x := float64(d.Length()) - kn.Mean
	return kn.C + kn.PCenter*float64(math32.Exp(float32(-x*x/(2*kn.Sigma*kn.Sigma))))
}

func (kn *Gaussian) Validate() error {
	if kn.Sigma <= 0 {
		return fmt.Errorf("ekernel.Gaussian: sigma must be positive: %v", kn.Sigma)
	}
	return nil
}

// Gaussian2D is the bivariate gaussian over the displacement components:
// c + pCenter * exp(-(x'^2/sx^2 + y'^2/sy^2 - 2 rho x' y' / (sx sy)) /
// (2 (1-rho^2))) with x' = dx - meanX, y' = dy - meanY.
type Gaussian2D struct {
	PCenter float64 `desc:"peak value at the mean displacement"`
	SigmaX  float64 `min:"0" desc:"width along the X displacement axis"`
	SigmaY  float64 `min:"0" desc:"width along the Y displacement axis"`
	MeanX   float64 `desc:"X displacement of the peak"`
	MeanY   float64 `desc:"Y displacement of the peak"`
	Rho     float64 `min:"-1" max:"1" desc:"correlation between the axes"`
	C       float64 `desc:"constant offset"`
}

func NewGaussian2D(pCenter, sigmaX, sigmaY float64) *Gaussian2D {
	return &Gaussian2D{PCenter: pCenter, SigmaX: sigmaX, SigmaY: sigmaY}
}

func (kn *Gaussian2D) Type() KernelType { return Gaussian2DFn }
func (kn *Gaussian2D) Stochastic() bool { return false }

func (kn *Gaussian2D) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	x := float64(d.X) - kn.MeanX
	y := float64(d.Y) - kn.MeanY
	q := x*x/(kn.SigmaX*kn.SigmaX) + y*y/(kn.SigmaY*kn.SigmaY) -
		2*kn.Rho*x*y/(kn.SigmaX*kn.SigmaY)
	return kn.C + kn.PCenter*math.Exp(-q/(2*(1-kn.Rho*kn.Rho)))
}

func (kn *Gaussian2D) Validate() error {
	if kn.SigmaX <= 0 || kn.SigmaY <= 0 {
		return fmt.Errorf("ekernel.Gaussian2D: sigmas must be positive: %v, %v", kn.SigmaX, kn.SigmaY)
	}
	if kn.Rho <= -1 || kn.Rho >= 1 {
		return fmt.Errorf("ekernel.Gaussian2D: rho must be in (-1, 1): %v", kn.Rho)
	}
	return nil
}

// Gamma is the gamma distribution density evaluated at the distance:
// d^(kappa-1) * exp(-d/theta) / (Gamma(kappa) * theta^kappa).
type Gamma struct {
	Kappa float64 `min:"0" desc:"shape parameter"`
	Theta float64 `min:"0" desc:"scale parameter"`
}

func NewGamma(kappa, theta float64) *Gamma { return &Gamma{Kappa: kappa, Theta: theta} }

func (kn *Gamma) Type() KernelType { return GammaFn }
func (kn *Gamma) Stochastic() bool { return false }

func (kn *Gamma) Val(d mat32.Vec3, rnd erand.Rand) float64 {
	x := float64(d.Length())
	return math.Pow(x, kn.Kappa-1) * math.Exp(-x/kn.Theta) /
		(math.Gamma(kn.Kappa) * math.Pow(kn.Theta, kn.Kappa))
}

func (kn *Gamma) Validate() error {
	if kn.Kappa <= 0 || kn.Theta <= 0 {
		return fmt.Errorf("ekernel.Gamma: kappa and theta must be positive: %v, %v", kn.Kappa, kn.Theta)
	}
	return nil
}
