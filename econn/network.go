// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"fmt"

	"github.com/emer/econn/elayer"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// Network holds the layers taking part in connection generation and the
// network-wide generation parameters.  Add layers, configure their spatial
// metadata, call Build to assign node ids and freeze positions, then Connect.
type Network struct {
	Nm       string                   `desc:"overall name of the network"`
	Layers   []*elayer.Layer          `desc:"list of layers, in the order added"`
	LayMap   map[string]*elayer.Layer `view:"-" desc:"map of name to layer -- names must be unique"`
	Res      float32                  `def:"0.1" desc:"simulation resolution: delays are quantized to the nearest multiple of this, and must be at least this"`
	Threads  int                      `def:"1" desc:"number of goroutines to partition driver nodes across -- results are identical for any value"`
	MaxTries int                      `def:"10000" desc:"per-connection retry bound for rejection sampling in degree and total-number rules"`
	WtRange  minmax.F32               `desc:"declared valid range for sampled weights -- a sampled weight outside this range aborts the connect with a numeric policy error"`
	NextID   int                      `view:"-" desc:"next node id to assign at Build"`
}

// NewNetwork returns a new network with default generation parameters.
// Node ids start at 1.
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Defaults()
	return nt
}

func (nt *Network) Defaults() {
	nt.Res = 0.1
	nt.Threads = 1
	nt.MaxTries = 10000
	nt.WtRange.Set(-mat32.Infinity, mat32.Infinity)
	if nt.NextID == 0 {
		nt.NextID = 1
	}
}

// AddLayer adds a configured (but not yet built) layer to the network.
// The layer name must be unique.
func (nt *Network) AddLayer(ly *elayer.Layer) error {
	if nt.LayMap == nil {
		nt.LayMap = make(map[string]*elayer.Layer)
	}
	if _, dup := nt.LayMap[ly.Nm]; dup {
		return fmt.Errorf("econn.Network: %v: duplicate layer name: %v", nt.Nm, ly.Nm)
	}
	nt.Layers = append(nt.Layers, ly)
	nt.LayMap[ly.Nm] = ly
	return nil
}

// AddGrid adds a 2D (or, with a 3-element shape, 3D) grid layer with unit
// extent centered on the origin.  Configure extent / wrap / elements on the
// returned layer before calling Build.
func (nt *Network) AddGrid(name string, shape []int) *elayer.Layer {
	ly := elayer.NewGrid(name, shape)
	if err := nt.AddLayer(ly); err != nil {
		return nil
	}
	return ly
}

// AddFree adds a free spatial layer with explicit positions.
func (nt *Network) AddFree(name string, dims int, pos []mat32.Vec3) *elayer.Layer {
	ly := elayer.NewFree(name, dims, pos)
	if err := nt.AddLayer(ly); err != nil {
		return nil
	}
	return ly
}

// LayerByName returns the layer with the given name, or nil.
func (nt *Network) LayerByName(name string) *elayer.Layer {
	if nt.LayMap == nil {
		return nil
	}
	return nt.LayMap[name]
}

// Build assigns contiguous node ids across all layers in order and computes
// node positions and spatial indexes.  Layers are immutable afterwards.
func (nt *Network) Build() error {
	for _, ly := range nt.Layers {
		if ly.Built() {
			continue
		}
		if err := ly.Build(nt.NextID); err != nil {
			return err
		}
		nt.NextID += ly.NNodes()
	}
	return nil
}
