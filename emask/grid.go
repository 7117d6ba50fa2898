// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emask

import (
	"fmt"

	"github.com/emer/emergent/evec"
)

// GridMask selects pool nodes by integer grid offsets rather than physical
// coordinates: a block of Rows x Cols grid cells whose top-left cell sits at
// the driver's cell minus the Anchor offset.  With the default zero anchor
// the driver's cell is the top-left cell of the block.  Only legal when the
// driver and pool layers are grid layers with identical spacing; the
// connection engine checks this before generation.
type GridMask struct {
	Rows   int        `min:"1" desc:"number of grid rows covered"`
	Cols   int        `min:"1" desc:"number of grid columns covered"`
	Anchor evec.Vec2i `desc:"discrete (col, row) anchor: offset of the driver's cell within the covered block"`
}

// NewGridMask returns a grid mask covering rows x cols cells.
func NewGridMask(rows, cols int) *GridMask {
	return &GridMask{Rows: rows, Cols: cols}
}

func (mk *GridMask) Type() MaskType { return Grid }

// InsideRC returns true if the pool cell (row, col) falls within the block
// for a driver at cell (drow, dcol).  Offsets are raw grid deltas; the engine
// applies periodic wrapping before calling this.
func (mk *GridMask) InsideRC(drow, dcol, row, col int) bool {
	r := row - (drow - mk.Anchor.Y)
	c := col - (dcol - mk.Anchor.X)
	return r >= 0 && r < mk.Rows && c >= 0 && c < mk.Cols
}

func (mk *GridMask) Validate() error {
	if mk.Rows <= 0 || mk.Cols <= 0 {
		return fmt.Errorf("emask.GridMask: rows and cols must be positive: %v x %v", mk.Rows, mk.Cols)
	}
	return nil
}
