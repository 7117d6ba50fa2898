// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import "fmt"

// ConfigError reports an infeasible or inconsistent connection request,
// detected before any connections are generated: mismatched population sizes
// for one-to-one, a mask wider than the extent on a periodic axis, a grid
// mask between layers of differing spacing, a kernel probability outside
// [0, 1], or a requested degree exceeding the eligible pool under a
// no-multapse policy.
type ConfigError struct {
	Rule  string `desc:"the connection rule being applied"`
	Layer string `desc:"the layer the problem concerns, if any"`
	Node  int    `desc:"the offending node id, or -1 if not node-specific"`
	What  string `desc:"description of the violated requirement"`
}

func (e *ConfigError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("econn: %s: layer %s node %d: %s", e.Rule, e.Layer, e.Node, e.What)
	}
	if e.Layer != "" {
		return fmt.Sprintf("econn: %s: layer %s: %s", e.Rule, e.Layer, e.What)
	}
	return fmt.Sprintf("econn: %s: %s", e.Rule, e.What)
}

// ExhaustError reports that the bounded-retry search for a feasible pool
// candidate failed: after Tries draws, the requested number of connections
// for the named driver node could not be satisfied.
type ExhaustError struct {
	Rule  string `desc:"the connection rule being applied"`
	Layer string `desc:"the driver layer"`
	Node  int    `desc:"id of the driver node whose draws were exhausted"`
	Tries int    `desc:"number of draws attempted"`
}

func (e *ExhaustError) Error() string {
	return fmt.Sprintf("econn: %s: layer %s node %d: sampling exhausted after %d draws", e.Rule, e.Layer, e.Node, e.Tries)
}

// NumericError reports a sampled weight or delay violating the declared
// numeric policy (non-finite value, delay below the simulation resolution,
// or weight outside the configured range).  The whole connect request is
// aborted; no records are emitted.
type NumericError struct {
	Send  int     `desc:"sending node id of the offending pair"`
	Recv  int     `desc:"receiving node id of the offending pair"`
	Field string  `desc:"which parameter: weight or delay"`
	Value float64 `desc:"the offending value"`
	What  string  `desc:"description of the violated policy"`
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("econn: %d -> %d: %s %g: %s", e.Send, e.Recv, e.Field, e.Value, e.What)
}
