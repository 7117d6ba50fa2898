// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"github.com/emer/econn/ekernel"
	"github.com/emer/econn/emask"
	"github.com/goki/ki/kit"
)

// RuleTypes enumerates the supported connection rules.
type RuleType int

//go:generate stringer -type=RuleType

var KiT_RuleType = kit.Enums.AddEnum(RuleTypeN, kit.NotBitFlag, nil)

func (ev RuleType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *RuleType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// OneToOne pairs the sending and receiving collections elementwise --
	// requires equal sizes; mask and kernel are not applied
	OneToOne RuleType = iota

	// AllToAll connects every eligible (send, recv) pair within the mask;
	// a kernel, if present, is used as an acceptance probability
	AllToAll

	// FixedInDegree samples exactly N senders for every receiving node
	FixedInDegree

	// FixedOutDegree samples exactly N receivers for every sending node
	FixedOutDegree

	// PairwiseBernoulli visits every pair within the mask exactly once and
	// accepts independently with the kernel probability
	PairwiseBernoulli

	// FixedTotalNumber samples N pairs across the full masked cross product
	FixedTotalNumber

	RuleTypeN
)

// ConnSpec fully specifies one connect operation.  Zero-value flags default
// to the permissive policy (autapses and multapses allowed) via NewConnSpec /
// Defaults.
type ConnSpec struct {
	Rule      RuleType        `desc:"connection rule"`
	N         int             `desc:"degree for fixed in / out degree, total count for fixed total number"`
	P         ekernel.Param   `desc:"probability kernel: acceptance probability for bernoulli rules, sampling weight for degree rules -- nil means connect unconditionally (uniformly for degree rules)"`
	OnSource  bool            `desc:"evaluate mask and kernel in the source frame (driver = sending node) -- pairwise bernoulli only; default is the target frame"`
	Autapses  bool            `desc:"allow self connections (same node id on both sides)"`
	Multapses bool            `desc:"allow multiple connections between the same ordered pair"`
	Mask      emask.Mask      `desc:"geometric mask restricting eligible pool nodes, relative to each driver node -- optional"`
	GMask     *emask.GridMask `desc:"discrete grid mask -- optional, mutually exclusive with Mask"`
	Wt        ekernel.Param   `desc:"weight parameter spec -- nil means constant 1"`
	Delay     ekernel.Param   `desc:"delay parameter spec -- nil means one resolution step"`
	Receptor  int             `desc:"receptor index stamped on every connection"`
	Syn       string          `desc:"synapse model tag stamped on every connection"`
	SendModel string          `desc:"restrict sending nodes to this element model tag -- optional"`
	RecvModel string          `desc:"restrict receiving nodes to this element model tag -- optional"`
}

// NewConnSpec returns a ConnSpec for the given rule with default policy
// flags (autapses and multapses allowed).
func NewConnSpec(rule RuleType) *ConnSpec {
	cs := &ConnSpec{Rule: rule}
	cs.Defaults()
	return cs
}

func (cs *ConnSpec) Defaults() {
	cs.Autapses = true
	cs.Multapses = true
}

// Validate checks rule-independent spec consistency; the engine performs the
// layer-dependent feasibility checks at connect time.
func (cs *ConnSpec) Validate() error {
	if cs.Rule < 0 || cs.Rule >= RuleTypeN {
		return &ConfigError{Rule: "?", Node: -1, What: "unknown connection rule"}
	}
	rl := cs.Rule.String()
	if cs.Mask != nil && cs.GMask != nil {
		return &ConfigError{Rule: rl, Node: -1, What: "mask and grid mask are mutually exclusive"}
	}
	if cs.Mask != nil {
		if err := cs.Mask.Validate(); err != nil {
			return &ConfigError{Rule: rl, Node: -1, What: err.Error()}
		}
	}
	if cs.GMask != nil {
		if err := cs.GMask.Validate(); err != nil {
			return &ConfigError{Rule: rl, Node: -1, What: err.Error()}
		}
	}
	switch cs.Rule {
	case FixedInDegree, FixedOutDegree, FixedTotalNumber:
		if cs.N < 0 {
			return &ConfigError{Rule: rl, Node: -1, What: "negative connection count"}
		}
		if cs.P != nil && cs.P.Stochastic() {
			return &ConfigError{Rule: rl, Node: -1, What: "degree rules require a deterministic sampling kernel"}
		}
	case OneToOne:
		if cs.Mask != nil || cs.GMask != nil || cs.P != nil {
			return &ConfigError{Rule: rl, Node: -1, What: "one-to-one does not take a mask or kernel"}
		}
	}
	for _, pr := range []ekernel.Param{cs.P, cs.Wt, cs.Delay} {
		if pr == nil {
			continue
		}
		if err := pr.Validate(); err != nil {
			return &ConfigError{Rule: rl, Node: -1, What: err.Error()}
		}
	}
	return nil
}
