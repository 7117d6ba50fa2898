// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"strings"
	"testing"

	"github.com/emer/econn/ekernel"
	"github.com/emer/econn/emask"
)

func TestParseConnSpecBasic(t *testing.T) {
	cs, err := ParseConnSpec([]byte(`
rule: fixed_indegree
n: 10
mask:
  circular: {radius: 0.25}
weight:
  uniform: {min: 0.5, max: 1.5}
delay: 1.0
allow_autapses: false
`))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Rule != FixedInDegree || cs.N != 10 {
		t.Errorf("rule/n: got %v %v", cs.Rule, cs.N)
	}
	if cs.Autapses || !cs.Multapses {
		t.Errorf("policies: got autapses %v multapses %v", cs.Autapses, cs.Multapses)
	}
	ck, ok := cs.Mask.(*emask.Circle)
	if !ok || ck.Radius != 0.25 {
		t.Errorf("mask: got %#v", cs.Mask)
	}
	un, ok := cs.Wt.(*ekernel.Uniform)
	if !ok || un.Min != 0.5 || un.Max != 1.5 {
		t.Errorf("weight: got %#v", cs.Wt)
	}
	dl, ok := cs.Delay.(*ekernel.Constant)
	if !ok || dl.C != 1.0 {
		t.Errorf("delay: got %#v", cs.Delay)
	}
}

func TestParseConnSpecKernelAndRotation(t *testing.T) {
	cs, err := ParseConnSpec([]byte(`
rule: pairwise_bernoulli_on_source
p:
  gaussian: {p_center: 1.0, sigma: 0.2, mean: 0.1}
mask:
  elliptical: {major_axis: 0.8, minor_axis: 0.4}
  anchor: [0.1, 0.0]
  azimuth: 30
`))
	if err != nil {
		t.Fatal(err)
	}
	if cs.Rule != PairwiseBernoulli || !cs.OnSource {
		t.Errorf("rule: got %v on-source %v", cs.Rule, cs.OnSource)
	}
	g, ok := cs.P.(*ekernel.Gaussian)
	if !ok || g.PCenter != 1 || g.Sigma != 0.2 || g.Mean != 0.1 || g.C != 0 {
		t.Errorf("kernel: got %#v", cs.P)
	}
	el, ok := cs.Mask.(*emask.Ellipse)
	if !ok || el.Major != 0.8 || el.Minor != 0.4 {
		t.Fatalf("mask: got %#v", cs.Mask)
	}
	if el.Anchor.X != 0.1 || el.Rot.Azimuth != 30 {
		t.Errorf("mask frame: anchor %v azimuth %v", el.Anchor, el.Rot.Azimuth)
	}
}

func TestParseConnSpecGridMask(t *testing.T) {
	cs, err := ParseConnSpec([]byte(`
rule: all_to_all
mask:
  grid: {rows: 3, cols: 5}
  anchor: [2, 1]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cs.GMask == nil || cs.Mask != nil {
		t.Fatalf("grid mask: got gmask %#v mask %#v", cs.GMask, cs.Mask)
	}
	if cs.GMask.Rows != 3 || cs.GMask.Cols != 5 {
		t.Errorf("grid mask size: got %v x %v", cs.GMask.Rows, cs.GMask.Cols)
	}
	if cs.GMask.Anchor.X != 2 || cs.GMask.Anchor.Y != 1 {
		t.Errorf("grid mask anchor: got %v", cs.GMask.Anchor)
	}
}

func TestParseConnSpecUnknownKeys(t *testing.T) {
	bad := []string{
		"rule: all_to_all\nbogus: 1\n",
		"rule: fixed_indegree\nn: 3\nweight:\n  uniform: {min: 0, max: 1, bogus: 2}\n",
		"rule: all_to_all\nmask:\n  circular: {radius: 0.2, bogus: 1}\n",
		"rule: all_to_all\nmask:\n  circular: {radius: 0.2}\n  doughnut: {inner_radius: 0.1, outer_radius: 0.3}\n",
		"rule: bogus_rule\n",
		"rule: all_to_all\np:\n  bogus: {a: 1}\n",
	}
	for _, doc := range bad {
		cs, err := ParseConnSpec([]byte(doc))
		if err == nil {
			t.Errorf("spec %q must be rejected, got %#v", strings.SplitN(doc, "\n", 2)[1], cs)
		}
	}
}

func TestParseConnSpecInvalid(t *testing.T) {
	// well-formed YAML failing semantic validation
	_, err := ParseConnSpec([]byte("rule: fixed_indegree\nn: 3\np:\n  uniform: {min: 0, max: 1}\n"))
	if err == nil {
		t.Errorf("stochastic kernel on a degree rule must be rejected")
	}
	_, err = ParseConnSpec([]byte("rule: all_to_all\nmask:\n  circular: {radius: -1}\n"))
	if err == nil {
		t.Errorf("negative radius must be rejected")
	}
}
