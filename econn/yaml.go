// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"bytes"
	"fmt"
	"os"

	"github.com/emer/econn/ekernel"
	"github.com/emer/econn/emask"
	"github.com/emer/emergent/evec"
	"github.com/goki/mat32"
	"gopkg.in/yaml.v3"
)

// ParseConnSpec decodes a dictionary-style connection spec from YAML into a
// typed ConnSpec.  Decoding is strict: unknown keys anywhere in the document
// are an error.  The result is validated before it is returned.
func ParseConnSpec(data []byte) (*ConnSpec, error) {
	var cy connYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cy); err != nil {
		return nil, fmt.Errorf("conn spec: %v", err)
	}
	cs, err := cy.spec()
	if err != nil {
		return nil, err
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

// OpenConnSpec reads and decodes a YAML connection spec file.
func OpenConnSpec(filename string) (*ConnSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConnSpec(data)
}

// connYAML is the wire form of a connection spec.
type connYAML struct {
	Rule           string     `yaml:"rule"`
	N              int        `yaml:"n"`
	P              *paramYAML `yaml:"p"`
	AllowAutapses  *bool      `yaml:"allow_autapses"`
	AllowMultapses *bool      `yaml:"allow_multapses"`
	Mask           *maskYAML  `yaml:"mask"`
	Weight         *paramYAML `yaml:"weight"`
	Delay          *paramYAML `yaml:"delay"`
	Receptor       int        `yaml:"receptor"`
	SynModel       string     `yaml:"synapse_model"`
	SendModel      string     `yaml:"send_model"`
	RecvModel      string     `yaml:"recv_model"`
}

var ruleNames = map[string]struct {
	rule     RuleType
	onSource bool
}{
	"one_to_one":                  {OneToOne, false},
	"all_to_all":                  {AllToAll, false},
	"fixed_indegree":              {FixedInDegree, false},
	"fixed_outdegree":             {FixedOutDegree, false},
	"pairwise_bernoulli":          {PairwiseBernoulli, false},
	"pairwise_bernoulli_on_source": {PairwiseBernoulli, true},
	"fixed_total_number":          {FixedTotalNumber, false},
}

func (cy *connYAML) spec() (*ConnSpec, error) {
	rn, ok := ruleNames[cy.Rule]
	if !ok {
		return nil, fmt.Errorf("conn spec: unknown rule %q", cy.Rule)
	}
	cs := NewConnSpec(rn.rule)
	cs.OnSource = rn.onSource
	cs.N = cy.N
	cs.Receptor = cy.Receptor
	cs.Syn = cy.SynModel
	cs.SendModel = cy.SendModel
	cs.RecvModel = cy.RecvModel
	if cy.AllowAutapses != nil {
		cs.Autapses = *cy.AllowAutapses
	}
	if cy.AllowMultapses != nil {
		cs.Multapses = *cy.AllowMultapses
	}
	if cy.P != nil {
		cs.P = cy.P.param
	}
	if cy.Weight != nil {
		cs.Wt = cy.Weight.param
	}
	if cy.Delay != nil {
		cs.Delay = cy.Delay.param
	}
	if cy.Mask != nil {
		cs.Mask = cy.Mask.mask
		cs.GMask = cy.Mask.gmask
	}
	return cs, nil
}

// paramYAML accepts either a bare number (constant) or a single-key map
// naming the kernel function, e.g. gaussian: {p_center: 1, sigma: 0.25}.
type paramYAML struct {
	param ekernel.Param
}

func (py *paramYAML) UnmarshalYAML(nd *yaml.Node) error {
	if nd.Kind == yaml.ScalarNode {
		var v float64
		if err := nd.Decode(&v); err != nil {
			return fmt.Errorf("parameter: %v", err)
		}
		py.param = ekernel.NewConstant(v)
		return nil
	}
	name, body, err := singleKey(nd, "parameter")
	if err != nil {
		return err
	}
	fs, err := floatFields(body, "parameter "+name)
	if err != nil {
		return err
	}
	py.param, err = buildParam(name, fs)
	return err
}

func buildParam(name string, fs *fields) (ekernel.Param, error) {
	var kn ekernel.Param
	switch name {
	case "constant":
		kn = ekernel.NewConstant(fs.get("value", 0))
	case "linear":
		kn = ekernel.NewLinear(fs.get("a", 1), fs.get("c", 0))
	case "exponential":
		kn = ekernel.NewExp(fs.get("a", 1), fs.get("c", 0), fs.get("tau", 1))
	case "gaussian":
		g := ekernel.NewGaussian(fs.get("p_center", 1), fs.get("sigma", 1))
		g.Mean = fs.get("mean", 0)
		g.C = fs.get("c", 0)
		kn = g
	case "gaussian2d":
		g := ekernel.NewGaussian2D(fs.get("p_center", 1), fs.get("sigma_x", 1), fs.get("sigma_y", 1))
		g.MeanX = fs.get("mean_x", 0)
		g.MeanY = fs.get("mean_y", 0)
		g.Rho = fs.get("rho", 0)
		g.C = fs.get("c", 0)
		kn = g
	case "gamma":
		kn = ekernel.NewGamma(fs.get("kappa", 1), fs.get("theta", 1))
	case "uniform":
		kn = ekernel.NewUniform(fs.get("min", 0), fs.get("max", 1))
	case "normal":
		n := ekernel.NewNormal(fs.get("mean", 0), fs.get("sigma", 1))
		if fs.has("min") {
			n.Min = fs.get("min", 0)
		}
		if fs.has("max") {
			n.Max = fs.get("max", 0)
		}
		kn = n
	case "lognormal":
		l := ekernel.NewLognormal(fs.get("mean", 0), fs.get("sigma", 1))
		if fs.has("min") {
			l.Min = fs.get("min", 0)
		}
		if fs.has("max") {
			l.Max = fs.get("max", 0)
		}
		kn = l
	default:
		return nil, fmt.Errorf("parameter: unknown function %q", name)
	}
	if err := fs.unused(); err != nil {
		return nil, err
	}
	return kn, nil
}

// maskYAML accepts a map with one shape key plus optional anchor, azimuth and
// polar keys that apply to the shape.
type maskYAML struct {
	mask  emask.Mask
	gmask *emask.GridMask
}

func (my *maskYAML) UnmarshalYAML(nd *yaml.Node) error {
	if nd.Kind != yaml.MappingNode {
		return fmt.Errorf("mask: expected a mapping")
	}
	var shapeName string
	var shape *yaml.Node
	var anchor []float32
	var ganchor []int
	rot := emask.Rotate{}
	for i := 0; i < len(nd.Content); i += 2 {
		key := nd.Content[i].Value
		val := nd.Content[i+1]
		switch key {
		case "anchor":
			if err := val.Decode(&anchor); err != nil {
				return fmt.Errorf("mask anchor: %v", err)
			}
		case "azimuth":
			if err := val.Decode(&rot.Azimuth); err != nil {
				return fmt.Errorf("mask azimuth: %v", err)
			}
		case "polar":
			if err := val.Decode(&rot.Polar); err != nil {
				return fmt.Errorf("mask polar: %v", err)
			}
		default:
			if shapeName != "" {
				return fmt.Errorf("mask: multiple shapes %q and %q", shapeName, key)
			}
			shapeName = key
			shape = val
		}
	}
	if shapeName == "" {
		return fmt.Errorf("mask: no shape given")
	}
	if shapeName == "grid" {
		fs, err := floatFields(shape, "mask grid")
		if err != nil {
			return err
		}
		gm := emask.NewGridMask(int(fs.get("rows", 1)), int(fs.get("cols", 1)))
		if err := fs.unused(); err != nil {
			return err
		}
		if anchor != nil {
			if len(anchor) != 2 {
				return fmt.Errorf("mask grid: anchor must be [col, row]")
			}
			ganchor = []int{int(anchor[0]), int(anchor[1])}
			gm.Anchor = evec.Vec2i{X: ganchor[0], Y: ganchor[1]}
		}
		if rot != (emask.Rotate{}) {
			return fmt.Errorf("mask grid: rotation not supported")
		}
		my.gmask = gm
		return nil
	}
	mk, err := buildMask(shapeName, shape)
	if err != nil {
		return err
	}
	av := mat32.Vec3{}
	switch len(anchor) {
	case 0:
	case 2:
		av = mat32.Vec3{X: anchor[0], Y: anchor[1]}
	case 3:
		av = mat32.Vec3{X: anchor[0], Y: anchor[1], Z: anchor[2]}
	default:
		return fmt.Errorf("mask anchor: need 2 or 3 components")
	}
	setMaskFrame(mk, av, rot)
	my.mask = mk
	return nil
}

func buildMask(name string, nd *yaml.Node) (emask.Mask, error) {
	switch name {
	case "rectangular", "box":
		var corners struct {
			LL []float32 `yaml:"lower_left"`
			UR []float32 `yaml:"upper_right"`
		}
		if err := nd.Decode(&corners); err != nil {
			return nil, fmt.Errorf("mask %s: %v", name, err)
		}
		want := 2
		if name == "box" {
			want = 3
		}
		if len(corners.LL) != want || len(corners.UR) != want {
			return nil, fmt.Errorf("mask %s: corners need %d components", name, want)
		}
		if name == "box" {
			return emask.NewBox(
				mat32.Vec3{X: corners.LL[0], Y: corners.LL[1], Z: corners.LL[2]},
				mat32.Vec3{X: corners.UR[0], Y: corners.UR[1], Z: corners.UR[2]}), nil
		}
		return emask.NewRect(
			mat32.Vec2{X: corners.LL[0], Y: corners.LL[1]},
			mat32.Vec2{X: corners.UR[0], Y: corners.UR[1]}), nil
	}
	fs, err := floatFields(nd, "mask "+name)
	if err != nil {
		return nil, err
	}
	var mk emask.Mask
	switch name {
	case "circular":
		mk = emask.NewCircle(float32(fs.get("radius", 0)))
	case "doughnut":
		mk = emask.NewDoughnut(float32(fs.get("inner_radius", 0)), float32(fs.get("outer_radius", 0)))
	case "elliptical":
		mk = emask.NewEllipse(float32(fs.get("major_axis", 0)), float32(fs.get("minor_axis", 0)))
	case "spherical":
		mk = emask.NewSphere(float32(fs.get("radius", 0)))
	case "ellipsoidal":
		mk = emask.NewEllipsoid(float32(fs.get("major_axis", 0)), float32(fs.get("minor_axis", 0)),
			float32(fs.get("polar_axis", 0)))
	default:
		return nil, fmt.Errorf("mask: unknown shape %q", name)
	}
	if err := fs.unused(); err != nil {
		return nil, err
	}
	return mk, nil
}

func setMaskFrame(mk emask.Mask, anchor mat32.Vec3, rot emask.Rotate) {
	switch m := mk.(type) {
	case *emask.Rect:
		m.Anchor, m.Rot = anchor, rot
	case *emask.Circle:
		m.Anchor = anchor
	case *emask.DoughnutMask:
		m.Anchor = anchor
	case *emask.Ellipse:
		m.Anchor, m.Rot = anchor, rot
	case *emask.BoxMask:
		m.Anchor, m.Rot = anchor, rot
	case *emask.Sphere:
		m.Anchor = anchor
	case *emask.Ellipsoid:
		m.Anchor, m.Rot = anchor, rot
	}
}

// singleKey unwraps a mapping that must have exactly one entry, returning the
// key name and its value node.
func singleKey(nd *yaml.Node, ctx string) (string, *yaml.Node, error) {
	if nd.Kind != yaml.MappingNode || len(nd.Content) != 2 {
		return "", nil, fmt.Errorf("%s: expected a mapping with a single key", ctx)
	}
	return nd.Content[0].Value, nd.Content[1], nil
}

// fields is a decoded numeric mapping with per-key use tracking, so a typo in
// a spec is caught instead of silently defaulted.
type fields struct {
	ctx  string
	vals map[string]float64
	used map[string]bool
}

func floatFields(nd *yaml.Node, ctx string) (*fields, error) {
	fs := &fields{ctx: ctx, vals: map[string]float64{}, used: map[string]bool{}}
	if nd == nil || (nd.Kind == yaml.ScalarNode && nd.Value == "") {
		return fs, nil
	}
	if err := nd.Decode(&fs.vals); err != nil {
		return nil, fmt.Errorf("%s: %v", ctx, err)
	}
	return fs, nil
}

func (fs *fields) get(key string, def float64) float64 {
	fs.used[key] = true
	if v, ok := fs.vals[key]; ok {
		return v
	}
	return def
}

func (fs *fields) has(key string) bool {
	fs.used[key] = true
	_, ok := fs.vals[key]
	return ok
}

func (fs *fields) unused() error {
	for k := range fs.vals {
		if !fs.used[k] {
			return fmt.Errorf("%s: unknown key %q", fs.ctx, k)
		}
	}
	return nil
}
