// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"math"

	"github.com/emer/econn/ekernel"
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// sampler evaluates the weight and delay parameters of one connect call and
// enforces the network's numeric policy on each generated connection.
type sampler struct {
	wt       ekernel.Param
	delay    ekernel.Param
	receptor int
	syn      string
	res      float32
	wtRange  minmax.F32
}

func (nt *Network) newSampler(cs *ConnSpec) sampler {
	return sampler{wt: cs.Wt, delay: cs.Delay, receptor: cs.Receptor, syn: cs.Syn,
		res: nt.Res, wtRange: nt.WtRange}
}

// sample produces the connection record for one accepted pair.  Weight and
// delay parameters see the same driver -> pool displacement the mask and
// kernel saw.
func (s *sampler) sample(sendID, recvID int, disp mat32.Vec3, rnd erand.Rand) (Conn, error) {
	wt := 1.0
	if s.wt != nil {
		wt = s.wt.Val(disp, rnd)
	}
	dl := float64(s.res)
	if s.delay != nil {
		dl = s.delay.Val(disp, rnd)
	}
	return s.finalize(sendID, recvID, wt, dl)
}

// finalize applies the numeric policy to raw weight and delay values and
// builds the record.  Any non-finite value, out-of-range weight or
// sub-resolution delay is a fatal NumericError.
func (s *sampler) finalize(sendID, recvID int, wt, dl float64) (Conn, error) {
	cn := Conn{Send: sendID, Recv: recvID, Receptor: s.receptor, Syn: s.syn}
	if math.IsNaN(wt) || math.IsInf(wt, 0) {
		return cn, &NumericError{Send: sendID, Recv: recvID, Field: "weight",
			Value: wt, What: "not finite"}
	}
	if float32(wt) < s.wtRange.Min || float32(wt) > s.wtRange.Max {
		return cn, &NumericError{Send: sendID, Recv: recvID, Field: "weight",
			Value: wt, What: "outside the allowed weight range"}
	}
	cn.Wt = float32(wt)

	if math.IsNaN(dl) || math.IsInf(dl, 0) {
		return cn, &NumericError{Send: sendID, Recv: recvID, Field: "delay",
			Value: dl, What: "not finite"}
	}
	// round to the nearest multiple of the time resolution
	qd := mat32.Round(float32(dl)/s.res) * s.res
	if qd < s.res {
		return cn, &NumericError{Send: sendID, Recv: recvID, Field: "delay",
			Value: dl, What: "below the time resolution"}
	}
	cn.Delay = qd
	return cn, nil
}

// ConnectArrays builds connection records directly from explicit per-pair
// arrays: sendIDs[i] -> recvIDs[i] with weight wts[i] and delay dls[i].
// A nil wts means weight 1 for every pair; a nil dls means one resolution
// step.  The same numeric policy as rule-driven generation applies, with the
// same all-or-nothing error contract.
func (nt *Network) ConnectArrays(sendIDs, recvIDs []int, wts, dls []float32) ([]Conn, error) {
	n := len(sendIDs)
	if len(recvIDs) != n || (wts != nil && len(wts) != n) || (dls != nil && len(dls) != n) {
		return nil, &ConfigError{Rule: "Arrays", Node: -1,
			What: "explicit connection arrays must have equal lengths"}
	}
	s := sampler{res: nt.Res, wtRange: nt.WtRange}
	cns := make([]Conn, 0, n)
	for i := 0; i < n; i++ {
		wt := 1.0
		if wts != nil {
			wt = float64(wts[i])
		}
		dl := float64(nt.Res)
		if dls != nil {
			dl = float64(dls[i])
		}
		cn, err := s.finalize(sendIDs[i], recvIDs[i], wt, dl)
		if err != nil {
			return nil, err
		}
		cns = append(cns, cn)
	}
	return cns, nil
}
