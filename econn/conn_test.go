// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"bytes"
	"testing"

	"github.com/emer/econn/ekernel"
)

func TestConnsRoundTrip(t *testing.T) {
	nt, a, b := twoCollections(t, 4, 4)
	cs := NewConnSpec(AllToAll)
	cs.Wt = ekernel.NewUniform(0.1, 0.9)
	cns, err := nt.Connect(a, b, cs, 5)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteConns(&buf, cns); err != nil {
		t.Fatal(err)
	}
	rd, err := ReadConns(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rd) != len(cns) {
		t.Fatalf("read %v connections, want %v", len(rd), len(cns))
	}
	for i := range rd {
		if rd[i].Send != cns[i].Send || rd[i].Recv != cns[i].Recv {
			t.Errorf("row %v: got %v -> %v, want %v -> %v", i, rd[i].Send, rd[i].Recv, cns[i].Send, cns[i].Recv)
		}
		if rd[i].Wt != cns[i].Wt || rd[i].Delay != cns[i].Delay {
			t.Errorf("row %v: weight/delay must round-trip exactly: got %v %v, want %v %v",
				i, rd[i].Wt, rd[i].Delay, cns[i].Wt, cns[i].Delay)
		}
	}
}

func TestConnsTable(t *testing.T) {
	nt, a, b := twoCollections(t, 3, 3)
	cns, err := nt.Connect(a, b, NewConnSpec(OneToOne), 1)
	if err != nil {
		t.Fatal(err)
	}
	dt := Table(cns)
	if dt.Rows != len(cns) {
		t.Fatalf("table rows: got %v, want %v", dt.Rows, len(cns))
	}
	for i, cn := range cns {
		if int(dt.CellFloat("Send", i)) != cn.Send {
			t.Errorf("row %v send: got %v, want %v", i, dt.CellFloat("Send", i), cn.Send)
		}
		if float32(dt.CellFloat("Wt", i)) != cn.Wt {
			t.Errorf("row %v weight: got %v, want %v", i, dt.CellFloat("Wt", i), cn.Wt)
		}
	}
}
