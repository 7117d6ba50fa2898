// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package econn

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Conn is one generated connection.  Records are immutable; ownership passes
// to the caller for materialization into its connection infrastructure.
type Conn struct {
	Send     int     `desc:"sending (source) node id"`
	Recv     int     `desc:"receiving (target) node id"`
	Wt       float32 `desc:"connection weight"`
	Delay    float32 `desc:"connection delay, a positive multiple of the simulation resolution"`
	Receptor int     `desc:"receptor index on the receiving node"`
	Syn      string  `desc:"synapse model tag"`
}

// WriteConns writes one row per connection: send recv weight delay,
// whitespace separated, no header.  Weights and delays use the shortest
// float32 form so the file reads back exactly.
func WriteConns(w io.Writer, cns []Conn) error {
	bw := bufio.NewWriter(w)
	for _, cn := range cns {
		fmt.Fprintf(bw, "%d %d %s %s\n", cn.Send, cn.Recv, ftos(cn.Wt), ftos(cn.Delay))
	}
	return bw.Flush()
}

// SaveConns writes the connection dump to the given file.
func SaveConns(filename string, cns []Conn) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	return WriteConns(fp, cns)
}

// ReadConns reads a connection dump (send recv weight delay rows).
// Receptor and synapse tags are not part of the dump format and are left zero.
func ReadConns(r io.Reader) ([]Conn, error) {
	var cns []Conn
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		fs := strings.Fields(sc.Text())
		if len(fs) == 0 {
			continue
		}
		if len(fs) != 4 {
			return nil, fmt.Errorf("econn.ReadConns: line %d: expected 4 fields, got %d", ln, len(fs))
		}
		sid, err := strconv.Atoi(fs[0])
		if err != nil {
			return nil, fmt.Errorf("econn.ReadConns: line %d: %v", ln, err)
		}
		rid, err := strconv.Atoi(fs[1])
		if err != nil {
			return nil, fmt.Errorf("econn.ReadConns: line %d: %v", ln, err)
		}
		wt, err := strconv.ParseFloat(fs[2], 32)
		if err != nil {
			return nil, fmt.Errorf("econn.ReadConns: line %d: %v", ln, err)
		}
		dl, err := strconv.ParseFloat(fs[3], 32)
		if err != nil {
			return nil, fmt.Errorf("econn.ReadConns: line %d: %v", ln, err)
		}
		cns = append(cns, Conn{Send: sid, Recv: rid, Wt: float32(wt), Delay: float32(dl)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cns, nil
}

// Table returns the connections as an etable.Table with Send, Recv, Wt,
// Delay, Receptor and Syn columns, for analysis and logging.
func Table(cns []Conn) *etable.Table {
	sch := etable.Schema{
		{Name: "Send", Type: etensor.INT64},
		{Name: "Recv", Type: etensor.INT64},
		{Name: "Wt", Type: etensor.FLOAT32},
		{Name: "Delay", Type: etensor.FLOAT32},
		{Name: "Receptor", Type: etensor.INT64},
		{Name: "Syn", Type: etensor.STRING},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, len(cns))
	for i, cn := range cns {
		dt.SetCellFloat("Send", i, float64(cn.Send))
		dt.SetCellFloat("Recv", i, float64(cn.Recv))
		dt.SetCellFloat("Wt", i, float64(cn.Wt))
		dt.SetCellFloat("Delay", i, float64(cn.Delay))
		dt.SetCellFloat("Receptor", i, float64(cn.Receptor))
		dt.SetCellString("Syn", i, cn.Syn)
	}
	return dt
}

func ftos(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
