// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elayer

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/goki/mat32"
)

// WriteNodes writes one row per node: id x y [z], whitespace separated, no
// header.  Coordinates use the shortest float32 form, so reading the file
// back reproduces the positions exactly.
func (ly *Layer) WriteNodes(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, id := range ly.Ids {
		p := ly.Pos[i]
		if ly.Dims == 3 {
			fmt.Fprintf(bw, "%d %s %s %s\n", id, ftos(p.X), ftos(p.Y), ftos(p.Z))
		} else {
			fmt.Fprintf(bw, "%d %s %s\n", id, ftos(p.X), ftos(p.Y))
		}
	}
	return bw.Flush()
}

// SaveNodes writes the node dump to the given file.
func (ly *Layer) SaveNodes(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	return ly.WriteNodes(fp)
}

// ReadNodes reads a node dump (id x y [z] rows) and returns the ids and
// positions.  2D rows get Z = 0.
func ReadNodes(r io.Reader) (ids []int, pos []mat32.Vec3, err error) {
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		fs := strings.Fields(sc.Text())
		if len(fs) == 0 {
			continue
		}
		if len(fs) != 3 && len(fs) != 4 {
			return nil, nil, fmt.Errorf("elayer.ReadNodes: line %d: expected 3 or 4 fields, got %d", ln, len(fs))
		}
		id, err := strconv.Atoi(fs[0])
		if err != nil {
			return nil, nil, fmt.Errorf("elayer.ReadNodes: line %d: %v", ln, err)
		}
		var p mat32.Vec3
		for d, f := range fs[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("elayer.ReadNodes: line %d: %v", ln, err)
			}
			switch d {
			case 0:
				p.X = float32(v)
			case 1:
				p.Y = float32(v)
			case 2:
				p.Z = float32(v)
			}
		}
		ids = append(ids, id)
		pos = append(pos, p)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return ids, pos, nil
}

// ftos formats a float32 in its shortest round-trippable form.
func ftos(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
