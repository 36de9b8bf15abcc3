// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/timetree"
)

// millionYears is the scale of the branch lengths
// of trees imported from time calibrated trees.
const millionYears = 1_000_000

// ReadTSV reads a collection of time calibrated trees
// from a PhyGeo tab-delimited tree file
// and returns them as a collection.
//
// Branch lengths are set in million years.
// The taxa of the trees are not checked
// (see Collection.Validate).
func ReadTSV(r io.Reader) (*Collection, error) {
	tc, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, err
	}

	c := NewCollection()
	for _, tn := range tc.Names() {
		t, err := FromTimeTree(tc.Tree(tn))
		if err != nil {
			return nil, err
		}
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	if c.Len() == 0 {
		return nil, ErrNoInput
	}
	return c, nil
}

// ReadTSVFile reads a collection of time calibrated trees
// from a PhyGeo tree file.
func ReadTSVFile(name string) (*Collection, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return c, nil
}

// FromTimeTree copies a time calibrated tree.
func FromTimeTree(tt *timetree.Tree) (*Tree, error) {
	t := New(tt.Name())

	var copyNode func(src, dst int) error
	copyNode = func(src, dst int) error {
		for _, c := range tt.Children(src) {
			id := t.addNode(dst)
			t.SetLen(id, float64(tt.Age(src)-tt.Age(c))/millionYears)
			if tt.IsTerm(c) {
				if err := t.setTaxon(id, tt.Taxon(c)); err != nil {
					return fmt.Errorf("tree %q: node %d: %v", tt.Name(), c, err)
				}
				continue
			}
			if err := copyNode(c, id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := copyNode(tt.Root(), t.Root()); err != nil {
		return nil, err
	}
	return t, nil
}
