// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"errors"
	"strconv"
	"strings"

	gotree "github.com/evolbioinfo/gotree/tree"
)

// FromGoTree returns a tree from a gotree tree.
//
// Terminal names are used as taxon names.
// The name of an internal node,
// or the support of its parent edge,
// is used as the node label.
func FromGoTree(gt *gotree.Tree, name string) (*Tree, error) {
	if gt == nil || gt.Root() == nil {
		return nil, errors.New("empty tree")
	}

	t := New(name)
	if err := t.copyGoNode(t.Root(), gt.Root(), nil, nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) copyGoNode(id int, n, prev *gotree.Node, e *gotree.Edge) error {
	var children []*gotree.Node
	var edges []*gotree.Edge
	ns := n.Neigh()
	es := n.Edges()
	for i, c := range ns {
		if c == prev {
			continue
		}
		children = append(children, c)
		edges = append(edges, es[i])
	}

	if len(children) == 0 {
		if err := t.setTaxon(id, goName(n.Name())); err != nil {
			return err
		}
	} else {
		lbl := goName(n.Name())
		if lbl == "" && e != nil && e.Support() != gotree.NIL_SUPPORT {
			lbl = strconv.FormatFloat(e.Support(), 'g', -1, 64)
		}
		t.nodes[id].label = lbl

		for i, c := range children {
			cID := t.addNode(id)
			if err := t.copyGoNode(cID, c, n, edges[i]); err != nil {
				return err
			}
		}
	}

	if e != nil && e.Length() != gotree.NIL_LENGTH {
		t.SetLen(id, e.Length())
	}
	return nil
}

// GoName returns a node name
// without enclosing quotes.
func goName(name string) string {
	if len(name) > 1 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return canon(name)
}
