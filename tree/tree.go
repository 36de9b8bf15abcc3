// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements phylogenetic trees
// that can be read and written in Newick format.
//
// Trees are not time calibrated:
// branch lengths and node labels are optional,
// and a tree can be rooted or unrooted,
// with binary or multifurcating nodes.
package tree

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// A Tree is a phylogenetic tree.
type Tree struct {
	name  string
	nodes []*node
	taxa  map[string]int
}

type node struct {
	id       int
	parent   int
	children []int

	taxon  string
	label  string
	length float64
	hasLen bool
}

// New creates a new tree with the given name
// and a single node
// (the root).
func New(name string) *Tree {
	t := &Tree{
		name: strings.TrimSpace(name),
		taxa: make(map[string]int),
	}
	t.nodes = append(t.nodes, &node{
		id:     0,
		parent: -1,
	})
	return t
}

// Add adds a new node as a child of the indicated parent.
// If taxon is not empty,
// the node will be a terminal with that name.
// It returns the ID of the new node.
func (t *Tree) Add(parent int, taxon string) (int, error) {
	p := t.node(parent)
	if p == nil {
		return -1, fmt.Errorf("tree %q: parent node %d not found", t.name, parent)
	}
	if p.taxon != "" {
		return -1, fmt.Errorf("tree %q: parent node %d is the terminal %q", t.name, parent, p.taxon)
	}
	taxon = canon(taxon)
	if taxon != "" {
		if _, dup := t.taxa[taxon]; dup {
			return -1, fmt.Errorf("tree %q: taxon %q repeated", t.name, taxon)
		}
	}

	id := t.addNode(parent)
	if taxon != "" {
		t.nodes[id].taxon = taxon
		t.taxa[taxon] = id
	}
	return id, nil
}

func (t *Tree) addNode(parent int) int {
	n := &node{
		id:     len(t.nodes),
		parent: parent,
	}
	t.nodes = append(t.nodes, n)
	p := t.nodes[parent]
	p.children = append(p.children, n.id)
	return n.id
}

func (t *Tree) setTaxon(id int, taxon string) error {
	taxon = canon(taxon)
	if taxon == "" {
		return fmt.Errorf("terminal without taxon name")
	}
	if _, dup := t.taxa[taxon]; dup {
		return fmt.Errorf("taxon %q repeated", taxon)
	}
	t.nodes[id].taxon = taxon
	t.taxa[taxon] = id
	return nil
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Children returns the IDs of the children
// of a node.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return id == 0
}

// IsTerm returns true if the node is a terminal
// (i.e., a leaf).
func (t *Tree) IsTerm(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Label returns the label of a node.
// In internal nodes the label is usually used
// to store the support of the node.
func (t *Tree) Label(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.label
}

// Len returns the length of the branch
// that connects a node with its parent.
// If the length is undefined,
// it returns false.
func (t *Tree) Len(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.length, n.hasLen
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Nodes returns the IDs of the nodes in the tree.
// The nodes are in pre-order,
// so a parent is always before its descendants.
func (t *Tree) Nodes() []int {
	ids := make([]int, 0, len(t.nodes))
	var walk func(id int)
	walk = func(id int) {
		ids = append(ids, id)
		for _, c := range t.nodes[id].children {
			walk(c)
		}
	}
	walk(0)
	return ids
}

// Parent returns the ID of the parent of a node.
// The root has parent -1.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return 0
}

// SetLabel sets the label of a node.
func (t *Tree) SetLabel(id int, label string) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.label = strings.TrimSpace(label)
}

// SetLen sets the length of the branch
// that connects a node to its parent.
func (t *Tree) SetLen(id int, length float64) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.length = length
	n.hasLen = true
}

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	t.name = strings.TrimSpace(name)
}

// Taxon returns the taxon name of a node.
// Internal nodes return an empty string.
func (t *Tree) Taxon(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.taxon
}

// TaxNode returns the ID of the node
// assigned to a taxon.
func (t *Tree) TaxNode(taxon string) (int, bool) {
	id, ok := t.taxa[canon(taxon)]
	return id, ok
}

// Terms returns the taxon names of the terminals,
// sorted alphabetically.
func (t *Tree) Terms() []string {
	terms := make([]string, 0, len(t.taxa))
	for tax := range t.taxa {
		terms = append(terms, tax)
	}
	slices.Sort(terms)
	return terms
}

// canon returns a taxon name
// with its blank spaces collapsed.
func canon(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
