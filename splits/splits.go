// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package splits implements bipartitions
// (i.e., splits)
// of the taxa of phylogenetic trees.
//
// A split is stored as a bit set over a taxon index.
// In unrooted trees,
// a split is represented by the side
// that does not include the first taxon of the index,
// so the same split is always equal,
// regardless of the rooting or the order of the nodes
// in the tree.
// In rooted trees,
// a split is the clade defined by a node.
package splits

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
)

// Taxa is an index of taxon names.
// Names are sorted alphabetically.
type Taxa struct {
	names []string
	ids   map[string]int
}

// NewTaxa returns a taxon index
// from a list of names.
func NewTaxa(names []string) *Taxa {
	tx := &Taxa{
		ids: make(map[string]int, len(names)),
	}
	ls := slices.Clone(names)
	slices.Sort(ls)
	ls = slices.Compact(ls)
	for i, n := range ls {
		tx.ids[n] = i
	}
	tx.names = ls
	return tx
}

// Index returns the index of a taxon.
func (tx *Taxa) Index(name string) (int, bool) {
	i, ok := tx.ids[name]
	return i, ok
}

// Len returns the number of taxa in the index.
func (tx *Taxa) Len() int {
	return len(tx.names)
}

// Name returns the name of the taxon
// at the given index.
func (tx *Taxa) Name(i int) string {
	return tx.names[i]
}

// Names returns the taxon names.
func (tx *Taxa) Names() []string {
	return slices.Clone(tx.names)
}

// A Split is a bipartition of a set of taxa.
type Split struct {
	set *bitset.BitSet
	key string
}

// New returns a split with the given taxa
// in one of its sides.
// If rooted is false,
// the split will be set in its canonical form.
func New(tx *Taxa, rooted bool, taxa ...string) (Split, error) {
	set := bitset.New(uint(tx.Len()))
	for _, n := range taxa {
		i, ok := tx.Index(n)
		if !ok {
			return Split{}, fmt.Errorf("taxon %q not in taxon set", n)
		}
		set.Set(uint(i))
	}
	return newSplit(set, rooted), nil
}

func newSplit(set *bitset.BitSet, rooted bool) Split {
	if !rooted && set.Test(0) {
		set = set.Complement()
	}
	return Split{
		set: set,
		key: set.String(),
	}
}

// Compatible returns true if two splits can be present
// in the same tree.
//
// As splits are in canonical form,
// they are compatible if one includes the other,
// or if they are disjoint.
func (s Split) Compatible(o Split) bool {
	if s.set.IntersectionCardinality(o.set) == 0 {
		return true
	}
	return s.set.IsSuperSet(o.set) || o.set.IsSuperSet(s.set)
}

// Contains returns true if all the taxa of o
// are also in s.
func (s Split) Contains(o Split) bool {
	return s.set.IsSuperSet(o.set)
}

// Equal returns true if both splits are the same.
func (s Split) Equal(o Split) bool {
	return s.key == o.key
}

// Has returns true if the taxon with the given index
// is in the split.
func (s Split) Has(i int) bool {
	return s.set.Test(uint(i))
}

// Key returns a string that identifies the split.
func (s Split) Key() string {
	return s.key
}

// Min returns the smallest taxon index
// in the split.
func (s Split) Min() int {
	i, ok := s.set.NextSet(0)
	if !ok {
		return -1
	}
	return int(i)
}

// Size returns the number of taxa in the split.
func (s Split) Size() int {
	return int(s.set.Count())
}

// Taxa returns the names of the taxa in the split.
func (s Split) Taxa(tx *Taxa) []string {
	names := make([]string, 0, s.Size())
	for i, ok := s.set.NextSet(0); ok; i, ok = s.set.NextSet(i + 1) {
		names = append(names, tx.Name(int(i)))
	}
	return names
}

// FromTree returns the non-trivial splits of a tree,
// in pre-order of the nodes that define them.
// A split is returned only once,
// even if several nodes define it
// (for example, the two descendants of the root
// in an unrooted tree).
func FromTree(t *tree.Tree, tx *Taxa, rooted bool) ([]Split, error) {
	n := tx.Len()
	nodes := t.Nodes()
	sets := make(map[int]*bitset.BitSet, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		id := nodes[i]
		set := bitset.New(uint(n))
		if t.IsTerm(id) {
			tax := t.Taxon(id)
			if tax == "" {
				return nil, fmt.Errorf("tree %q: node %d: terminal without taxon name", t.Name(), id)
			}
			x, ok := tx.Index(tax)
			if !ok {
				return nil, fmt.Errorf("tree %q: taxon %q not in taxon set", t.Name(), tax)
			}
			set.Set(uint(x))
		}
		for _, c := range t.Children(id) {
			set.InPlaceUnion(sets[c])
		}
		sets[id] = set
	}
	if c := int(sets[t.Root()].Count()); c != n {
		return nil, fmt.Errorf("tree %q: got %d taxa, want %d", t.Name(), c, n)
	}

	seen := make(map[string]bool)
	var ss []Split
	for _, id := range nodes {
		if t.IsRoot(id) || t.IsTerm(id) {
			continue
		}
		s := newSplit(sets[id], rooted)
		if isTrivial(s, n, rooted) {
			continue
		}
		if seen[s.key] {
			continue
		}
		seen[s.key] = true
		ss = append(ss, s)
	}
	return ss, nil
}

// IsTrivial returns true for splits that are present
// in any tree:
// a single taxon,
// or all taxa in rooted trees
// (or all taxa except one in unrooted trees).
func isTrivial(s Split, n int, rooted bool) bool {
	sz := s.Size()
	if sz < 2 {
		return true
	}
	if rooted {
		return sz >= n
	}
	return sz >= n-1
}
