// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package consensus implements majority-rule consensus trees
// of a collection of phylogenetic trees.
//
// A majority-rule consensus tree
// includes the splits found in at least a given proportion
// of the trees in the collection.
// Splits that are not included collapse into polytomies.
package consensus

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/js-arias/phycon/splits"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
)

// DefaultThreshold is the default proportion of trees
// that must have a split for the split
// to be included in the consensus.
const DefaultThreshold = 0.5

// Errors returned when building a consensus.
var (
	ErrEmpty     = errors.New("empty tree collection")
	ErrThreshold = errors.New("invalid threshold")
)

// A TiePolicy defines what to do
// with incompatible splits
// found in the same number of trees.
type TiePolicy int

// Valid tie policies.
const (
	// TieReject removes all the incompatible splits
	// with the same frequency.
	TieReject TiePolicy = iota

	// TieFirst keeps the split found first
	// in the order of the input trees.
	TieFirst
)

// ParseTies returns a tie policy from its name.
func ParseTies(name string) (TiePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reject":
		return TieReject, nil
	case "first":
		return TieFirst, nil
	}
	return TieReject, fmt.Errorf("unknown tie policy %q", name)
}

func (tp TiePolicy) String() string {
	switch tp {
	case TieReject:
		return "reject"
	case TieFirst:
		return "first"
	}
	return fmt.Sprintf("TiePolicy(%d)", int(tp))
}

// Options are the options
// used to build a consensus tree.
type Options struct {
	// P is the minimum proportion of trees
	// with a split,
	// it must be in the interval (0, 1].
	P float64

	// If Rooted is true,
	// trees are taken as rooted,
	// and the splits are the clades of the trees.
	Rooted bool

	// Ties is the policy for incompatible splits
	// with the same frequency.
	Ties TiePolicy

	// CPU is the number of process
	// used to extract the splits.
	// The default (zero) uses all available CPU.
	CPU int
}

// Majority returns the majority-rule consensus tree
// of a collection of trees.
//
// Internal nodes of the consensus tree
// are labeled with the proportion of trees
// that have the node.
func Majority(c *tree.Collection, opt Options) (*tree.Tree, error) {
	if err := checkThreshold(opt.P); err != nil {
		return nil, err
	}
	if c == nil || c.Len() == 0 {
		return nil, ErrEmpty
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tb, err := splits.Count(c, opt.Rooted, opt.CPU)
	if err != nil {
		return nil, err
	}

	sel := Select(tb, opt.P, opt.Ties)
	return Build(tb, sel)
}

// Strict returns the strict consensus tree
// of a collection of trees
// (i.e., the splits found in all trees).
func Strict(c *tree.Collection, opt Options) (*tree.Tree, error) {
	opt.P = 1
	return Majority(c, opt)
}

func checkThreshold(p float64) error {
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return fmt.Errorf("%w: %v: must be in (0, 1]", ErrThreshold, p)
	}
	return nil
}

// epsilon is the tolerance used to compare frequencies
// with the threshold.
const epsilon = 1e-9

// Select returns the splits of a frequency table
// that are found in at least a proportion p of the trees,
// and are compatible with all more frequent selected splits.
//
// If two or more incompatible splits
// have the same frequency,
// the tie policy defines which one is kept.
func Select(tb *splits.Table, p float64, ties TiePolicy) []splits.Split {
	if tb.Trees() == 0 {
		return nil
	}

	var cands []splits.Split
	for _, s := range tb.Splits() {
		if tb.Freq(s) < p-epsilon {
			break
		}
		cands = append(cands, s)
	}

	var accepted []splits.Split
	for i := 0; i < len(cands); {
		count := tb.Count(cands[i])
		j := i
		for j < len(cands) && tb.Count(cands[j]) == count {
			j++
		}

		var group []splits.Split
		for _, s := range cands[i:j] {
			if compatible(s, accepted) {
				group = append(group, s)
			}
		}
		i = j

		switch ties {
		case TieFirst:
			var kept []splits.Split
			for _, s := range group {
				if compatible(s, kept) {
					kept = append(kept, s)
				}
			}
			accepted = append(accepted, kept...)
		default:
			for k, s := range group {
				conflict := false
				for l, o := range group {
					if k != l && !s.Compatible(o) {
						conflict = true
						break
					}
				}
				if !conflict {
					accepted = append(accepted, s)
				}
			}
		}
	}
	return accepted
}

func compatible(s splits.Split, ls []splits.Split) bool {
	for _, o := range ls {
		if !s.Compatible(o) {
			return false
		}
	}
	return true
}

type clade struct {
	split    splits.Split
	min      int
	taxon    int
	children []*clade
}

// Build builds a tree from a set of pairwise compatible splits
// of a frequency table.
// Internal nodes are labeled with the frequency of the split.
//
// In unrooted tables,
// the first taxon of the taxon index
// is a descendant of the root.
func Build(tb *splits.Table, sel []splits.Split) (*tree.Tree, error) {
	tx := tb.Taxa()
	for i, s := range sel {
		for _, o := range sel[:i] {
			if !s.Compatible(o) {
				return nil, fmt.Errorf("incompatible splits %v and %v", s.Taxa(tx), o.Taxa(tx))
			}
		}
	}

	cs := make([]*clade, 0, len(sel))
	for _, s := range sel {
		cs = append(cs, &clade{
			split: s,
			min:   s.Min(),
			taxon: -1,
		})
	}
	// larger clades are set first,
	// so the parent of a clade is always assigned
	// before the clade
	slices.SortStableFunc(cs, func(a, b *clade) int {
		return b.split.Size() - a.split.Size()
	})

	root := &clade{taxon: -1}
	for i, c := range cs {
		p := root
		for j := i - 1; j >= 0; j-- {
			if cs[j].split.Contains(c.split) {
				p = cs[j]
				break
			}
		}
		p.children = append(p.children, c)
	}
	for x := 0; x < tx.Len(); x++ {
		p := root
		for j := len(cs) - 1; j >= 0; j-- {
			if cs[j].split.Has(x) {
				p = cs[j]
				break
			}
		}
		p.children = append(p.children, &clade{
			min:   x,
			taxon: x,
		})
	}

	t := tree.New("consensus")
	if err := addClade(t, tb, t.Root(), root); err != nil {
		return nil, err
	}
	return t, nil
}

func addClade(t *tree.Tree, tb *splits.Table, id int, c *clade) error {
	slices.SortFunc(c.children, func(a, b *clade) int {
		return a.min - b.min
	})
	for _, d := range c.children {
		if d.taxon >= 0 {
			if _, err := t.Add(id, tb.Taxa().Name(d.taxon)); err != nil {
				return err
			}
			continue
		}
		nID, err := t.Add(id, "")
		if err != nil {
			return err
		}
		t.SetLabel(nID, strconv.FormatFloat(tb.Freq(d.split), 'g', 4, 64))
		if err := addClade(t, tb, nID, d); err != nil {
			return err
		}
	}
	return nil
}
