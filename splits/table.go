// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package splits

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// A Table is a frequency table of the splits
// found in a collection of trees.
type Table struct {
	taxa   *Taxa
	rooted bool
	trees  int

	splits map[string]*entry
	order  []*entry
}

type entry struct {
	split Split
	count int
	first int // order in which the split was found
}

// NewTable creates a new empty frequency table
// for a taxon index.
func NewTable(tx *Taxa, rooted bool) *Table {
	return &Table{
		taxa:   tx,
		rooted: rooted,
		splits: make(map[string]*entry),
	}
}

// Add adds the splits of a tree to the table.
func (tb *Table) Add(ss []Split) {
	tb.trees++
	for _, s := range ss {
		e, ok := tb.splits[s.key]
		if !ok {
			e = &entry{
				split: s,
				first: len(tb.order),
			}
			tb.splits[s.key] = e
			tb.order = append(tb.order, e)
		}
		e.count++
	}
}

// Count returns the number of trees
// in which a split was found.
func (tb *Table) Count(s Split) int {
	e, ok := tb.splits[s.key]
	if !ok {
		return 0
	}
	return e.count
}

// Freq returns the proportion of trees
// in which a split was found.
func (tb *Table) Freq(s Split) float64 {
	if tb.trees == 0 {
		return 0
	}
	return float64(tb.Count(s)) / float64(tb.trees)
}

// Len returns the number of different splits
// in the table.
func (tb *Table) Len() int {
	return len(tb.order)
}

// Rooted returns true if the splits
// are the clades of rooted trees.
func (tb *Table) Rooted() bool {
	return tb.rooted
}

// Splits returns the splits in the table,
// sorted by its frequency
// (the most frequent first).
// Splits with the same frequency
// are in the order in which they were found.
func (tb *Table) Splits() []Split {
	es := slices.Clone(tb.order)
	slices.SortStableFunc(es, func(a, b *entry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})

	ss := make([]Split, 0, len(es))
	for _, e := range es {
		ss = append(ss, e.split)
	}
	return ss
}

// Taxa returns the taxon index of the table.
func (tb *Table) Taxa() *Taxa {
	return tb.taxa
}

// Trees returns the number of trees
// added to the table.
func (tb *Table) Trees() int {
	return tb.trees
}

// Count builds the frequency table of the splits
// in a collection of trees.
//
// Splits of each tree are extracted in parallel.
// Use cpu to define the number of process
// used for the extraction;
// the default (zero) uses all available CPU.
// Splits are added to the table in the order of the collection.
func Count(c *tree.Collection, rooted bool, cpu int) (*Table, error) {
	if cpu <= 0 {
		cpu = runtime.GOMAXPROCS(0)
	}

	tx := NewTaxa(c.Terms())
	trees := c.Trees()
	treeSplits := make([][]Split, len(trees))

	var g errgroup.Group
	g.SetLimit(cpu)
	for i, t := range trees {
		g.Go(func() error {
			ss, err := FromTree(t, tx, rooted)
			if err != nil {
				return err
			}
			treeSplits[i] = ss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tb := NewTable(tx, rooted)
	for _, ss := range treeSplits {
		tb.Add(ss)
	}
	return tb, nil
}

var header = []string{
	"count",
	"freq",
	"size",
	"split",
}

// TSV writes the frequency table
// as a tab-delimited file.
//
// The file contains the following fields:
//
//   - count, the number of trees with the split
//   - freq, the proportion of trees with the split
//   - size, the number of taxa in the split
//   - split, the taxa in the split, separated by commas
//
// Splits are sorted by frequency.
func (tb *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, s := range tb.Splits() {
		row := []string{
			strconv.Itoa(tb.Count(s)),
			strconv.FormatFloat(tb.Freq(s), 'f', 6, 64),
			strconv.Itoa(s.Size()),
			strings.Join(s.Taxa(tb.taxa), ","),
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
