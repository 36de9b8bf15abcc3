// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package splits_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phycon/splits"
	"github.com/js-arias/phycon/tree"
)

func readTrees(t testing.TB, trees ...string) *tree.Collection {
	t.Helper()

	c := tree.NewCollection()
	for i, nw := range trees {
		ts, err := tree.ReadNewick(strings.NewReader(nw), string(rune('a'+i)))
		if err != nil {
			t.Fatalf("unable to read tree %q: %v", nw, err)
		}
		if err := c.Add(ts[0]); err != nil {
			t.Fatalf("unable to add tree %q: %v", nw, err)
		}
	}
	return c
}

func splitTaxa(tx *splits.Taxa, ss []splits.Split) [][]string {
	var ls [][]string
	for _, s := range ss {
		ls = append(ls, s.Taxa(tx))
	}
	return ls
}

func TestFromTree(t *testing.T) {
	tests := map[string]struct {
		tree   string
		rooted bool
		want   [][]string
	}{
		"unrooted": {
			tree: "((A,B),(C,D),E);",
			want: [][]string{{"C", "D", "E"}, {"C", "D"}},
		},
		"unrooted binary root": {
			tree: "((A,B),(C,D));",
			want: [][]string{{"C", "D"}},
		},
		"rooted": {
			tree:   "((A,B),(C,D));",
			rooted: true,
			want:   [][]string{{"A", "B"}, {"C", "D"}},
		},
		"order independent": {
			tree: "((D,C),(B,A));",
			want: [][]string{{"C", "D"}},
		},
		"unary node": {
			tree: "(((A,B)),((C)),D,E);",
			want: [][]string{{"C", "D", "E"}},
		},
		"star": {
			tree: "(A,B,C,D,E);",
			want: nil,
		},
	}

	for name, test := range tests {
		c := readTrees(t, test.tree)
		tx := splits.NewTaxa(c.Terms())
		ss, err := splits.FromTree(c.Trees()[0], tx, test.rooted)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got := splitTaxa(tx, ss); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}
}

func TestFromTreeErrors(t *testing.T) {
	c := readTrees(t, "((A,B),(C,D));")
	tx := splits.NewTaxa([]string{"A", "B", "C", "D", "E"})
	if _, err := splits.FromTree(c.Trees()[0], tx, false); err == nil {
		t.Errorf("missing taxon: expecting error")
	}

	tx = splits.NewTaxa([]string{"A", "B", "C"})
	if _, err := splits.FromTree(c.Trees()[0], tx, false); err == nil {
		t.Errorf("unknown taxon: expecting error")
	}
}

func TestCompatible(t *testing.T) {
	tx := splits.NewTaxa([]string{"A", "B", "C", "D", "E", "F"})
	newSplit := func(taxa ...string) splits.Split {
		s, err := splits.New(tx, false, taxa...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}

	ab := newSplit("A", "B")
	cdef := newSplit("C", "D", "E", "F")
	if !ab.Equal(cdef) {
		t.Errorf("split %v and %v must be equal", ab.Taxa(tx), cdef.Taxa(tx))
	}

	tests := []struct {
		a, b splits.Split
		want bool
	}{
		{newSplit("A", "B"), newSplit("A", "B", "C"), true},
		{newSplit("C", "D"), newSplit("E", "F"), true},
		{newSplit("B", "C"), newSplit("C", "D"), false},
		{newSplit("A", "C"), newSplit("A", "B"), false},
		{newSplit("D", "E"), newSplit("C", "D", "E"), true},
	}
	for _, test := range tests {
		if got := test.a.Compatible(test.b); got != test.want {
			t.Errorf("compatible %v %v: got %v, want %v", test.a.Taxa(tx), test.b.Taxa(tx), got, test.want)
		}
		if got := test.b.Compatible(test.a); got != test.want {
			t.Errorf("compatible %v %v: got %v, want %v", test.b.Taxa(tx), test.a.Taxa(tx), got, test.want)
		}
	}

	if _, err := splits.New(tx, false, "Z"); err == nil {
		t.Errorf("unknown taxon: expecting error")
	}
}

func TestCount(t *testing.T) {
	c := readTrees(t,
		"(((A,B),C),(D,E));",
		"(((A,B),D),(C,E));",
		"((A,B),(C,(D,E)));",
		"((A,C),(B,(D,E)));",
	)

	for _, cpu := range []int{1, 4} {
		tb, err := splits.Count(c, false, cpu)
		if err != nil {
			t.Fatalf("cpu %d: unexpected error: %v", cpu, err)
		}
		testTable(t, tb, cpu)
	}
}

func testTable(t testing.TB, tb *splits.Table, cpu int) {
	t.Helper()

	if tb.Trees() != 4 {
		t.Errorf("cpu %d: trees: got %d, want %d", cpu, tb.Trees(), 4)
	}

	want := [][]string{
		{"D", "E"},
		{"C", "D", "E"},
		{"C", "E"},
		{"B", "D", "E"},
	}
	ss := tb.Splits()
	if got := splitTaxa(tb.Taxa(), ss); !reflect.DeepEqual(got, want) {
		t.Errorf("cpu %d: splits: got %v, want %v", cpu, got, want)
	}

	counts := []int{3, 3, 1, 1}
	for i, s := range ss {
		if tb.Count(s) != counts[i] {
			t.Errorf("cpu %d: split %v: got %d, want %d", cpu, s.Taxa(tb.Taxa()), tb.Count(s), counts[i])
		}
	}
	if f := tb.Freq(ss[0]); f != 0.75 {
		t.Errorf("cpu %d: freq: got %.6f, want %.6f", cpu, f, 0.75)
	}
}

func TestTableTSV(t *testing.T) {
	c := readTrees(t,
		"((A,B),(C,D));",
		"((A,B),(C,D));",
		"((A,C),(B,D));",
	)
	tb, err := splits.Count(c, false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var w bytes.Buffer
	if err := tb.TSV(&w); err != nil {
		t.Fatalf("unable to write TSV data: %v", err)
	}

	want := "count\tfreq\tsize\tsplit\r\n" +
		"2\t0.666667\t2\tC,D\r\n" +
		"1\t0.333333\t2\tB,D\r\n"
	if got := w.String(); got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}
