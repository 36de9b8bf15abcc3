// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/phycon/consensus"
	"github.com/js-arias/phycon/splits"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
)

func readTrees(t testing.TB, trees ...string) *tree.Collection {
	t.Helper()

	c := tree.NewCollection()
	for i, nw := range trees {
		ts, err := tree.ReadNewick(strings.NewReader(nw), "replicate_"+string(rune('a'+i)))
		if err != nil {
			t.Fatalf("unable to read tree %q: %v", nw, err)
		}
		if err := c.Add(ts[0]); err != nil {
			t.Fatalf("unable to add tree %q: %v", nw, err)
		}
	}
	return c
}

func newick(t testing.TB, tr *tree.Tree, f tree.Format) string {
	t.Helper()

	var b strings.Builder
	if err := tr.Newick(&b, f); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	return strings.TrimSpace(b.String())
}

// splitKeys returns the keys of the splits of a tree.
func splitKeys(t testing.TB, tr *tree.Tree, tx *splits.Taxa, rooted bool) []string {
	t.Helper()

	ss, err := splits.FromTree(tr, tx, rooted)
	if err != nil {
		t.Fatalf("unable to get splits: %v", err)
	}
	keys := make([]string, 0, len(ss))
	for _, s := range ss {
		keys = append(keys, s.Key())
	}
	slices.Sort(keys)
	return keys
}

var sixTaxa = []string{
	"(((A,B),C),((D,E),F));",
	"(((A,B),C),(D,(E,F)));",
	"(((A,B),D),(C,(E,F)));",
}

func TestMajority(t *testing.T) {
	tests := map[string]struct {
		trees  []string
		opt    consensus.Options
		want   string
		labels string
	}{
		"identical trees": {
			trees:  []string{"((A,B),(C,D));", "((A,B),(C,D));", "((A,B),(C,D));"},
			opt:    consensus.Options{P: 0.5},
			want:   "(A,B,(C,D));",
			labels: "(A,B,(C,D)1);",
		},
		"conflict at half": {
			trees: []string{"((A,B),(C,D));", "((A,C),(B,D));"},
			opt:   consensus.Options{P: 0.5},
			want:  "(A,B,C,D);",
		},
		"conflict at half, first": {
			trees:  []string{"((A,B),(C,D));", "((A,C),(B,D));"},
			opt:    consensus.Options{P: 0.5, Ties: consensus.TieFirst},
			want:   "(A,B,(C,D));",
			labels: "(A,B,(C,D)0.5);",
		},
		"majority": {
			trees:  sixTaxa,
			opt:    consensus.Options{P: 0.5},
			want:   "(A,B,(C,(D,(E,F))));",
			labels: "(A,B,(C,(D,(E,F)0.6667)0.6667)1);",
		},
		"high threshold": {
			trees: sixTaxa,
			opt:   consensus.Options{P: 0.7},
			want:  "(A,B,(C,D,E,F));",
		},
		"rooted": {
			trees:  sixTaxa,
			opt:    consensus.Options{P: 0.5, Rooted: true},
			want:   "(((A,B),C),(D,(E,F)));",
			labels: "(((A,B)1,C)0.6667,(D,(E,F)0.6667)0.6667);",
		},
		"single tree": {
			trees: []string{"((A:0.1,B:0.2)0.8:0.5,(C,(D,E)));"},
			opt:   consensus.Options{P: 0.5},
			want:  "(A,B,(C,(D,E)));",
		},
		"single rooted tree": {
			trees: []string{"((A,B),(C,(D,E)));"},
			opt:   consensus.Options{P: 0.5, Rooted: true},
			want:  "((A,B),(C,(D,E)));",
		},
		"strict disagreement": {
			trees: []string{"((A,B),(C,D),E);", "((A,C),(B,E),D);"},
			opt:   consensus.Options{P: 1},
			want:  "(A,B,C,D,E);",
		},
		"less frequent incompatible": {
			trees: []string{"((A,B),(C,D));", "((A,B),(C,D));", "((A,C),(B,D));"},
			opt:   consensus.Options{P: 0.3},
			want:  "(A,B,(C,D));",
		},
		"low threshold ties": {
			trees: []string{"((A,B),(C,D));", "((A,C),(B,D));", "((A,D),(B,C));"},
			opt:   consensus.Options{P: 0.3},
			want:  "(A,B,C,D);",
		},
		"low threshold ties, first": {
			trees: []string{"((A,B),(C,D));", "((A,C),(B,D));", "((A,D),(B,C));"},
			opt:   consensus.Options{P: 0.3, Ties: consensus.TieFirst},
			want:  "(A,B,(C,D));",
		},
	}

	for name, test := range tests {
		c := readTrees(t, test.trees...)
		ct, err := consensus.Majority(c, test.opt)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got := newick(t, ct, 0); got != test.want {
			t.Errorf("%s: got %q, want %q", name, got, test.want)
		}
		if test.labels == "" {
			continue
		}
		if got := newick(t, ct, tree.Labels); got != test.labels {
			t.Errorf("%s: labels: got %q, want %q", name, got, test.labels)
		}
	}
}

func TestIdenticalTrees(t *testing.T) {
	trees := []string{
		"((A,B),(C,(D,E)),F);",
		"(((A,B),(C,(D,E))),F);",
		"(F,((E,D),C),(B,A));",
	}
	for _, nw := range trees {
		c := readTrees(t, nw, nw, nw, nw)
		tx := splits.NewTaxa(c.Terms())
		want := splitKeys(t, c.Trees()[0], tx, false)

		for _, p := range []float64{0.1, 0.5, 0.75, 1} {
			ct, err := consensus.Majority(c, consensus.Options{P: p})
			if err != nil {
				t.Fatalf("tree %q, p %.2f: unexpected error: %v", nw, p, err)
			}
			if got := splitKeys(t, ct, tx, false); !slices.Equal(got, want) {
				t.Errorf("tree %q, p %.2f: got splits %v, want %v", nw, p, got, want)
			}
		}
	}
}

func TestProperties(t *testing.T) {
	colls := [][]string{
		sixTaxa,
		{
			"((A,B),(C,D),(E,(F,G)));",
			"((A,B),(C,E),(D,(F,G)));",
			"((A,C),(B,D),(E,(F,G)));",
			"((A,B),((C,D),E),(F,G));",
			"(A,(B,(C,(D,(E,(F,G))))));",
		},
		{
			"((A,B),(C,D));",
			"((A,C),(B,D));",
			"((A,D),(B,C));",
			"((A,B),(C,D));",
		},
	}

	for i, trees := range colls {
		c := readTrees(t, trees...)
		for _, rooted := range []bool{false, true} {
			tb, err := splits.Count(c, rooted, 2)
			if err != nil {
				t.Fatalf("collection %d: unexpected error: %v", i, err)
			}
			for _, p := range []float64{0.2, 0.5, 0.51, 0.8, 1} {
				ct, err := consensus.Majority(c, consensus.Options{P: p, Rooted: rooted})
				if err != nil {
					t.Fatalf("collection %d: p %.2f: unexpected error: %v", i, p, err)
				}
				testProperties(t, tb, ct, p, rooted)
			}
		}
	}
}

func testProperties(t testing.TB, tb *splits.Table, ct *tree.Tree, p float64, rooted bool) {
	t.Helper()

	ss, err := splits.FromTree(ct, tb.Taxa(), rooted)
	if err != nil {
		t.Fatalf("p %.2f: unable to get splits: %v", p, err)
	}
	inTree := make(map[string]bool, len(ss))

	// soundness
	for _, s := range ss {
		inTree[s.Key()] = true
		if f := tb.Freq(s); f < p {
			t.Errorf("p %.2f, rooted %v: split %v with frequency %.3f", p, rooted, s.Taxa(tb.Taxa()), f)
		}
	}

	// completeness for strict majorities
	if p <= 0.5 {
		return
	}
	for _, s := range tb.Splits() {
		if tb.Freq(s) < p {
			break
		}
		if !inTree[s.Key()] {
			t.Errorf("p %.2f, rooted %v: split %v with frequency %.3f not in consensus", p, rooted, s.Taxa(tb.Taxa()), tb.Freq(s))
		}
	}

	// idempotence
	nt, err := tree.ReadNewick(strings.NewReader(ct.String()), "again")
	if err != nil {
		t.Fatalf("p %.2f: unable to read consensus: %v", p, err)
	}
	keys := make([]string, 0, len(ss))
	for _, s := range ss {
		keys = append(keys, s.Key())
	}
	slices.Sort(keys)
	if got := splitKeys(t, nt[0], tb.Taxa(), rooted); !slices.Equal(got, keys) {
		t.Errorf("p %.2f, rooted %v: read again: got %v, want %v", p, rooted, got, keys)
	}
}

func TestStrict(t *testing.T) {
	c := readTrees(t, sixTaxa...)
	ct, err := consensus.Strict(c, consensus.Options{P: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := newick(t, ct, 0), "(A,B,(C,D,E,F));"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMajorityErrors(t *testing.T) {
	c := readTrees(t, "((A,B),(C,D));")
	for _, p := range []float64{0, -0.5, 1.5, math.NaN()} {
		_, err := consensus.Majority(c, consensus.Options{P: p})
		if !errors.Is(err, consensus.ErrThreshold) {
			t.Errorf("p %v: got error %v, want %v", p, err, consensus.ErrThreshold)
		}
	}

	if _, err := consensus.Majority(tree.NewCollection(), consensus.Options{P: 0.5}); !errors.Is(err, consensus.ErrEmpty) {
		t.Errorf("empty collection: got error %v, want %v", err, consensus.ErrEmpty)
	}
	if _, err := consensus.Majority(nil, consensus.Options{P: 0.5}); !errors.Is(err, consensus.ErrEmpty) {
		t.Errorf("nil collection: got error %v, want %v", err, consensus.ErrEmpty)
	}

	c = readTrees(t, "((A,B),(C,D));", "((A,B),(C,E));")
	_, err := consensus.Majority(c, consensus.Options{P: 0.5})
	var te *tree.TaxonError
	if !errors.As(err, &te) {
		t.Errorf("taxon mismatch: got error %v, want a *TaxonError", err)
	}
}

func TestParseTies(t *testing.T) {
	tests := map[string]consensus.TiePolicy{
		"":        consensus.TieReject,
		"reject":  consensus.TieReject,
		" First ": consensus.TieFirst,
	}
	for in, want := range tests {
		tp, err := consensus.ParseTies(in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", in, err)
			continue
		}
		if tp != want {
			t.Errorf("%q: got %v, want %v", in, tp, want)
		}
	}
	if _, err := consensus.ParseTies("random"); err == nil {
		t.Errorf("%q: expecting error", "random")
	}
}

func TestBuildIncompatible(t *testing.T) {
	tx := splits.NewTaxa([]string{"A", "B", "C", "D"})
	tb := splits.NewTable(tx, false)
	cd, _ := splits.New(tx, false, "C", "D")
	bd, _ := splits.New(tx, false, "B", "D")
	tb.Add([]splits.Split{cd})
	tb.Add([]splits.Split{bd})

	if _, err := consensus.Build(tb, []splits.Split{cd, bd}); err == nil {
		t.Errorf("incompatible splits: expecting error")
	}
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	for i, nw := range []string{"((A,B),(C,D));", "((A,B),(C,D));", "((A,B),(C,D));"} {
		name := filepath.Join(dir, "replicate_"+string(rune('1'+i))+".nwk")
		if err := os.WriteFile(name, []byte(nw+"\n"), 0o644); err != nil {
			t.Fatalf("unable to write file %q: %v", name, err)
		}
	}

	c, err := tree.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, err := consensus.Majority(c, consensus.Options{P: consensus.DefaultThreshold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := filepath.Join(dir, "consensus.out")
	if err := tree.WriteFile(out, ct, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	if got, want := string(data), "(A,B,(C,D));\n"; got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}
