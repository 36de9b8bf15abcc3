// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package splits

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/phycon/splits"
	"github.com/js-arias/phycon/tree"
)

func makeTable(t testing.TB) *splits.Table {
	t.Helper()

	c := tree.NewCollection()
	for i, nw := range []string{
		"((A,B),(C,D),E);",
		"((A,B),(C,D),E);",
		"((A,B),(C,E),D);",
		"((A,C),(B,D),E);",
	} {
		ts, err := tree.ReadNewick(strings.NewReader(nw), string(rune('a'+i)))
		if err != nil {
			t.Fatalf("unable to read tree %q: %v", nw, err)
		}
		if err := c.Add(ts[0]); err != nil {
			t.Fatalf("unable to add tree %q: %v", nw, err)
		}
	}

	tb, err := splits.Count(c, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tb
}

func TestSummary(t *testing.T) {
	tb := makeTable(t)
	freqs := frequencies(tb)

	want := []float64{0.25, 0.25, 0.25, 0.5, 0.75}
	if !reflect.DeepEqual(freqs, want) {
		t.Errorf("frequencies: got %v, want %v", freqs, want)
	}

	var w bytes.Buffer
	printSummary(&w, tb, freqs)
	for _, ln := range []string{
		"# trees: 4\n",
		"# splits: 5\n",
		"# mean frequency: 0.400000\n",
		"# median frequency: 0.250000\n",
		"# splits in at least half of the trees: 2\n",
	} {
		if !strings.Contains(w.String(), ln) {
			t.Errorf("summary: expecting %q, got %q", ln, w.String())
		}
	}
}

func TestWriteTable(t *testing.T) {
	tb := makeTable(t)
	dir := t.TempDir()

	name := filepath.Join(dir, "splits.tab")
	if err := writeTable(name, tb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\r\n")
	if len(lines) != 6 {
		t.Fatalf("table: got %d lines, want %d", len(lines), 6)
	}
	if want := "3\t0.750000\t3\tC,D,E"; lines[1] != want {
		t.Errorf("table: first split: got %q, want %q", lines[1], want)
	}

	plt := filepath.Join(dir, "freq.png")
	if err := makePlot(plt, frequencies(tb)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(plt); err != nil {
		t.Errorf("plot: %v", err)
	}
}
