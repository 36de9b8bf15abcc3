// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package splits implements a command to print
// the frequency of the splits in a set of trees.
package splits

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/js-arias/command"
	"github.com/js-arias/phycon/config"
	"github.com/js-arias/phycon/splits"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `splits [--config <file>]
	[--ext <extensions>] [--rooted]
	[--tsv <tree-file>] [--cpu <number>]
	[--plot <file>]
	[-o|--output <file>]
	[<tree-dir>]`,
	Short: "print split frequencies",
	Long: `
Command splits reads a set of trees and prints the number of trees in which
each split is found.

The argument of the command is the directory with the tree files. If no
argument is given, the directory defined in the configuration file will be
used. Use the flag --config to define a configuration file. The flags --ext,
--rooted, --tsv, and --cpu have the same meaning as in "phycon majority".

The output is a tab-delimited table with the following columns:

	- count  the number of trees with the split
	- freq   the proportion of trees with the split
	- size   the number of terminals in the split
	- split  the terminals of the split, separated by commas

Splits are sorted by its count, and then by the order in which they were
found. In unrooted trees, the terminals of a split are the side of the
bipartition that does not include the first terminal (in alphabetical order).
Trivial splits (a single terminal, or all terminals) are not printed.

By default, the table will be printed in the standard output. Use the flag -o,
or --output, to define an output file.

A summary of the split frequencies will be printed in the standard error. If
the flag --plot is defined, a histogram of the split frequencies will be
drawn in the indicated file. The format of the plot is taken from the file
extension (for example ".png" or ".svg").
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rooted bool
var numCPU int
var cfgFile string
var extFlag string
var tsvFile string
var plotFile string
var outFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&rooted, "rooted", false, "")
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&cfgFile, "config", "", "")
	c.Flags().StringVar(&extFlag, "ext", "", "")
	c.Flags().StringVar(&tsvFile, "tsv", "", "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
	c.Flags().StringVar(&outFile, "output", "", "")
	c.Flags().StringVar(&outFile, "o", "", "")
}

func run(c *command.Command, args []string) error {
	cfg := config.New("")
	if cfgFile != "" {
		var err error
		cfg, err = config.Read(cfgFile)
		if err != nil {
			return err
		}
	}
	if extFlag != "" {
		if err := cfg.Set(config.Ext, extFlag); err != nil {
			return err
		}
	}
	if rooted {
		cfg.SetRooted(true)
	}
	if len(args) > 0 {
		cfg.SetTreeDir(args[0])
	}
	if cfg.TreeDir() == "" && tsvFile == "" {
		return c.UsageError("expecting tree directory")
	}

	var tc *tree.Collection
	var err error
	if tsvFile != "" {
		tc, err = tree.ReadTSVFile(tsvFile)
		if err == nil {
			err = tc.Validate()
		}
	} else {
		tc, err = cfg.Trees()
	}
	if err != nil {
		return err
	}

	tb, err := splits.Count(tc, cfg.Rooted(), numCPU)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := writeTable(outFile, tb); err != nil {
			return err
		}
	} else {
		if err := tb.TSV(c.Stdout()); err != nil {
			return err
		}
	}

	freqs := frequencies(tb)
	printSummary(c.Stderr(), tb, freqs)

	if plotFile != "" {
		if err := makePlot(plotFile, freqs); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(name string, tb *splits.Table) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := tb.TSV(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

// frequencies returns the sorted frequencies
// of the splits in a table.
func frequencies(tb *splits.Table) []float64 {
	ss := tb.Splits()
	freqs := make([]float64, 0, len(ss))
	for _, s := range ss {
		freqs = append(freqs, tb.Freq(s))
	}
	slices.Sort(freqs)
	return freqs
}

func printSummary(w io.Writer, tb *splits.Table, freqs []float64) {
	fmt.Fprintf(w, "# trees: %d\n", tb.Trees())
	fmt.Fprintf(w, "# terminals: %d\n", tb.Taxa().Len())
	fmt.Fprintf(w, "# splits: %d\n", len(freqs))
	if len(freqs) == 0 {
		return
	}

	fmt.Fprintf(w, "# mean frequency: %.6f\n", stat.Mean(freqs, nil))
	fmt.Fprintf(w, "# median frequency: %.6f\n", stat.Quantile(0.5, stat.Empirical, freqs, nil))

	var half int
	for _, f := range freqs {
		if f >= 0.5 {
			half++
		}
	}
	fmt.Fprintf(w, "# splits in at least half of the trees: %d\n", half)
}

// bins is the number of bins
// in the histogram of split frequencies.
const bins = 10

func makePlot(name string, freqs []float64) error {
	p := plot.New()
	p.X.Label.Text = "frequency"
	p.Y.Label.Text = "splits"

	vals := make(plotter.Values, len(freqs))
	copy(vals, freqs)
	if len(vals) == 0 {
		return fmt.Errorf("while building plot %q: no splits", name)
	}

	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("while building plot %q: %v", name, err)
	}
	h.LineStyle.Width = vg.Length(0)
	p.Add(h)

	if err := p.Save(5*vg.Inch, 3*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
