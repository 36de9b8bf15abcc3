// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package majority implements a command to build
// a majority-rule consensus tree.
package majority

import (
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/js-arias/command"
	"github.com/js-arias/phycon/config"
	"github.com/js-arias/phycon/consensus"
	"github.com/js-arias/phycon/tree"
)

var Command = &command.Command{
	Usage: `majority [--config <file>]
	[--p <value>] [--ext <extensions>]
	[--rooted] [--ties <policy>] [--support]
	[--tsv <tree-file>] [--cpu <number>]
	[-o|--output <file>]
	[<tree-dir>]`,
	Short: "build a majority-rule consensus tree",
	Long: `
Command majority reads a set of trees and writes its majority-rule consensus
tree as a Newick file.

The argument of the command is the directory with the tree files. Each file in
the directory with a valid extension is read as a Newick file. See "phycon
help tree-files" for the format of the files. If no argument is given, the
directory defined in the configuration file will be used.

The flag --config defines a configuration file. See "phycon help config-files"
for the parameters of the file. Values set with flags override the values of
the configuration file.

By default, the trees are read from the files with the extension ".nwk". Use
the flag --ext to define a different set of extensions, as a comma separated
list.

By default, the trees are taken as unrooted, and the splits are the
bipartitions of the terminals. Use the flag --rooted to take the trees as
rooted, so the splits are the clades of the trees.

The flag --p defines the minimum proportion of trees that must have a split
for the split to be included in the consensus. The value must be greater than
0 and at most 1. By default, it is 0.5. A split found in at least that
proportion of the trees is kept, unless it is incompatible with a split found
in more trees. If two incompatible splits are found in the same number of
trees, by default both are removed. Use --ties=first to keep the split found
first, in the order of the files.

By default, the consensus tree is written in the file "consensus.nwk" in the
tree directory. Use the flag -o, or --output, to define a different file. The
output file is never read as an input tree.

By default, only the topology of the consensus tree is written. If the flag
--support is set, internal nodes will be labeled with the proportion of trees
that have the node.

If the flag --tsv is defined, the trees will be read from the indicated
time-calibrated tree file, instead of a directory.

By default, all available CPUs will be used to extract the splits of the
trees. Use the flag --cpu to set a different number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rooted bool
var support bool
var threshold = math.NaN()
var numCPU int
var cfgFile string
var extFlag string
var tiesFlag string
var tsvFile string
var outFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&rooted, "rooted", false, "")
	c.Flags().BoolVar(&support, "support", false, "")
	c.Flags().Float64Var(&threshold, "p", math.NaN(), "")
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&cfgFile, "config", "", "")
	c.Flags().StringVar(&extFlag, "ext", "", "")
	c.Flags().StringVar(&tiesFlag, "ties", "", "")
	c.Flags().StringVar(&tsvFile, "tsv", "", "")
	c.Flags().StringVar(&outFile, "output", "", "")
	c.Flags().StringVar(&outFile, "o", "", "")
}

func run(c *command.Command, args []string) error {
	cfg, err := readConfig(args)
	if err != nil {
		return err
	}
	if cfg.TreeDir() == "" && tsvFile == "" {
		return c.UsageError("expecting tree directory")
	}

	return makeConsensus(c.Stdout(), c.Stderr(), cfg, tsvFile, numCPU)
}

func readConfig(args []string) (*config.Config, error) {
	cfg := config.New("")
	if cfgFile != "" {
		var err error
		cfg, err = config.Read(cfgFile)
		if err != nil {
			return nil, err
		}
	}

	if !math.IsNaN(threshold) {
		if err := cfg.SetP(threshold); err != nil {
			return nil, err
		}
	}
	if extFlag != "" {
		if err := cfg.Set(config.Ext, extFlag); err != nil {
			return nil, err
		}
	}
	if tiesFlag != "" {
		if err := cfg.SetTies(tiesFlag); err != nil {
			return nil, err
		}
	}
	if rooted {
		cfg.SetRooted(true)
	}
	if support {
		cfg.SetSupport(true)
	}
	if outFile != "" {
		cfg.SetOutput(outFile)
	}
	if len(args) > 0 {
		cfg.SetTreeDir(args[0])
	}
	return cfg, nil
}

// makeConsensus builds and writes the consensus tree.
// If tsv is defined,
// trees are read from a time-calibrated tree file.
func makeConsensus(stdout, stderr io.Writer, cfg *config.Config, tsv string, cpu int) error {
	var c *tree.Collection
	var err error
	if tsv != "" {
		c, err = tree.ReadTSVFile(tsv)
	} else {
		c, err = cfg.Trees()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "# trees: %d\n", c.Len())
	fmt.Fprintf(stderr, "# terminals: %d\n", len(c.Terms()))

	t, err := consensus.Majority(c, cfg.Options(cpu))
	if err != nil {
		return err
	}
	t.SetName("consensus")
	fmt.Fprintf(stderr, "# consensus nodes: %d (p = %.4g, ties = %s)\n", internalNodes(t), cfg.P(), cfg.Ties())

	var f tree.Format
	if cfg.Support() {
		f = tree.Labels
	}
	out := cfg.Output()
	if err := tree.WriteFile(out, t, f); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "consensus tree written to %q\n", out)
	return nil
}

// internalNodes returns the number of internal nodes
// excluding the root.
func internalNodes(t *tree.Tree) int {
	n := 0
	for _, id := range t.Nodes() {
		if t.IsRoot(id) || t.IsTerm(id) {
			continue
		}
		n++
	}
	return n
}
