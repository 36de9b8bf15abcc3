// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals in a set of trees.
package terms

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/phycon/config"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
)

var Command = &command.Command{
	Usage: `terms [--config <file>] [--ext <extensions>]
	[--tsv <tree-file>] [--tree <tree-name>]
	[--check]
	[<tree-dir>]`,
	Short: "print a list of tree terminals",
	Long: `
Command terms reads a set of trees and prints the name of the terminals in the
standard output.

The argument of the command is the directory with the tree files. If no
argument is given, the directory defined in the configuration file will be
used. Use the flag --config to define a configuration file. The flags --ext,
and --tsv have the same meaning as in "phycon majority".

By default all terminals will be printed. If the flag --tree is set, only the
terminals of the indicated tree will be printed.

If the flag --check is set, instead of the list of terminals, the command
will print the trees with terminals that are different from the terminals of
the first tree.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var check bool
var cfgFile string
var extFlag string
var tsvFile string
var treeName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&check, "check", false, "")
	c.Flags().StringVar(&cfgFile, "config", "", "")
	c.Flags().StringVar(&extFlag, "ext", "", "")
	c.Flags().StringVar(&tsvFile, "tsv", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
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
	if len(args) > 0 {
		cfg.SetTreeDir(args[0])
	}
	if cfg.TreeDir() == "" && tsvFile == "" {
		return c.UsageError("expecting tree directory")
	}

	tc, err := readTrees(cfg)
	if err != nil {
		return err
	}

	if check {
		n := checkTerms(c.Stdout(), tc)
		fmt.Fprintf(c.Stderr(), "# trees with different terminals: %d of %d\n", n, tc.Len())
		return nil
	}

	for _, term := range makeTermList(tc, treeName) {
		fmt.Fprintf(c.Stdout(), "%s\n", term)
	}
	return nil
}

// readTrees reads the trees of a directory,
// or a tree file,
// without checking that all trees have the same terminals.
func readTrees(cfg *config.Config) (*tree.Collection, error) {
	if tsvFile != "" {
		return tree.ReadTSVFile(tsvFile)
	}

	files, err := tree.Files(cfg.TreeDir(), cfg.Ext()...)
	if err != nil {
		return nil, err
	}
	return tree.ReadAll(files)
}

func makeTermList(c *tree.Collection, name string) []string {
	var ls []string
	if name != "" {
		ls = append(ls, name)
	} else {
		ls = c.Names()
	}

	terms := make(map[string]bool)
	for _, tn := range ls {
		t := c.Tree(tn)
		if t == nil {
			continue
		}
		for _, tax := range t.Terms() {
			terms[tax] = true
		}
	}

	termList := make([]string, 0, len(terms))
	for tax := range terms {
		termList = append(termList, tax)
	}
	slices.Sort(termList)

	return termList
}

// checkTerms prints the trees with terminals
// different from the first tree,
// and returns the number of such trees.
func checkTerms(w io.Writer, c *tree.Collection) int {
	names := c.Names()
	if len(names) == 0 {
		return 0
	}
	ref := c.Tree(names[0]).Terms()

	n := 0
	for _, tn := range names[1:] {
		terms := c.Tree(tn).Terms()
		missing, extra := diffTerms(ref, terms)
		if len(missing) == 0 && len(extra) == 0 {
			continue
		}
		n++
		fmt.Fprintf(w, "%s\n", tn)
		for _, tax := range missing {
			fmt.Fprintf(w, "\t- %s\n", tax)
		}
		for _, tax := range extra {
			fmt.Fprintf(w, "\t+ %s\n", tax)
		}
	}
	return n
}

// diffTerms returns the terminals of ref
// not found in terms,
// and the terminals of terms not found in ref.
// Both lists must be sorted.
func diffTerms(ref, terms []string) (missing, extra []string) {
	for _, tax := range ref {
		if _, ok := slices.BinarySearch(terms, tax); !ok {
			missing = append(missing, tax)
		}
	}
	for _, tax := range terms {
		if _, ok := slices.BinarySearch(ref, tax); !ok {
			extra = append(extra, tax)
		}
	}
	return missing, extra
}
