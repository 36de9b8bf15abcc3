// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// trees as SVG files.
package draw

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/command"
	"github.com/js-arias/phycon/tree"
)

var Command = &command.Command{
	Usage: `draw [--step <value>] [--color <scheme>]
	[--labels] [--percent]
	[-o|--output <out-prefix>]
	<tree-file>`,
	Short: "draw trees as SVG files",
	Long: `
Command draw reads the trees in a Newick file, for example, a consensus tree,
and draws them into SVG-encoded files.

The argument of the command is the name of the Newick file.

Branches are colored by the support of the node, read from the internal node
labels. Labels are taken as proportions (values between 0 and 1), or as
percentages (values above 1 and up to 100). A label of exactly 1 is taken as
full support. Use the flag --percent to read all labels as percentages (so a
label of 1 is 1% of support). Branches without support are drawn in gray. The flag --color sets the color scheme. Valid values are:

	- gradient     a gradient from purple to red (the default).
	- iridescent   the iridescent scheme of Paul Tol.
	- incandescent the incandescent scheme of Paul Tol.

By default, 10 pixel units will be used for each node level; use the flag
--step to define a different value (it can have decimal points).

If the flag --labels is set, the internal node labels will be printed.

By default, the name of the tree file (without the extension) will be used as
the output file name. If the file has more than one tree, the number of the
tree will be added to the name. Use the flag -o, or --output, to define a
prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var labels bool
var percent bool
var stepX float64
var colorFlag string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&labels, "labels", false, "")
	c.Flags().BoolVar(&percent, "percent", false, "")
	c.Flags().Float64Var(&stepX, "step", 10, "")
	c.Flags().StringVar(&colorFlag, "color", "gradient", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}
	if stepX <= 0 {
		return c.UsageError("invalid --step value")
	}
	gr, err := parseColor(colorFlag)
	if err != nil {
		return err
	}

	ts, err := tree.ReadFile(args[0])
	if err != nil {
		return err
	}

	for i, t := range ts {
		name := svgName(args[0], i, len(ts))
		if err := writeSVG(name, copyTree(t, stepX, gr)); err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "tree %q drawn in %q\n", t.Name(), name)
	}
	return nil
}

// svgName returns the name of the SVG file
// of the i-th tree
// from a tree file with n trees.
func svgName(file string, i, n int) string {
	name := filepath.Base(file)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if n > 1 {
		name = fmt.Sprintf("%s.%d", name, i+1)
	}
	if outPrefix != "" {
		return fmt.Sprintf("%s-%s.svg", outPrefix, name)
	}
	return name + ".svg"
}

func writeSVG(name string, t svgTree) (err error) {
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
	if err := t.draw(bw, labels); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

// A gradient returns a color
// for a value between 0 and 1.
type gradient interface {
	Gradient(v float64) color.Color
}

func parseColor(name string) (gradient, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gradient":
		return rainbow{}, nil
	case "iridescent":
		return iridescent{}, nil
	case "incandescent":
		return incandescent{}, nil
	}
	return nil, fmt.Errorf("unknown color scheme %q", name)
}

// Rainbow is the default gradient of the blind package.
type rainbow struct{}

func (r rainbow) Gradient(v float64) color.Color {
	return blind.Gradient(clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type iridescent struct{}

func (i iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type incandescent struct{}

func (i incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
