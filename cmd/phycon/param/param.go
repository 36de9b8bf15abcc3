// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the parameters of a consensus run.
package param

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phycon/config"
)

var Command = &command.Command{
	Usage: `param [--new] [--dir <tree-dir>] [--output <file>]
	[--p <value>] [--ext <extensions>]
	[--rooted <bool>] [--ties <policy>] [--support <bool>]
	<config-file>`,
	Short: "manage consensus parameters",
	Long: `
Command param creates, prints or edits a configuration file with the
parameters of a consensus run. See "phycon help config-files" for the
parameters of the file.

The argument of the command is the name of the configuration file. If the
file name ends with ".yaml" or ".yml", the file will be written as a YAML
file; otherwise, as a tab-delimited file.

By default, the command will print the currently defined parameters.

Use the flag --new to create a new configuration file with the default
parameters. An existing file will be overwritten.

The flags --dir, --output, --p, --ext, --rooted, --ties, and --support set
the value of the tree directory, the output file, the threshold, the
extensions of the tree files, whether trees are rooted, the tie policy, and
whether support values are written, respectively. If any of the flags is
given, the configuration file will be updated.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var newFlag bool
var threshold = math.NaN()
var dirFlag string
var outFlag string
var extFlag string
var rootedFlag string
var tiesFlag string
var supportFlag string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&newFlag, "new", false, "")
	c.Flags().Float64Var(&threshold, "p", math.NaN(), "")
	c.Flags().StringVar(&dirFlag, "dir", "", "")
	c.Flags().StringVar(&outFlag, "output", "", "")
	c.Flags().StringVar(&extFlag, "ext", "", "")
	c.Flags().StringVar(&rootedFlag, "rooted", "", "")
	c.Flags().StringVar(&tiesFlag, "ties", "", "")
	c.Flags().StringVar(&supportFlag, "support", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting configuration file")
	}

	cfg, err := config.Read(args[0])
	if newFlag {
		cfg = config.New(args[0])
	} else if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("configuration file %q not found: use --new to create it", args[0])
	}

	ed, err := setParams(cfg)
	if err != nil {
		return err
	}
	if ed || newFlag {
		return cfg.Write()
	}

	printParams(c.Stdout(), cfg)
	return nil
}

// setParams sets the parameters from the command flags,
// and returns true if any parameter was changed.
func setParams(cfg *config.Config) (bool, error) {
	ed := false
	set := func(p config.Param, v string) error {
		if v == "" {
			return nil
		}
		ed = true
		return cfg.Set(p, v)
	}

	if !math.IsNaN(threshold) {
		if err := cfg.SetP(threshold); err != nil {
			return false, err
		}
		ed = true
	}
	if err := set(config.TreeDir, dirFlag); err != nil {
		return false, err
	}
	if err := set(config.Output, outFlag); err != nil {
		return false, err
	}
	if err := set(config.Ext, extFlag); err != nil {
		return false, err
	}
	if err := set(config.Rooted, rootedFlag); err != nil {
		return false, fmt.Errorf("flag --rooted: %v", err)
	}
	if err := set(config.Ties, tiesFlag); err != nil {
		return false, err
	}
	if err := set(config.Support, supportFlag); err != nil {
		return false, fmt.Errorf("flag --support: %v", err)
	}
	return ed, nil
}

func printParams(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "file:      %s\n", cfg.Name())
	fmt.Fprintf(w, "tree dir:  %s\n", cfg.TreeDir())
	fmt.Fprintf(w, "output:    %s\n", cfg.Output())
	fmt.Fprintf(w, "p:         %.6g\n", cfg.P())
	fmt.Fprintf(w, "ext:       %s\n", strings.Join(cfg.Ext(), ", "))
	fmt.Fprintf(w, "rooted:    %v\n", cfg.Rooted())
	fmt.Fprintf(w, "ties:      %s\n", cfg.Ties())
	fmt.Fprintf(w, "support:   %v\n", cfg.Support())
}
