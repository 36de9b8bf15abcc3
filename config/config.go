// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package config implements reading and writing
// of the parameters used to build a consensus tree.
//
// Parameters are stored in a tab-delimited file,
// or in a YAML file
// if the file name ends with ".yaml" or ".yml".
package config

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/phycon/consensus"
	"github.com/js-arias/phycon/tree"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Param is a keyword to identify
// a parameter in a configuration file.
type Param string

// Valid parameters.
const (
	// TreeDir is the directory with the input trees.
	TreeDir Param = "tree_dir"

	// Output is the file for the consensus tree.
	Output Param = "output_tree"

	// Threshold is the minimum proportion of trees
	// for a split to be in the consensus.
	Threshold Param = "p"

	// Ext is a comma separated list
	// of the extensions of the tree files.
	Ext Param = "ext"

	// Rooted indicates if the trees are taken as rooted.
	Rooted Param = "rooted"

	// Ties is the policy for incompatible splits
	// with the same frequency.
	Ties Param = "ties"

	// Support indicates if the support of the nodes
	// is written in the consensus tree.
	Support Param = "support"
)

// DefaultOutput is the name of the consensus tree file
// used when no output is defined.
const DefaultOutput = "consensus.nwk"

// Config is a set of parameters
// for a consensus run.
type Config struct {
	name string // file name

	treeDir string
	output  string
	p       float64
	ext     []string
	rooted  bool
	ties    consensus.TiePolicy
	support bool
}

// New creates a new configuration
// with default values.
func New(name string) *Config {
	return &Config{
		name: name,
		p:    consensus.DefaultThreshold,
		ext:  []string{tree.DefaultExt},
		ties: consensus.TieReject,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a configuration file.
//
// If the file name ends with ".yaml" or ".yml",
// the file is read as a YAML file,
// for example:
//
//	tree_dir: bootstrap_trees
//	output_tree: consensus.nwk
//	p: 0.5
//
// Otherwise it is read as a TSV file
// that must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# phycon consensus parameters
//	parameter	value
//	tree_dir	bootstrap_trees
//	output_tree	consensus.nwk
//	p	0.5
func Read(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := New(name)
	if isYAML(name) {
		err = cfg.readYAML(f)
	} else {
		err = cfg.readTSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return cfg, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (cfg *Config) readTSV(r io.Reader) error {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return fmt.Errorf("expecting field %q", h)
		}
	}

	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		if err := cfg.Set(p, row[fields[f]]); err != nil {
			return fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}
	}
	return nil
}

// yamlConfig is the layout of a YAML configuration file.
type yamlConfig struct {
	TreeDir string   `yaml:"tree_dir"`
	Output  string   `yaml:"output_tree,omitempty"`
	P       *float64 `yaml:"p,omitempty"`
	Ext     []string `yaml:"ext,omitempty"`
	Rooted  bool     `yaml:"rooted,omitempty"`
	Ties    string   `yaml:"ties,omitempty"`
	Support bool     `yaml:"support,omitempty"`
}

func (cfg *Config) readYAML(r io.Reader) error {
	var yc yamlConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&yc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	cfg.treeDir = strings.TrimSpace(yc.TreeDir)
	cfg.output = strings.TrimSpace(yc.Output)
	if yc.P != nil {
		if err := cfg.SetP(*yc.P); err != nil {
			return err
		}
	}
	if len(yc.Ext) > 0 {
		cfg.SetExt(yc.Ext...)
	}
	cfg.rooted = yc.Rooted
	if err := cfg.SetTies(yc.Ties); err != nil {
		return err
	}
	cfg.support = yc.Support
	return nil
}

// Set sets a parameter from its string value.
// Unknown parameters are ignored.
func (cfg *Config) Set(p Param, value string) error {
	value = strings.TrimSpace(value)
	switch p {
	case TreeDir:
		cfg.treeDir = value
	case Output:
		cfg.output = value
	case Threshold:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		return cfg.SetP(v)
	case Ext:
		cfg.SetExt(strings.Split(value, ",")...)
	case Rooted:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		cfg.rooted = v
	case Ties:
		return cfg.SetTies(value)
	case Support:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		cfg.support = v
	}
	return nil
}

// Ext returns the extensions of the tree files.
func (cfg *Config) Ext() []string {
	return slices.Clone(cfg.ext)
}

// Name returns the file name of the configuration.
func (cfg *Config) Name() string {
	return cfg.name
}

// Options returns the options to build a consensus tree.
// Use cpu to define the number of process
// used to extract splits.
func (cfg *Config) Options(cpu int) consensus.Options {
	return consensus.Options{
		P:      cfg.p,
		Rooted: cfg.rooted,
		Ties:   cfg.ties,
		CPU:    cpu,
	}
}

// Output returns the file for the consensus tree.
// If no output file is defined,
// it returns DefaultOutput in the tree directory.
func (cfg *Config) Output() string {
	if cfg.output != "" {
		return cfg.output
	}
	return filepath.Join(cfg.treeDir, DefaultOutput)
}

// P returns the minimum proportion of trees
// for a split to be in the consensus.
func (cfg *Config) P() float64 {
	return cfg.p
}

// Rooted returns true if the trees are taken as rooted.
func (cfg *Config) Rooted() bool {
	return cfg.rooted
}

// SetExt sets the extensions of the tree files.
func (cfg *Config) SetExt(ext ...string) {
	var ls []string
	for _, x := range ext {
		x = strings.ToLower(strings.TrimSpace(x))
		if x == "" {
			continue
		}
		if !strings.HasPrefix(x, ".") {
			x = "." + x
		}
		ls = append(ls, x)
	}
	if len(ls) == 0 {
		return
	}
	cfg.ext = ls
}

// SetName sets the file name of the configuration.
func (cfg *Config) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	cfg.name = name
}

// SetOutput sets the file for the consensus tree.
func (cfg *Config) SetOutput(name string) {
	cfg.output = strings.TrimSpace(name)
}

// SetP sets the minimum proportion of trees
// for a split to be in the consensus.
func (cfg *Config) SetP(p float64) error {
	if !(p > 0 && p <= 1) {
		return fmt.Errorf("%w: %v: must be in (0, 1]", consensus.ErrThreshold, p)
	}
	cfg.p = p
	return nil
}

// SetRooted sets if the trees are taken as rooted.
func (cfg *Config) SetRooted(rooted bool) {
	cfg.rooted = rooted
}

// SetSupport sets if the support of the nodes
// is written in the consensus tree.
func (cfg *Config) SetSupport(support bool) {
	cfg.support = support
}

// SetTies sets the policy for incompatible splits
// with the same frequency.
func (cfg *Config) SetTies(name string) error {
	tp, err := consensus.ParseTies(name)
	if err != nil {
		return err
	}
	cfg.ties = tp
	return nil
}

// SetTreeDir sets the directory with the input trees.
func (cfg *Config) SetTreeDir(dir string) {
	cfg.treeDir = strings.TrimSpace(dir)
}

// Support returns true if the support of the nodes
// is written in the consensus tree.
func (cfg *Config) Support() bool {
	return cfg.support
}

// Ties returns the policy for incompatible splits
// with the same frequency.
func (cfg *Config) Ties() consensus.TiePolicy {
	return cfg.ties
}

// TreeDir returns the directory with the input trees.
func (cfg *Config) TreeDir() string {
	return cfg.treeDir
}

// Write writes the configuration into a file.
func (cfg *Config) Write() (err error) {
	f, err := os.Create(cfg.name)
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
	if isYAML(cfg.name) {
		err = cfg.writeYAML(bw)
	} else {
		err = cfg.writeTSV(bw)
	}
	if err != nil {
		return fmt.Errorf("on file %q: %v", cfg.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", cfg.name, err)
	}
	return nil
}

func (cfg *Config) writeTSV(w io.Writer) error {
	fmt.Fprintf(w, "# phycon consensus parameters\n")
	fmt.Fprintf(w, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	rows := [][]string{
		{string(TreeDir), cfg.treeDir},
		{string(Output), cfg.output},
		{string(Threshold), strconv.FormatFloat(cfg.p, 'f', -1, 64)},
		{string(Ext), strings.Join(cfg.ext, ",")},
		{string(Rooted), strconv.FormatBool(cfg.rooted)},
		{string(Ties), cfg.ties.String()},
		{string(Support), strconv.FormatBool(cfg.support)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

func (cfg *Config) writeYAML(w io.Writer) error {
	p := cfg.p
	yc := yamlConfig{
		TreeDir: cfg.treeDir,
		Output:  cfg.output,
		P:       &p,
		Ext:     cfg.ext,
		Rooted:  cfg.rooted,
		Ties:    cfg.ties.String(),
		Support: cfg.support,
	}

	fmt.Fprintf(w, "# phycon consensus parameters\n")
	fmt.Fprintf(w, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yc); err != nil {
		return err
	}
	return enc.Close()
}

// Trees reads the trees in the tree directory.
// The output file is not read,
// even if it is stored in the tree directory.
func (cfg *Config) Trees() (*tree.Collection, error) {
	files, err := tree.Files(cfg.treeDir, cfg.ext...)
	if err != nil {
		return nil, err
	}

	out, err := filepath.Abs(cfg.Output())
	if err != nil {
		return nil, err
	}
	in := files[:0]
	for _, f := range files {
		if a, err := filepath.Abs(f); err == nil && a == out {
			continue
		}
		in = append(in, f)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("on directory %q: %w", cfg.treeDir, tree.ErrNoInput)
	}

	return tree.ReadFiles(in)
}
