// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// A Collection is an ordered set of trees.
type Collection struct {
	trees []*Tree
	names map[string]*Tree
}

// NewCollection creates a new empty collection.
func NewCollection() *Collection {
	return &Collection{
		names: make(map[string]*Tree),
	}
}

// Add adds a tree to the collection.
// The name of the tree must be unique.
func (c *Collection) Add(t *Tree) error {
	if t.Name() == "" {
		return errors.New("tree without name")
	}
	if _, dup := c.names[t.Name()]; dup {
		return fmt.Errorf("tree %q already in collection", t.Name())
	}
	c.trees = append(c.trees, t)
	c.names[t.Name()] = t
	return nil
}

// Len returns the number of trees in the collection.
func (c *Collection) Len() int {
	return len(c.trees)
}

// Names returns the names of the trees,
// in the order in which they were added.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.trees))
	for _, t := range c.trees {
		names = append(names, t.Name())
	}
	return names
}

// Terms returns the taxa of the first tree
// in the collection.
func (c *Collection) Terms() []string {
	if len(c.trees) == 0 {
		return nil
	}
	return c.trees[0].Terms()
}

// Tree returns a tree by its name.
func (c *Collection) Tree(name string) *Tree {
	return c.names[name]
}

// Trees returns the trees of the collection,
// in the order in which they were added.
func (c *Collection) Trees() []*Tree {
	return slices.Clone(c.trees)
}

// A TaxonError is returned when the taxa of a tree
// are different from the taxa of the first tree
// in a collection.
type TaxonError struct {
	Tree string // name of the offending tree
	Ref  string // name of the reference tree
	Want int    // number of taxa in the reference tree
	Got  int    // number of taxa in the offending tree

	Missing string // a taxon of the reference not found in the tree
	Extra   string // a taxon of the tree not in the reference
}

func (e *TaxonError) Error() string {
	msg := fmt.Sprintf("tree %q: got %d taxa, want %d (as in tree %q)", e.Tree, e.Got, e.Want, e.Ref)
	if e.Missing != "" {
		msg += fmt.Sprintf(": taxon %q not found", e.Missing)
	}
	if e.Extra != "" {
		msg += fmt.Sprintf(": unexpected taxon %q", e.Extra)
	}
	return msg
}

// Validate checks that all trees in the collection
// have the same taxa.
// It returns a *TaxonError for the first tree
// with different taxa.
func (c *Collection) Validate() error {
	if len(c.trees) == 0 {
		return nil
	}
	ref := c.trees[0]
	for _, t := range c.trees[1:] {
		if err := sameTaxa(ref, t); err != nil {
			return err
		}
	}
	return nil
}

func sameTaxa(ref, t *Tree) error {
	e := &TaxonError{
		Tree: t.Name(),
		Ref:  ref.Name(),
		Want: len(ref.taxa),
		Got:  len(t.taxa),
	}
	for _, tax := range ref.Terms() {
		if _, ok := t.taxa[tax]; !ok {
			e.Missing = tax
			break
		}
	}
	for _, tax := range t.Terms() {
		if _, ok := ref.taxa[tax]; !ok {
			e.Extra = tax
			break
		}
	}
	if e.Missing == "" && e.Extra == "" {
		return nil
	}
	return e
}

// ErrNoInput is returned when there are no tree files
// to be read.
var ErrNoInput = errors.New("no tree files found")

// DefaultExt is the default extension
// of Newick tree files.
const DefaultExt = ".nwk"

// Files returns the files of a directory
// with any of the indicated extensions
// (case insensitive).
// If no extension is given,
// DefaultExt will be used.
// Files are sorted by name.
//
// If the directory does not exist,
// or there are no matching files,
// it returns an error that wraps ErrNoInput.
func Files(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{DefaultExt}
	}
	exts = slices.Clone(exts)
	for i, x := range exts {
		x = strings.ToLower(strings.TrimSpace(x))
		if x != "" && !strings.HasPrefix(x, ".") {
			x = "." + x
		}
		exts[i] = x
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("on directory %q: %w: %w", dir, ErrNoInput, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		x := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(exts, x) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("on directory %q: %w (extensions %s)", dir, ErrNoInput, strings.Join(exts, ", "))
	}
	slices.Sort(files)
	return files, nil
}

// ReadFiles reads trees from Newick files
// and returns the trees as a collection.
// All trees must have the same taxa.
//
// See ReadAll for the names of the trees.
func ReadFiles(files []string) (*Collection, error) {
	c, err := ReadAll(files)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadAll reads trees from Newick files
// without checking the taxa of the trees.
//
// Each tree is named after its file
// (see ReadFile).
// If a name is already in the collection
// (for example, a file with the same name
// in a different directory),
// a number is added to the name.
func ReadAll(files []string) (*Collection, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	c := NewCollection()
	for _, fn := range files {
		trees, err := ReadFile(fn)
		if err != nil {
			return nil, err
		}
		for _, t := range trees {
			c.uniqueName(t)
			if err := c.Add(t); err != nil {
				return nil, fmt.Errorf("on file %q: %v", fn, err)
			}
		}
	}
	return c, nil
}

// UniqueName renames a tree
// if its name is already in the collection.
func (c *Collection) uniqueName(t *Tree) {
	name := t.Name()
	if _, dup := c.names[name]; !dup {
		return
	}
	for i := 2; ; i++ {
		nn := fmt.Sprintf("%s#%d", name, i)
		if _, dup := c.names[nn]; !dup {
			t.SetName(nn)
			return
		}
	}
}

// ReadFile reads the trees of a Newick file.
// If the file has a single tree,
// the tree is named after the file
// (including the extension),
// otherwise a number is added to each tree name.
func ReadFile(name string) ([]*Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trees, err := ReadNewick(f, filepath.Base(name))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = name
		}
		return nil, err
	}
	return trees, nil
}

// ReadDir reads all the Newick files
// with any of the indicated extensions
// in a directory.
// See Files and ReadFiles.
func ReadDir(dir string, exts ...string) (*Collection, error) {
	files, err := Files(dir, exts...)
	if err != nil {
		return nil, err
	}
	return ReadFiles(files)
}
