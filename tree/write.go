// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"os"
	"path/filepath"
)

// A WriteError is returned when a tree
// cannot be written into a file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("while writing file %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteFile writes a tree in Newick format
// into a file.
//
// The tree is first written into a temporary file
// in the same directory,
// that is renamed only after a successful write,
// so a previous file with the same name
// is never truncated on failure.
func WriteFile(name string, t *Tree, f Format) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".phycon-*.tmp")
	if err != nil {
		return &WriteError{Path: name, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := t.Newick(tmp, f); err != nil {
		return &WriteError{Path: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: name, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &WriteError{Path: name, Err: err}
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return &WriteError{Path: name, Err: err}
	}
	return nil
}
