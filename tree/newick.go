// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
)

// ReadNewick reads one or more trees in Newick
// (parenthetical) format.
//
// Each tree must end with a semicolon.
// Terminal names can be single quoted.
// Branch lengths,
// internal node labels,
// and comments in square brackets
// are accepted.
//
// The name is used as the tree name.
// If the input has more than one tree,
// each tree will be named with the name
// and the number of the tree
// (starting at 1).
func ReadNewick(r io.Reader, name string) ([]*Tree, error) {
	texts, err := splitNewick(r)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = name
		}
		return nil, err
	}
	if len(texts) == 0 {
		return nil, &ParseError{File: name, Line: 1, Err: errors.New("no tree found")}
	}

	trees := make([]*Tree, 0, len(texts))
	for i, tx := range texts {
		gt, err := newick.NewParser(strings.NewReader(tx.text)).Parse()
		if err != nil {
			return nil, &ParseError{
				File: name,
				Line: tx.line,
				Err:  fmt.Errorf("tree %d: %v", i+1, err),
			}
		}
		t, err := FromGoTree(gt, name)
		if err != nil {
			return nil, &ParseError{
				File: name,
				Line: tx.line,
				Err:  fmt.Errorf("tree %d: %v", i+1, err),
			}
		}
		trees = append(trees, t)
	}

	if len(trees) > 1 {
		for i, t := range trees {
			t.SetName(fmt.Sprintf("%s.%d", name, i+1))
		}
	}
	return trees, nil
}

// A ParseError is returned when a Newick file
// cannot be read.
//
// Line is the line in which a structural error
// (quotes, comments, parenthesis, or semicolons)
// was found.
// For any other error,
// it is the line in which the tree starts.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("on file %q: line %d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// A newickText is the text of a single tree
// ended by a semicolon.
type newickText struct {
	line int
	text string
}

// SplitNewick splits the input in the text of each tree,
// and removes the comments.
func splitNewick(r io.Reader) ([]newickText, error) {
	br := bufio.NewReader(r)
	line := 1
	errorf := func(format string, a ...any) error {
		return &ParseError{Line: line, Err: fmt.Errorf(format, a...)}
	}

	var texts []newickText
	var b strings.Builder
	start := 0
	depth := 0
	quoted := false
	for {
		c, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errorf("%v", err)
		}
		if c == '\n' {
			line++
		}

		if quoted {
			if c == '\'' {
				quoted = false
			}
			b.WriteRune(c)
			continue
		}

		switch {
		case c == '[':
			for {
				c, _, err := br.ReadRune()
				if errors.Is(err, io.EOF) {
					return nil, errorf("unclosed comment")
				}
				if err != nil {
					return nil, errorf("%v", err)
				}
				if c == '\n' {
					line++
				}
				if c == ']' {
					break
				}
			}
			continue
		case isSpace(c):
			if b.Len() > 0 {
				b.WriteRune(c)
			}
			continue
		case c == '\'':
			quoted = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, errorf("unexpected ')'")
			}
		}

		if b.Len() == 0 {
			start = line
		}
		b.WriteRune(c)
		if c != ';' {
			continue
		}
		if depth != 0 {
			return nil, errorf("tree %d: unbalanced parenthesis", len(texts)+1)
		}
		texts = append(texts, newickText{line: start, text: b.String()})
		b.Reset()
	}

	if quoted {
		return nil, errorf("unclosed quoted name")
	}
	if b.Len() > 0 {
		return nil, errorf("tree %d: expecting ';'", len(texts)+1)
	}
	return texts, nil
}

// Format sets the optional elements
// written in a Newick tree.
type Format int

// Valid format options.
const (
	// Lengths writes the branch lengths.
	Lengths Format = 1 << iota

	// Labels writes the labels of internal nodes.
	Labels
)

// Newick writes a tree in Newick format.
// The format indicates if branch lengths
// and internal node labels will be written.
func (t *Tree) Newick(w io.Writer, f Format) error {
	bw := bufio.NewWriter(w)
	t.writeNode(bw, t.Root(), f)
	fmt.Fprintf(bw, ";\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("tree %q: %v", t.name, err)
	}
	return nil
}

// String returns the tree in Newick format
// with all of its elements.
func (t *Tree) String() string {
	var b strings.Builder
	t.Newick(&b, Lengths|Labels)
	return strings.TrimSpace(b.String())
}

func (t *Tree) writeNode(w *bufio.Writer, id int, f Format) {
	n := t.nodes[id]
	if len(n.children) == 0 {
		w.WriteString(quote(n.taxon))
	} else {
		w.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				w.WriteByte(',')
			}
			t.writeNode(w, c, f)
		}
		w.WriteByte(')')
		if f&Labels != 0 && n.label != "" {
			w.WriteString(quote(n.label))
		}
	}
	if f&Lengths != 0 && n.hasLen {
		w.WriteByte(':')
		w.WriteString(strconv.FormatFloat(n.length, 'g', 6, 64))
	}
}

// Quote returns a name quoted
// if it contains blanks or Newick delimiters.
func quote(name string) string {
	if !strings.ContainsFunc(name, func(r rune) bool {
		return isDelim(r) || isSpace(r)
	}) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func isDelim(r rune) bool {
	switch r {
	case '(', ')', ',', ':', ';', '[', ']', '\'':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
