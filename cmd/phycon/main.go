// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyCon is a tool to build majority-rule consensus trees
// from a set of phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phycon/cmd/phycon/draw"
	"github.com/js-arias/phycon/cmd/phycon/majority"
	"github.com/js-arias/phycon/cmd/phycon/param"
	"github.com/js-arias/phycon/cmd/phycon/splits"
	"github.com/js-arias/phycon/cmd/phycon/terms"
)

var app = &command.Command{
	Usage: "phycon <command> [<argument>...]",
	Short: "a tool for consensus of phylogenetic trees",
}

func init() {
	app.Add(majority.Command)
	app.Add(splits.Command)
	app.Add(draw.Command)
	app.Add(terms.Command)
	app.Add(param.Command)
}

func main() {
	app.Main()
}
