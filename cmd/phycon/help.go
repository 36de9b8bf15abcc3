// Copyright © 2026 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(configFilesGuide)
	app.Add(treeFilesGuide)
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
PhyCon reads trees from a directory. Each file in the directory with a valid
extension (by default ".nwk", without regard of case) is read as a Newick
file. Files are read in the order of their names, and other files, as well as
sub-directories, are ignored. The default extension can be changed with the
flag --ext, using a comma separated list, for example "nwk,tre".

A Newick file contains one or more trees, each one terminated by a semicolon.
Terminal names can be unquoted, or quoted with single quotes (names with
blanks must be quoted). Branch lengths and internal node labels
are read, but ignored when building a consensus. Comments in square brackets
are ignored. Here is an example file:

	[bootstrap replicate 1]
	(('Homo sapiens':0.1,Pan_troglodytes:0.1)0.95:0.2,Gorilla:0.3,Pongo:0.5);

If a file has a single tree, the tree is named after the file (including the
extension). If it has more than one tree, a number is added to the name, for
example "replicate.nwk.1", "replicate.nwk.2". If two files in different
directories share a name, a number is added to the second name, for example
"replicate.nwk#2".

All trees must have the same terminals. Use the command "phycon terms --check"
to find the trees with different terminals.

Trees can also be read from a time-calibrated tree file, as used by PhyGeo, a
tab-delimited file with the following columns:

	-tree    for the name of the tree.
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the age of the node (in years).
	-taxon   the taxonomic name of the node.

Here is an example file:

	# time calibrated phylogenetic tree
	tree	node	parent	age	taxon
	dinosaurs	0	-1	235000000
	dinosaurs	1	0	230000000	Eoraptor lunensis
	dinosaurs	2	0	170000000
	dinosaurs	3	2	145000000	Ceratosaurus nasicornis
	dinosaurs	4	2	71000000	Carnotaurus sastrei

Use the flag --tsv in the commands to read a time-calibrated tree file.
	`,
}

var configFilesGuide = &command.Command{
	Usage: "config-files",
	Short: "about configuration files",
	Long: `
The parameters of a consensus run can be stored in a configuration file. Use
the flag --config in the commands to read the parameters from a file. Values
set with command flags override the values in the file.

The recommended way to create or edit a configuration file is by using the
command "phycon param".

A configuration file is a tab-delimited file with the following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

Here is an example file:

	# phycon consensus parameters
	parameter	value
	tree_dir	bootstrap_trees
	output_tree	consensus.nwk
	p	0.5
	ext	.nwk,.tre
	rooted	false
	ties	reject
	support	true

If the file name ends with ".yaml" or ".yml", the file is read as a YAML file,
for example:

	tree_dir: bootstrap_trees
	output_tree: consensus.nwk
	p: 0.5
	ext:
	  - .nwk
	  - .tre
	support: true

Valid parameters are:

	- tree_dir     the directory with the input trees.
	- output_tree  the file for the consensus tree. By default, it is
	               "consensus.nwk" in the tree directory.
	- p            the minimum proportion of trees with a split for the
	               split to be included in the consensus. It must be
	               greater than 0 and at most 1. The default is 0.5.
	- ext          the extensions of the tree files.
	- rooted       if true, trees are taken as rooted.
	- ties         the policy for incompatible splits found in the same
	               number of trees. Either "reject" (the default), in which
	               all of them are removed, or "first", in which the split
	               found first is kept.
	- support      if true, the internal nodes of the consensus tree are
	               labeled with the proportion of trees with the node.
	`,
}
