// illprep: preparing Illumina variant calls for GATK-based pipelines.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/illprep/blob/master/LICENSE.txt>.

// illprep prepares the variant calls of Illumina-sequenced samples,
// merging them into single-sample GATK-compatible VCF files.
//
// Usage:
//
//	illprep config-file cores
//
// The configuration file lists glob patterns of sample directories,
// the identifier remap file, the bcbio.variation jar and the reference
// genomes. See the cmd package for details.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/illprep/cmd"
)

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		fmt.Fprint(os.Stderr, cmd.PrepHelp)
		os.Exit(1)
	}

	if cmd.IsHelp(os.Args[1]) {
		fmt.Fprint(os.Stderr, cmd.PrepHelp)
		return
	}

	if err := cmd.Prep(); err != nil {
		log.Fatal(err)
	}
}
