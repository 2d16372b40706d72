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

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/exascience/illprep/config"
	"github.com/exascience/illprep/convert"
	"github.com/exascience/illprep/dispatch"
	"github.com/exascience/illprep/remap"
	"github.com/exascience/illprep/samples"
)

// PrepHelp is the help string for illprep.
const PrepHelp = "illprep parameters:\n" +
	"illprep config-file cores\n" +
	"\n" +
	"Converts the Illumina variant calls of every sample directory matched\n" +
	"by the inputs of config-file into a single-sample GATK-compatible VCF\n" +
	"file <id>.vcf in the current directory, using up to cores parallel\n" +
	"conversions. Samples whose output file exists are skipped.\n"

// HelpMessage is printed when illprep is called without parameters.
const HelpMessage = "Print command details:\n" +
	"[--help]\n"

// Prep implements the illprep command line.
func Prep() error {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, PrepHelp)
		os.Exit(1)
	}
	configFile := getFilename(os.Args[1], PrepHelp)
	cores := getNumber(os.Args[2], "number of cores", PrepHelp)

	if !checkExist("", configFile) {
		fmt.Fprint(os.Stderr, PrepHelp)
		os.Exit(1)
	}

	if err := setLogOutput(""); err != nil {
		log.Println("Warning: cannot create log file:", err)
	}

	var cfg *config.Config
	if err := timedRun("Loading configuration "+configFile+".", func() (err error) {
		cfg, err = config.Load(configFile)
		return err
	}); err != nil {
		return err
	}

	task, err := convert.NewTask(cfg)
	if err != nil {
		return err
	}

	ids, err := run(cfg, task, cores)
	var unresolved *dispatch.UnresolvedIdentifierError
	if errors.As(err, &unresolved) {
		printProblems(os.Stdout, unresolved.Samples)
	}
	if err != nil {
		return err
	}
	log.Println("Processed", len(ids), "samples.")
	return nil
}

// run loads the remap file named by cfg, discovers the input samples,
// and converts them with up to workers parallel tasks.
func run(cfg *config.Config, converter dispatch.Converter, workers int) (ids []string, err error) {
	var idmap remap.IdentifierMap
	if err = timedRun("Reading identifier mapping "+cfg.IDMapping+".", func() (err error) {
		idmap, err = remap.Load(cfg.IDMapping)
		return err
	}); err != nil {
		return nil, err
	}

	var records []samples.Record
	if err = timedRun("Discovering samples.", func() (err error) {
		records, err = samples.Discover(cfg.Inputs, idmap)
		return err
	}); err != nil {
		return nil, err
	}
	log.Println("Found", len(records), "sample directories.")

	err = timedRun("Converting samples.", func() (err error) {
		ids, err = dispatch.Run(records, converter, workers)
		return err
	})
	return ids, err
}

func printProblems(w io.Writer, problems []samples.Record) {
	fmt.Fprintln(w, "Problem identifiers")
	for _, p := range problems {
		fmt.Fprintln(w, p.IlluminaID, filepath.Base(p.Dir))
	}
}
