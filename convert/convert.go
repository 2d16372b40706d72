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

// Package convert runs the bcbio.variation Illumina converter for a
// single sample.
package convert

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/brentp/xopen"
	"github.com/pkg/errors"

	"github.com/exascience/illprep/config"
	"github.com/exascience/illprep/internal"
	"github.com/exascience/illprep/samples"
)

// VcfExt is the extension of the converted per-sample files.
const VcfExt = ".vcf"

// A DirectoryCreationError reports a temporary directory that could
// not be created and that also was not created by anybody else.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (err *DirectoryCreationError) Error() string {
	return fmt.Sprintf("cannot create temporary directory %v: %v", err.Dir, err.Err)
}

func (err *DirectoryCreationError) Unwrap() error {
	return err.Err
}

// A ConversionToolError reports a non-zero exit status of the
// converter. Status is -1 when the tool could not be run at all.
type ConversionToolError struct {
	SampleID string
	Tool     string
	Args     []string
	Status   int
	Err      error
}

func (err *ConversionToolError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("converting sample %v: running %v: %v", err.SampleID, err.Tool, err.Err)
	}
	return fmt.Sprintf("converting sample %v: %v exited with status %v", err.SampleID, err.Tool, err.Status)
}

func (err *ConversionToolError) Unwrap() error {
	return err.Err
}

// A Task converts samples with the settings of one run. A Task is
// safe for concurrent use as long as its Invoker is.
type Task struct {
	Config *config.Config

	// OutDir receives the converted files. It is also the temporary
	// directory when Config does not name one.
	OutDir string

	Invoker Invoker
}

// NewTask returns a Task that writes to the current working directory
// and runs the converter as a subprocess.
func NewTask(cfg *config.Config) (*Task, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "determining working directory")
	}
	return &Task{Config: cfg, OutDir: wd, Invoker: ExecInvoker{}}, nil
}

// TempDir returns the temporary directory handed to the converter.
func (task *Task) TempDir() string {
	return task.Config.TempDir(task.OutDir)
}

// OutFile returns the converted file for the sample with the given
// canonical identifier.
func (task *Task) OutFile(id string) string {
	return filepath.Join(task.OutDir, id+VcfExt)
}

// ensureDir creates dir unless it exists. Several workers may race to
// create the same directory, so failing to create it is only an error
// when it still does not exist afterwards.
func ensureDir(dir string) error {
	if internal.IsDir(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		if internal.IsDir(dir) {
			return nil
		}
		return &DirectoryCreationError{Dir: dir, Err: err}
	}
	return nil
}

// Args returns the java command line that converts sample.
func (task *Task) Args(sample samples.Record) []string {
	cfg := task.Config
	args := append([]string(nil), cfg.JVMOpts...)
	return append(args,
		"-jar", cfg.BcbioVariation,
		"variant-utils", "illumina",
		sample.Dir, sample.ID,
		cfg.Ref[config.GRCh37], cfg.Ref[config.Hg19],
		"--outdir", task.OutDir,
		"--tmpdir", task.TempDir(),
	)
}

// Convert converts sample unless its output file already exists, and
// returns the sample's canonical identifier.
func (task *Task) Convert(sample samples.Record) (string, error) {
	if !sample.Resolved {
		return "", errors.Errorf("sample %v in %v has no canonical identifier", sample.IlluminaID, sample.Dir)
	}
	if err := ensureDir(task.TempDir()); err != nil {
		return "", err
	}
	outFile := task.OutFile(sample.ID)
	if xopen.Exists(outFile) {
		log.Println("Skipping", sample.ID, "- output exists:", outFile)
		return sample.ID, nil
	}
	log.Println(sample.ID, sample.Dir, outFile)
	tool, args := task.Config.Java, task.Args(sample)
	status, err := task.Invoker.Invoke(tool, args)
	if err != nil || status != 0 {
		return "", &ConversionToolError{SampleID: sample.ID, Tool: tool, Args: args, Status: status, Err: err}
	}
	return sample.ID, nil
}
