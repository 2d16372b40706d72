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

// Package config reads the YAML run configuration of illprep.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Reference genome builds that must be present in the ref table.
const (
	GRCh37 = "GRCh37"
	Hg19   = "hg19"
)

// DefaultJava is the Java launcher used when the config does not name one.
const DefaultJava = "java"

// DefaultJVMOpts are the heap settings passed to the converter's JVM
// when the config does not specify any.
var DefaultJVMOpts = []string{"-Xms1g", "-Xmx2g"}

// Config is the contents of an illprep configuration file.
type Config struct {
	// IDMapping is the two-column file that maps Illumina identifiers
	// to canonical sample identifiers.
	IDMapping string `yaml:"idmapping"`

	// Inputs are glob patterns matching per-sample directories.
	Inputs []string `yaml:"inputs"`

	// BcbioVariation is the path to the bcbio.variation jar.
	BcbioVariation string `yaml:"bcbio.variation"`

	// Ref maps genome build names to reference genome paths.
	Ref map[string]string `yaml:"ref"`

	// TmpDir is optional; it defaults to the working directory.
	TmpDir string `yaml:"tmpdir,omitempty"`

	Java    string   `yaml:"java,omitempty"`
	JVMOpts []string `yaml:"jvm_opts,omitempty"`
}

// A MissingKeyError reports a required configuration key that is
// absent or empty.
type MissingKeyError struct {
	Key string
}

func (err *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required configuration key %v", err.Key)
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "configuration %v", path)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration. Keys that illprep
// does not use are ignored.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing YAML")
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Java == "" {
		cfg.Java = DefaultJava
	}
	if len(cfg.JVMOpts) == 0 {
		cfg.JVMOpts = append([]string(nil), DefaultJVMOpts...)
	}
}

// Validate checks that all required keys are present.
func (cfg *Config) Validate() error {
	switch {
	case cfg.IDMapping == "":
		return &MissingKeyError{Key: "idmapping"}
	case len(cfg.Inputs) == 0:
		return &MissingKeyError{Key: "inputs"}
	case cfg.BcbioVariation == "":
		return &MissingKeyError{Key: "bcbio.variation"}
	case cfg.Ref[GRCh37] == "":
		return &MissingKeyError{Key: "ref." + GRCh37}
	case cfg.Ref[Hg19] == "":
		return &MissingKeyError{Key: "ref." + Hg19}
	}
	return nil
}

// TempDir returns the configured temporary directory, or dflt when
// none is configured.
func (cfg *Config) TempDir(dflt string) string {
	if cfg.TmpDir == "" {
		return dflt
	}
	return cfg.TmpDir
}
