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

// Package samples discovers Illumina sample directories and resolves
// their canonical identifiers.
package samples

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/exascience/illprep/internal"
	"github.com/exascience/illprep/remap"
	"github.com/exascience/illprep/vcf"
)

// SNPsFile is the location of the variant calls inside a sample
// directory.
var SNPsFile = filepath.Join("Variations", "SNPs.vcf")

// A Record describes one discovered sample directory.
type Record struct {
	// ID is the canonical identifier. It is only meaningful when
	// Resolved is true.
	ID       string
	Resolved bool

	Dir        string
	IlluminaID string
}

// FromDir reads the Illumina identifier of the sample in dir and
// resolves it against idmap.
func FromDir(dir string, idmap remap.IdentifierMap) (Record, error) {
	illuminaID, err := vcf.ReadIlluminaIDFile(filepath.Join(dir, SNPsFile))
	if err != nil {
		return Record{}, err
	}
	id, found := idmap.Lookup(illuminaID)
	return Record{ID: id, Resolved: found, Dir: dir, IlluminaID: illuminaID}, nil
}

// Discover expands each glob pattern in turn and returns a record for
// every matching directory. Matches that are not directories are
// ignored, as are hidden matches (base name starting with '.') unless
// the last element of the pattern starts with '.' itself. Records are
// ordered by pattern, then by match.
func Discover(patterns []string, idmap remap.IdentifierMap) ([]Record, error) {
	var records []Record
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "input pattern %v", pattern)
		}
		showHidden := isHidden(pattern)
		for _, dir := range matches {
			if !showHidden && isHidden(dir) {
				continue
			}
			if !internal.IsDir(dir) {
				continue
			}
			record, err := FromDir(dir, idmap)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Unresolved returns the records without a canonical identifier.
func Unresolved(records []Record) (result []Record) {
	for _, record := range records {
		if !record.Resolved {
			result = append(result, record)
		}
	}
	return result
}
