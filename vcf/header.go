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

// Package vcf locates the sample column of the VCF files written by
// the Illumina pipeline. Only the #CHROM header line is inspected;
// records are never parsed.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

const (
	// ChromHeaderPrefix starts the VCF column header line.
	ChromHeaderPrefix = "#CHROM"

	// PolySuffix is appended to sample names by the Illumina
	// polymorphism caller.
	PolySuffix = "_POLY"
)

// A MissingHeaderError reports a VCF file without a #CHROM line.
type MissingHeaderError struct {
	Filename string
}

func (err *MissingHeaderError) Error() string {
	return fmt.Sprintf("did not find sample information in %v: no %v header line", err.Filename, ChromHeaderPrefix)
}

// IlluminaIDFromHeader extracts the Illumina identifier from a #CHROM
// header line: the last tab-separated field, with PolySuffix removed
// and trailing white space stripped.
func IlluminaIDFromHeader(line string) string {
	var sc StringScanner
	sc.Reset(line)
	field := strings.Replace(sc.LastField(), PolySuffix, "", -1)
	return strings.TrimRightFunc(field, unicode.IsSpace)
}

// ReadIlluminaID scans r until the #CHROM header line and returns the
// Illumina identifier it names.
func ReadIlluminaID(r io.Reader, filename string) (string, error) {
	input, ok := r.(*bufio.Reader)
	if !ok {
		input = bufio.NewReader(r)
	}
	var sc StringScanner
	for {
		line, err := input.ReadString('\n')
		if line != "" {
			sc.Reset(line)
			if sc.HasPrefix(ChromHeaderPrefix) {
				return IlluminaIDFromHeader(line), nil
			}
		}
		if err == io.EOF {
			return "", &MissingHeaderError{Filename: filename}
		} else if err != nil {
			return "", errors.Wrapf(err, "reading %v", filename)
		}
	}
}

// ReadIlluminaIDFile opens the named VCF file, which may be
// compressed, and returns its Illumina identifier.
func ReadIlluminaIDFile(filename string) (id string, err error) {
	in, err := xopen.Ropen(filename)
	if err != nil {
		return "", errors.Wrap(err, "opening VCF file")
	}
	defer func() {
		if nerr := in.Close(); err == nil && nerr != nil {
			err = nerr
		}
	}()
	return ReadIlluminaID(in.Reader, filename)
}
