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

// Package remap reads identifier remap files, which pair canonical
// sample identifiers with the Illumina identifiers found in VCF
// headers.
//
// A remap file starts with a header line, which is ignored. Every
// other line contains exactly two whitespace-separated fields: the
// canonical identifier followed by the Illumina identifier.
package remap

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brentp/xopen"
	"github.com/exascience/pargo/pipeline"
	"github.com/pkg/errors"

	"github.com/exascience/illprep/internal"
)

// IdentifierMap maps Illumina identifiers to canonical identifiers.
type IdentifierMap map[string]string

// Lookup returns the canonical identifier for illuminaID, if any.
func (m IdentifierMap) Lookup(illuminaID string) (id string, found bool) {
	id, found = m[illuminaID]
	return
}

// A MalformedMappingError reports a data line that does not consist
// of exactly two fields.
type MalformedMappingError struct {
	Filename string
	Line     int
	Text     string
}

func (err *MalformedMappingError) Error() string {
	return fmt.Sprintf("%v:%v: expected two fields, got %q", err.Filename, err.Line, err.Text)
}

type pair struct {
	id, illuminaID string
}

type batch struct {
	pairs []pair
	lines int
	// index of the first malformed line in the batch, or -1
	bad     int
	badText string
}

// Load reads the remap file with the given name. Compressed files
// are decompressed transparently.
func Load(filename string) (m IdentifierMap, err error) {
	in, err := xopen.Ropen(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening remap file")
	}
	defer func() {
		if nerr := in.Close(); err == nil && nerr != nil {
			err = nerr
		}
	}()
	return Read(in.Reader, filename)
}

// Read parses a remap file from r. The filename is only used in
// error messages.
func Read(r io.Reader, filename string) (IdentifierMap, error) {
	input, ok := r.(*bufio.Reader)
	if !ok {
		input = bufio.NewReader(r)
	}
	if header, err := input.ReadString('\n'); err != nil {
		switch {
		case err != io.EOF:
			return nil, errors.Wrapf(err, "reading header of %v", filename)
		case header == "":
			return nil, errors.Errorf("%v: empty remap file, missing header line", filename)
		default:
			return IdentifierMap{}, nil
		}
	}

	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		strs := data.([]string)
		b := batch{pairs: make([]pair, 0, len(strs)), lines: len(strs), bad: -1}
		for i, str := range strs {
			fields := strings.Fields(str)
			if len(fields) != 2 {
				b.bad, b.badText = i, str
				break
			}
			b.pairs = append(b.pairs, pair{id: fields[0], illuminaID: fields[1]})
		}
		return b
	})))
	m := make(IdentifierMap)
	// the header is line 1
	line := 1
	failed := false
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		b := data.(batch)
		if failed {
			return data
		}
		for _, pr := range b.pairs {
			m[pr.illuminaID] = pr.id
		}
		if b.bad >= 0 {
			failed = true
			p.SetErr(&MalformedMappingError{Filename: filename, Line: line + b.bad + 1, Text: b.badText})
		}
		line += b.lines
		return data
	})))
	if err := internal.RunPipeline(&p); err != nil {
		return nil, err
	}
	return m, nil
}
