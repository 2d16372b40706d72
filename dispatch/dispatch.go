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

// Package dispatch spreads sample conversions over a bounded number
// of workers.
package dispatch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/exascience/pargo/parallel"
	"github.com/pkg/errors"

	"github.com/exascience/illprep/samples"
)

// A Converter converts a single sample and returns its canonical
// identifier. *convert.Task is the Converter used by illprep.
type Converter interface {
	Convert(sample samples.Record) (string, error)
}

// An UnresolvedIdentifierError lists the samples whose Illumina
// identifier does not occur in the remap file.
type UnresolvedIdentifierError struct {
	Samples []samples.Record
}

func (err *UnresolvedIdentifierError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v sample(s) without canonical identifier:", len(err.Samples))
	for _, sample := range err.Samples {
		fmt.Fprintf(&sb, " %v (%v)", sample.IlluminaID, filepath.Base(sample.Dir))
	}
	return sb.String()
}

// Validate fails with an *UnresolvedIdentifierError if any of the
// given samples has no canonical identifier.
func Validate(records []samples.Record) error {
	if unresolved := samples.Unresolved(records); len(unresolved) > 0 {
		return &UnresolvedIdentifierError{Samples: unresolved}
	}
	return nil
}

// Run converts all samples and returns the identifiers of the samples
// that were converted successfully, in sample order.
//
// Nothing is converted when Validate fails. With workers <= 1 the
// samples are converted one after the other in the calling goroutine.
// Otherwise min(workers, len(records)) goroutines each take the next
// unconverted sample until none are left. Run waits for
// all conversions to finish. A failed conversion does not stop the
// others; Run then reports the failure of the first such sample.
func Run(records []samples.Record, converter Converter, workers int) ([]string, error) {
	if err := Validate(records); err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	errs := make([]error, len(records))
	if workers <= 1 || len(records) <= 1 {
		for i, record := range records {
			ids[i], errs[i] = converter.Convert(record)
		}
	} else {
		if workers > len(records) {
			workers = len(records)
		}
		next := int64(-1)
		parallel.Range(0, workers, workers, func(low, high int) {
			for w := low; w < high; w++ {
				for {
					i := int(atomic.AddInt64(&next, 1))
					if i >= len(records) {
						break
					}
					ids[i], errs[i] = converter.Convert(records[i])
				}
			}
		})
	}

	var firstErr error
	result := make([]string, 0, len(records))
	for i, err := range errs {
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "sample %v (%v)", records[i].ID, records[i].Dir)
			}
			continue
		}
		result = append(result, ids[i])
	}
	return result, firstErr
}
