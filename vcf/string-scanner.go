// illprep: preparing Illumina variant calls for GATK-based pipelines.
// Copyright (c) 2017-2020 imec vzw.

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

package vcf

// A StringScanner can be used scan/parse strings representing
// lines in VCF files.
//
// The zero StringScanner is valid and empty.
type StringScanner struct {
	index int
	data  string
}

// Reset resets the scanner, and initializes it with the given string.
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
}

// HasPrefix reports whether the unscanned part of the data starts
// with prefix.
func (sc *StringScanner) HasPrefix(prefix string) bool {
	rest := sc.data[sc.index:]
	return len(rest) >= len(prefix) && rest[:len(prefix)] == prefix
}

// ReadField returns the next tab-separated field and reports whether
// more fields follow.
func (sc *StringScanner) ReadField() (field string, more bool) {
	return sc.readUntilByte('\t')
}

// LastField skips to the last tab-separated field and returns it.
func (sc *StringScanner) LastField() string {
	for {
		field, more := sc.ReadField()
		if !more {
			return field
		}
	}
}

func (sc *StringScanner) readUntilByte(c byte) (s string, found bool) {
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}
