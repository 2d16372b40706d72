package remap

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "remap.txt", "patient\tillumina\nP100\tILM1\nP200   ILM2\r\nP300\tILM3")

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IdentifierMap{"ILM1": "P100", "ILM2": "P200", "ILM3": "P300"}, m)

	id, found := m.Lookup("ILM2")
	assert.True(t, found)
	assert.Equal(t, "P200", id)
	_, found = m.Lookup("P200")
	assert.False(t, found)
}

func TestLoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remap.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte("header\nP1 ILM1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IdentifierMap{"ILM1": "P1"}, m)
}

func TestReadLarge(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id illumina\n")
	const n = 20000
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "P%d\tILM%d\n", i, i)
	}
	// a later line overrides an earlier one
	sb.WriteString("override\tILM7\n")

	m, err := Read(strings.NewReader(sb.String()), "large.txt")
	require.NoError(t, err)
	assert.Len(t, m, n)
	assert.Equal(t, "P19999", m["ILM19999"])
	assert.Equal(t, "override", m["ILM7"])
}

func TestReadHeaderOnly(t *testing.T) {
	m, err := Read(strings.NewReader("patient illumina\n"), "h.txt")
	require.NoError(t, err)
	assert.Empty(t, m)

	m, err = Read(strings.NewReader("patient illumina"), "h.txt")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""), "empty.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty.txt")
}

func TestReadMalformed(t *testing.T) {
	cases := []struct {
		name, contents string
		line           int
		text           string
	}{
		{"three fields", "h\nP1 ILM1\nP2 ILM2 extra\nP3 ILM3\n", 3, "P2 ILM2 extra"},
		{"one field", "h\nP1\n", 2, "P1"},
		{"blank line", "h\nP1 ILM1\n\nP2 ILM2\n", 3, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(c.contents), "bad.txt")
			var malformed *MalformedMappingError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, "bad.txt", malformed.Filename)
			assert.Equal(t, c.line, malformed.Line)
			assert.Equal(t, c.text, malformed.Text)
		})
	}
}

func TestReadMalformedLineNumberInLargeFile(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("header\n")
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&sb, "P%d ILM%d\n", i, i)
	}
	sb.WriteString("broken\n")
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&sb, "Q%d X%d\n", i, i)
	}

	_, err := Read(strings.NewReader(sb.String()), "big.txt")
	var malformed *MalformedMappingError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Equal(t, 5002, malformed.Line)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
