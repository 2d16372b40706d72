package samples

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/illprep/remap"
	"github.com/exascience/illprep/vcf"
)

func makeSample(t *testing.T, root, name, sampleColumn string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Variations"), 0755))
	contents := "##fileformat=VCFv4.1\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t" + sampleColumn + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SNPsFile), []byte(contents), 0644))
	return dir
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	dir1 := makeSample(t, root, "sample1", "ILM1_POLY")
	dir2 := makeSample(t, root, "sample2", "ILM2")
	dir3 := makeSample(t, root, "other3", "ILM3")
	// a plain file matching the pattern is not a sample
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.txt"), nil, 0644))

	idmap := remap.IdentifierMap{"ILM1": "P100", "ILM2": "P200"}
	records, err := Discover([]string{
		filepath.Join(root, "sample*"),
		filepath.Join(root, "other*"),
	}, idmap)
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{ID: "P100", Resolved: true, Dir: dir1, IlluminaID: "ILM1"},
		{ID: "P200", Resolved: true, Dir: dir2, IlluminaID: "ILM2"},
		{Resolved: false, Dir: dir3, IlluminaID: "ILM3"},
	}, records)
	assert.Equal(t, []Record{records[2]}, Unresolved(records))
}

func TestDiscoverEmptyMap(t *testing.T) {
	root := t.TempDir()
	makeSample(t, root, "s1", "A_POLY")
	makeSample(t, root, "s2", "B")

	records, err := Discover([]string{filepath.Join(root, "s*")}, remap.IdentifierMap{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.False(t, record.Resolved)
		assert.Empty(t, record.ID)
		assert.NotEmpty(t, record.IlluminaID)
	}
	assert.Len(t, Unresolved(records), 2)
}

func TestDiscoverRepeatedPattern(t *testing.T) {
	root := t.TempDir()
	makeSample(t, root, "s1", "A")
	pattern := filepath.Join(root, "s*")

	records, err := Discover([]string{pattern, pattern}, remap.IdentifierMap{"A": "P"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDiscoverNoMatches(t *testing.T) {
	records, err := Discover([]string{filepath.Join(t.TempDir(), "none*")}, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDiscoverMissingHeader(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "broken")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Variations"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SNPsFile), []byte("##fileformat=VCFv4.1\n"), 0644))

	_, err := Discover([]string{filepath.Join(root, "*")}, remap.IdentifierMap{})
	var missing *vcf.MissingHeaderError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, filepath.Join(dir, SNPsFile), missing.Filename)
}

func TestDiscoverMissingSNPsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0755))

	_, err := Discover([]string{filepath.Join(root, "*")}, remap.IdentifierMap{})
	require.Error(t, err)
}

func TestDiscoverBadPattern(t *testing.T) {
	_, err := Discover([]string{"["}, remap.IdentifierMap{})
	require.True(t, errors.Is(err, filepath.ErrBadPattern), "got %v", err)
}

func TestDiscoverSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	dir := makeSample(t, root, "s1", "A")
	require.NoError(t, os.Mkdir(filepath.Join(root, ".snapshot"), 0755))

	records, err := Discover([]string{filepath.Join(root, "*")}, remap.IdentifierMap{"A": "P"})
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "P", Resolved: true, Dir: dir, IlluminaID: "A"}}, records)

	// a pattern naming hidden entries explicitly still matches them
	hidden := makeSample(t, root, ".hidden1", "B")
	records, err = Discover([]string{filepath.Join(root, ".hidden*")}, remap.IdentifierMap{"B": "Q"})
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "Q", Resolved: true, Dir: hidden, IlluminaID: "B"}}, records)
}
