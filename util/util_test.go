package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(40.0, Clamp(10.0, 40, 300))
	assert.Equal(300.0, Clamp(1000.0, 40, 300))
	assert.Equal(120.0, Clamp(120.0, 40, 300))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 6.5, Sum([]float64{2, 1, 3.5}))
	assert.Equal(t, 0, Sum([]int{}))
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"E", "C", "G"}, Dedupe([]string{"E", "C", "E", "G", "C"}))
}

func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.dat")
	in := map[string][]float64{"a": {1, 2}, "b": {3}}
	require.NoError(t, CreateBinary(path, in))

	out, err := ReadBinary[map[string][]float64](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadBinaryMissingFile(t *testing.T) {
	_, err := ReadBinary[[]int](filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}
