package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadComponents(t *testing.T) {
	dir := t.TempDir()
	placement := writeFile(t, dir, "placement.csv",
		"RefDes,Orient.,X,Y\n"+
			"C1,0,10.5,20.25\n"+
			"C2,90,30,40\n"+
			"R9,0,1,2\n")
	sizes := writeFile(t, dir, "sizes.csv",
		"RefDes,L,W,T,Bauteil\n"+
			"C1,5,3,1,ceramic cap\n"+
			"C2,6,6,1,inductor\n")

	components, err := LoadComponents(placement, sizes)
	require.NoError(t, err)
	require.Len(t, components, 2, "R9 has no size row and should be skipped")

	c1 := components[0]
	assert.Equal(t, "C1", c1.RefDes)
	assert.Equal(t, 10.5, c1.CenterXMM)
	assert.Equal(t, 20.25, c1.CenterYMM)
	assert.Equal(t, 5.0, c1.LengthMM)
	assert.Equal(t, 3.0, c1.WidthMM)
	assert.Equal(t, 0.0, c1.RotationDeg)
	assert.Equal(t, "ceramic cap", c1.Description)

	assert.Equal(t, 90.0, components[1].RotationDeg)
	assert.Equal(t, "inductor", components[1].Description)
}

func TestLoadComponentsWithoutDescriptionColumn(t *testing.T) {
	dir := t.TempDir()
	placement := writeFile(t, dir, "placement.csv", "RefDes,Orient.,X,Y\nU1,0,5,5\n")
	sizes := writeFile(t, dir, "sizes.csv", "RefDes,L,W\nU1,10,10\n")

	components, err := LoadComponents(placement, sizes)
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Empty(t, components[0].Description)
}

func TestLoadComponentsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	placement := writeFile(t, dir, "placement.csv", "RefDes,X,Y\nU1,5,5\n")
	sizes := writeFile(t, dir, "sizes.csv", "RefDes,L,W\nU1,10,10\n")

	_, err := LoadComponents(placement, sizes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Orient.")
}

func TestLoadComponentsNoOverlap(t *testing.T) {
	dir := t.TempDir()
	placement := writeFile(t, dir, "placement.csv", "RefDes,Orient.,X,Y\nU1,0,5,5\n")
	sizes := writeFile(t, dir, "sizes.csv", "RefDes,L,W\nU2,10,10\n")

	_, err := LoadComponents(placement, sizes)
	assert.Error(t, err)
}

func TestLoadComponentsBOMHeader(t *testing.T) {
	dir := t.TempDir()
	placement := writeFile(t, dir, "placement.csv", "\ufeffRefDes,Orient.,X,Y\nU1,0,5,5\n")
	sizes := writeFile(t, dir, "sizes.csv", "RefDes,L,W\nU1,10,10\n")

	components, err := LoadComponents(placement, sizes)
	require.NoError(t, err)
	assert.Len(t, components, 1)
}
