package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	assert.Contains(t, reg.Chains, "nike")
	assert.Empty(t, reg.CityNames())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Contains(t, reg.Chains, "starbucks")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `chains:
  - megachain
cities:
  canada:
    - Toronto
    - Vancouver
  us:
    - Portland
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"megachain"}, reg.Chains)
	assert.ElementsMatch(t, []string{"Toronto", "Vancouver", "Portland"}, reg.CityNames())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
