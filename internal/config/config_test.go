package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURI, cfg.BaseURI)
	assert.Equal(t, DefaultMetadataDir, cfg.MetadataDir)
	assert.Equal(t, DefaultOntologyNamespace, cfg.Ontology.Namespace)
	assert.Equal(t, DefaultOntologyPrefix, cfg.Ontology.Prefix)
	assert.Equal(t, DefaultLibraryPrefix, cfg.Library.Prefix)
	assert.Equal(t, DefaultPackageName, cfg.Library.PackageName)
	assert.Equal(t, DefaultAPIEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.False(t, cfg.Transform.IncludeOwnership)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
base_uri: http://example.org/model/
ontology:
  namespace: http://example.org/onto#
  prefix: ex
api:
  timeout: 5s
transform:
  include_ownership: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/model/", cfg.BaseURI)
	assert.Equal(t, "http://example.org/onto#", cfg.Ontology.Namespace)
	assert.Equal(t, "ex", cfg.Ontology.Prefix)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Transform.IncludeOwnership)
	assert.Equal(t, DefaultLibraryPrefix, cfg.Library.Prefix)
}

func TestLoadDefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "semtag.yaml"), []byte("library:\n  prefix: SSN_\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "SSN_", cfg.Library.Prefix)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEMTAG_BASE_URI", "http://env.example/")
	t.Setenv("SEMTAG_API_MAX_RETRIES", "7")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/", cfg.BaseURI)
	assert.Equal(t, 7, cfg.API.MaxRetries)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BaseURI:  DefaultBaseURI,
			Ontology: OntologyConfig{Namespace: DefaultOntologyNamespace},
			Library:  LibraryConfig{Prefix: DefaultLibraryPrefix},
			API:      APIConfig{Endpoint: DefaultAPIEndpoint},
			Log:      LogConfig{Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base", func(c *Config) { c.BaseURI = "" }},
		{"empty namespace", func(c *Config) { c.Ontology.Namespace = " " }},
		{"empty library prefix", func(c *Config) { c.Library.Prefix = "" }},
		{"bad endpoint scheme", func(c *Config) { c.API.Endpoint = "localhost:9000" }},
		{"negative retries", func(c *Config) { c.API.MaxRetries = -1 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	base := valid()
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
