package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/fdnorm/internal/fd"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db-url", "", "")
	fs.String("sqlite", "", "")
	fs.StringP("format", "f", DefaultFormat, "")
	fs.String("output-dir", "", "")
	fs.StringP("tables", "t", "", "")
	fs.StringArray("fd", nil, "")
	fs.Int("max-attributes", DefaultMaxAttributes, "")
	fs.String("normalize", "", "")
	fs.String("config", "", "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fdnorm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultSchema, cfg.Schema)
	assert.Equal(t, DefaultMaxAttributes, cfg.MaxAttributes)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Tables)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
format: markdown
max_attributes: 10
sqlite: ./shop.db
tables: [orders, customers]
fd:
  - "customer -> city"
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.Format)
		assert.Equal(t, 10, cfg.MaxAttributes)
		assert.Equal(t, []string{"orders", "customers"}, cfg.Tables)
		assert.Equal(t, []string{"customer -> city"}, cfg.Dependencies)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("FDNORM_FORMAT", "yaml")
		t.Setenv("FDNORM_MAX_ATTRIBUTES", "12")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Format)
		assert.Equal(t, 12, cfg.MaxAttributes)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("FDNORM_FORMAT", "yaml")

		fs := testFlags()
		require.NoError(t, fs.Parse([]string{
			"-f", "text",
			"--tables", "a, b",
			"--fd", "A, B -> C",
			"--fd", "C -> D",
			"--max-attributes", "4",
		}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Format)
		assert.Equal(t, 4, cfg.MaxAttributes)
		assert.Equal(t, []string{"a", "b"}, cfg.Tables)
		assert.Equal(t, []string{"A, B -> C", "C -> D"}, cfg.Dependencies)
	})

	t.Run("unset flags keep lower layers", func(t *testing.T) {
		fs := testFlags()
		require.NoError(t, fs.Parse(nil))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.Format)
		assert.Equal(t, 10, cfg.MaxAttributes)
	})
}

func TestLoadFindsDefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("format: markdown\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")

	t.Setenv("FDNORM_FORMAT", "html")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "invalid format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{"valid", Config{Format: "text"}, ""},
		{"negative limit", Config{Format: "text", MaxAttributes: -1}, "max_attributes"},
		{"output and dir", Config{Format: "text", Output: "a", OutputDir: "b"}, "cannot use both"},
		{"bcnf target", Config{Format: "text", Normalize: "bcnf"}, "unsupported normal form"},
		{"unknown target", Config{Format: "text", Normalize: "5nf"}, "unknown normal form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errSubstr)
		})
	}
}

func TestTarget(t *testing.T) {
	cfg := Config{Normalize: "3NF"}
	nf, err := cfg.Target()
	require.NoError(t, err)
	assert.Equal(t, fd.Third, nf)

	cfg.Normalize = ""
	nf, err = cfg.Target()
	require.NoError(t, err)
	assert.Zero(t, nf)
}

func TestSourceURL(t *testing.T) {
	url, err := (&Config{SQLitePath: "./shop.db"}).SourceURL()
	require.NoError(t, err)
	assert.Equal(t, "sqlite://./shop.db", url)

	url, err = (&Config{MySQLURL: "root:pw@tcp(localhost:3306)/shop"}).SourceURL()
	require.NoError(t, err)
	assert.Equal(t, "mysql://root:pw@tcp(localhost:3306)/shop", url)

	_, err = (&Config{}).SourceURL()
	assert.ErrorContains(t, err, "must be specified")

	_, err = (&Config{DatabaseURL: "postgres://x", SQLitePath: "y"}).SourceURL()
	assert.ErrorContains(t, err, "only one")
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "public", (&Config{Schema: DefaultSchema, DatabaseURL: "postgres://x"}).SchemaName())
	assert.Equal(t, "", (&Config{Schema: DefaultSchema, MySQLURL: "root@tcp(h)/shop"}).SchemaName())
	assert.Equal(t, "sales", (&Config{Schema: "sales", MySQLURL: "root@tcp(h)/shop"}).SchemaName())
}

func TestLoadListsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FDNORM_TABLES", "orders, customers")
	t.Setenv("FDNORM_FD", "A, B -> C;C -> D")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "customers"}, cfg.Tables)
	assert.Equal(t, []string{"A, B -> C", "C -> D"}, cfg.Dependencies)
}
