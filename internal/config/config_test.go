package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "csv", cfg.Store.Driver)
	assert.Equal(t, "rules", cfg.Engine.Classifier)
	assert.Equal(t, 0.5, cfg.Engine.FallbackThreshold)
	assert.NotEmpty(t, cfg.Vocabulary.MachineNames)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
server:
  port: 9000
store:
  driver: sheets
  sheets:
    spreadsheet_id: sheet-123
    api_key: key-456
engine:
  classifier: semantic
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "sheets", cfg.Store.Driver)
	assert.Equal(t, "sheet-123", cfg.Store.Sheets.SpreadsheetID)
	assert.Equal(t, "semantic", cfg.Engine.Classifier)
	// Untouched sections keep their defaults.
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("STORE_DRIVER", "csv")
	t.Setenv("MAINTENANCE_CSV_PATH", "/data/log.csv")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "csv", cfg.Store.Driver)
	assert.Equal(t, "/data/log.csv", cfg.Store.CSV.Path)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_SpreadsheetIDSelectsSheetsDriver(t *testing.T) {
	t.Setenv("SHEETS_SPREADSHEET_ID", "abc123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sheets", cfg.Store.Driver)
	assert.Equal(t, "abc123", cfg.Store.Sheets.SpreadsheetID)
}

func TestLoad_GenerationKeyEnablesGeneration(t *testing.T) {
	t.Setenv("GENERATION_API_KEY", "gen-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Generation.Enabled)
	assert.Equal(t, "gen-key", cfg.Generation.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "bad store driver",
			mutate:  func(c *Config) { c.Store.Driver = "excel" },
			wantErr: "invalid store driver",
		},
		{
			name:    "bad cache driver",
			mutate:  func(c *Config) { c.Cache.Driver = "disk" },
			wantErr: "invalid cache driver",
		},
		{
			name:    "bad classifier",
			mutate:  func(c *Config) { c.Engine.Classifier = "llm" },
			wantErr: "invalid classifier",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Engine.FallbackThreshold = 1.5 },
			wantErr: "fallback_threshold",
		},
		{
			name:    "empty machine vocabulary",
			mutate:  func(c *Config) { c.Vocabulary.MachineNames = nil },
			wantErr: "machine_names",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
