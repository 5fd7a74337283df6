package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "conciliacao.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoadConfig(t *testing.T) {
	configContent := `
log_level = "debug"

[transactions]
delimiter = ","
encoding = "windows-1252"
excluded_statuses = ["Recusada", "Cancelada"]
skip_invalid_amounts = true

[summary]
sheet = "Resumo"
marker = "SUBTOTAL:"
value_column = "U"
strict_extraction = true

[output]
format = "json"
color = "never"
`

	config, err := LoadConfig(writeConfig(t, configContent))
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)

	assert.Equal(t, ',', config.Transactions.DelimiterRune())
	assert.Equal(t, "windows-1252", config.Transactions.Encoding)
	assert.Equal(t, []string{"Recusada", "Cancelada"}, config.Transactions.ExcludedStatuses)
	assert.True(t, config.Transactions.SkipInvalidAmounts)

	assert.Equal(t, "Resumo", config.Summary.Sheet)
	assert.Equal(t, "SUBTOTAL:", config.Summary.Marker)
	col, err := config.Summary.Column()
	require.NoError(t, err)
	assert.Equal(t, 21, col)
	assert.True(t, config.Summary.StrictExtraction)

	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, "never", config.Output.Color)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, ';', config.Transactions.DelimiterRune())
	assert.Equal(t, "ISO-8859-1", config.Transactions.Encoding)
	assert.Equal(t, []string{"Recusada", "Estornada", "Refused", "Reversed"}, config.Transactions.ExcludedStatuses)
	assert.False(t, config.Transactions.SkipInvalidAmounts)
	assert.Equal(t, "SUB-TOTAL TIPO:", config.Summary.Marker)
	col, err := config.Summary.Column()
	require.NoError(t, err)
	assert.Equal(t, 20, col)
	assert.False(t, config.Summary.StrictExtraction)
	assert.Equal(t, "text", config.Output.Format)
	assert.Equal(t, "auto", config.Output.Color)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[summary]\nstrict_extraction = true\n"))
	require.NoError(t, err)

	assert.True(t, config.Summary.StrictExtraction)
	assert.Equal(t, "T", config.Summary.ValueColumn)
	assert.Equal(t, "ISO-8859-1", config.Transactions.Encoding)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CONCILIACAO_SUMMARY_STRICT_EXTRACTION", "true")
	t.Setenv("CONCILIACAO_OUTPUT_FORMAT", "json")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, config.Summary.StrictExtraction)
	assert.Equal(t, "json", config.Output.Format)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	config, err := LoadConfig("nonexistent.toml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	configContent := `
[transactions]
delimiter = ";;"

[summary]
value_column = "19"

[output]
format = "xml"
color = "rainbow"
`

	config, err := LoadConfig(writeConfig(t, configContent))
	assert.Nil(t, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transactions.delimiter")
	assert.Contains(t, err.Error(), "summary.value_column")
	assert.Contains(t, err.Error(), "output.format")
	assert.Contains(t, err.Error(), "output.color")
}
