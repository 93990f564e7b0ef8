package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtergrid/internal/config"
)

func TestConfigSave(t *testing.T) {
	cfgPath, _ := writeFixture(t)
	target := filepath.Join(t.TempDir(), "saved.toml")

	out, _, err := execute(t, "", "config", "save", "--config", cfgPath,
		"--path", target, "--mode", "grid", "--sort", "length", "--filter-kind", "fuzzy")
	require.NoError(t, err)
	assert.Equal(t, "Config saved to "+target+"\n", out)

	saved, err := config.NewConfigService().LoadFromPath(target)
	require.NoError(t, err)
	assert.Equal(t, config.ModeGrid, saved.Selection.Mode)
	assert.Equal(t, "length", saved.UI.DefaultSort)
	assert.Equal(t, config.FilterFuzzy, saved.UI.FilterKind)
	assert.Empty(t, saved.Log.File, "values from the loaded file are kept")
}

func TestConfigSaveToUserConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfgPath, _ := writeFixture(t)

	_, _, err := execute(t, "", "config", "save", "--config", cfgPath, "--log-level", "debug")
	require.NoError(t, err)

	saved, err := config.NewConfigService().Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", saved.Log.Level)
}

func TestConfigShow(t *testing.T) {
	cfgPath, _ := writeFixture(t)

	out, _, err := execute(t, "", "config", "show", "--config", cfgPath, "-n")
	require.NoError(t, err)
	assert.Contains(t, out, "show_line_numbers = true")
	assert.Contains(t, out, "[selection]")
	assert.Regexp(t, `mode = ['"]list['"]`, out)
}

func TestConfigSaveRejectsInvalid(t *testing.T) {
	cfgPath, _ := writeFixture(t)

	_, _, err := execute(t, "", "config", "save", "--config", cfgPath,
		"--path", filepath.Join(t.TempDir(), "x.toml"), "--mode", "table")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
