package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

func TestSaveConfigKeepsFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workboard", "config.yaml")

	cfg := model.DefaultAppConfig()
	require.NoError(t, applyFlags(cfg, flags{
		dbPath:   "/data/wb.db",
		seedPath: "/data/boards.yaml",
		theme:    "dark",
		debug:    true,
	}))

	var out bytes.Buffer
	require.NoError(t, saveConfig(&out, path, cfg))
	assert.Equal(t, "wrote "+path+"\n", out.String())

	got, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/wb.db", got.Storage.Path)
	assert.Equal(t, "/data/boards.yaml", got.Seed.Path)
	assert.Equal(t, "dark", got.Display.Theme)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestApplyFlagsRejectsUnknownTheme(t *testing.T) {
	cfg := model.DefaultAppConfig()
	assert.Error(t, applyFlags(cfg, flags{theme: "neon"}))
}
