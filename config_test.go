package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medal-backup/archive"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoadConfigJSON(t *testing.T) {
	p := writeConfig(t, `{
  "medalClipsPath": "D:\\Medal",
  "backupDir": "E:/backups",
  "directoriesToBackup": ["Clips", "Recordings", " ", "Recordings", "Audio"],
  "backupsToKeep": 3,
  "minFreeSpace": "500mb",
  "schedule": "0 3 * * *"
}`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, `D:\Medal`, cfg.MedalClipsPath)
	assert.Equal(t, "E:/backups", cfg.BackupDir)
	assert.Equal(t, []string{"Recordings", "Audio"}, cfg.DirectoriesToBackup)
	assert.Equal(t, 3, cfg.BackupsToKeep)
	assert.Equal(t, uint64(500_000_000), cfg.minFreeSpaceParsed)
	assert.Equal(t, p, cfg.path)

	want := append(append([]string{}, archive.DefaultSubdirectories...), "Recordings", "Audio")
	assert.Equal(t, want, cfg.Subdirectories())
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeConfig(t, "medalClipsPath: /data/Medal\nbackupDir: /backups\n")
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "/data/Medal", cfg.MedalClipsPath)
	assert.Equal(t, archive.DefaultSubdirectories, cfg.Subdirectories())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.MedalClipsPath)
	assert.Empty(t, cfg.path)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad free space", `{"minFreeSpace": "lots"}`},
		{"bad schedule", `{"schedule": "every day"}`},
		{"escaping directory", `{"directoriesToBackup": ["../Documents"]}`},
		{"absolute directory", `{"directoriesToBackup": ["/etc"]}`},
		{"not json", `{"medalClipsPath": [}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestConfigNegativeRetentionClamped(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"backupsToKeep": -2}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.BackupsToKeep)
}

func TestStateFileDefault(t *testing.T) {
	cfg := NewConfig()
	p, err := cfg.stateFile()
	if err != nil {
		t.Skip("no per-user config directory on this host")
	}
	assert.True(t, strings.HasSuffix(p, filepath.Join("Medal", "store", archive.StateFileName)), p)

	cfg.StateFile = "custom/clips.json"
	p, err = cfg.stateFile()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
}
