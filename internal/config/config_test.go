package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("source: /inbox\ndest: /sorted\nextensions: pdf,txt\nrecursive: true\n"), 0o644))

	cfg := &Config{}
	require.NoError(t, cfg.Load(path))

	assert.Equal(t, "/inbox", cfg.SourceDir)
	assert.Equal(t, "/sorted", cfg.DestDir)
	assert.Equal(t, "pdf,txt", cfg.RawExtensions)
	assert.True(t, cfg.Recursive)
	assert.False(t, cfg.Move)
}

func TestFlagsWinOverFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("source: /from-file\ndest: /from-file-dest\n"), 0o644))

	t.Setenv("EXTIDY_SOURCE_DIR", "/from-env")
	t.Setenv("EXTIDY_EXTENSIONS", "jpg")

	// SourceDir set beforehand plays the role of a flag value.
	cfg := &Config{SourceDir: "/from-flag"}
	require.NoError(t, cfg.Load(path))

	assert.Equal(t, "/from-flag", cfg.SourceDir)
	assert.Equal(t, "/from-file-dest", cfg.DestDir)
	assert.Equal(t, "jpg", cfg.RawExtensions)
}

func TestEnvFillsMissingValues(t *testing.T) {
	t.Setenv("EXTIDY_SOURCE_DIR", "/env-src")
	t.Setenv("EXTIDY_DEST_DIR", "/env-dst")
	t.Setenv("EXTIDY_MOVE", "true")
	t.Setenv("EXTIDY_DEDUPE", "1")

	cfg := &Config{}
	require.NoError(t, cfg.Load(""))

	assert.Equal(t, "/env-src", cfg.SourceDir)
	assert.Equal(t, "/env-dst", cfg.DestDir)
	assert.True(t, cfg.Move)
	assert.True(t, cfg.SkipDuplicates)
}

func TestFinalizeValidates(t *testing.T) {
	cfg := &Config{DestDir: "/dst", RawExtensions: "txt"}
	assert.ErrorContains(t, cfg.Finalize(), "source directory is required")

	cfg = &Config{SourceDir: "/src", RawExtensions: "txt"}
	assert.ErrorContains(t, cfg.Finalize(), "destination directory is required")

	cfg = &Config{SourceDir: "/src", DestDir: "/dst", RawExtensions: " , "}
	assert.ErrorContains(t, cfg.Finalize(), "at least one extension")

	cfg = &Config{SourceDir: "/same", DestDir: "/same", RawExtensions: "txt"}
	assert.ErrorContains(t, cfg.Finalize(), "must differ")

	cfg = &Config{SourceDir: "/src", DestDir: "/dst", RawExtensions: "PDF, txt"}
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, []string{".pdf", ".txt"}, cfg.Extensions.Strings())
}

func TestLoadRejectsUnreadableExplicitConfig(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
