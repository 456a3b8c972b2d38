package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(dir, "a.ts")
		content := []byte("import { b } from './b';\n")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		got, err := ReadSource(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ts")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		got, err := ReadSource(path)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSource(filepath.Join(dir, "missing.ts"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadSource(dir)
		assert.ErrorContains(t, err, "is a directory")
	})
}

func TestWriteSource_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.ts")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteSource(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestHashing(t *testing.T) {
	a := []byte("import a from 'a';")
	b := []byte("import b from 'b';")

	assert.Equal(t, ContentHash(a), ContentHash(append([]byte(nil), a...)))
	assert.NotEqual(t, ContentHash(a), ContentHash(b))
	assert.Equal(t, uint64(0xef46db3751d8e999), ContentHash(nil))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "file", "a.ts")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"file":"a.ts"`)
}

func TestParseLogFlags(t *testing.T) {
	lvl, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)

	f, err := ParseLogFormat("text")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseLogFormat("xml")
	assert.Error(t, err)
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 7, GetOptimalPoolSizeWithOverride(7))
	assert.Equal(t, size, GetOptimalPoolSizeWithOverride(0))
}
