package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_CreateOpenDelete(t *testing.T) {
	store := NewLocalStorage(t.TempDir())

	writer, err := store.Create("test.pdf", KindCV)
	require.NoError(t, err)
	_, err = writer.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := store.Open("test.pdf", KindCV)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete("test.pdf", KindCV))

	_, err = store.Open("test.pdf", KindCV)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_KindPaths(t *testing.T) {
	base := t.TempDir()
	store := NewLocalStorage(base)

	tests := []struct {
		kind string
		path string
	}{
		{kind: KindImage, path: filepath.Join(base, "uploads", "a.png")},
		{kind: KindCover, path: filepath.Join(base, "uploads", "covers", "a.png")},
		{kind: KindCV, path: filepath.Join(base, "files", "a.png")},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			writer, err := store.Create("a.png", tt.kind)
			require.NoError(t, err)
			require.NoError(t, writer.Close())

			_, err = os.Stat(tt.path)
			assert.NoError(t, err, "file should exist at the kind-specific path")
		})
	}
}

func TestGenerateFileNameFrom(t *testing.T) {
	name := GenerateFileNameFrom("resume.pdf")
	assert.True(t, strings.HasSuffix(name, ".pdf"), "extension is preserved")
	assert.NotEqual(t, "resume.pdf", name)

	other := GenerateFileNameFrom("resume.pdf")
	assert.NotEqual(t, name, other, "generated names are unique")

	bare := GenerateFileNameFrom("noextension")
	assert.NotContains(t, bare, ".")
}
