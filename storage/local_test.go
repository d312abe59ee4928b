package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	fileID := uuid.New()
	content := "data retention policy v2"

	path, err := s.Upload(ctx, fileID, "retention policy.txt", strings.NewReader(content))
	require.NoError(t, err)
	assert.NotContains(t, path, " ", "spaces are sanitized out of storage paths")

	reader, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissingFile(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "no/such/file.txt"))
}
