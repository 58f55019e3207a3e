package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fteye/pagemill/internal/storage"
)

func TestAferoStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewAferoStore(afero.NewMemMapFs())

	t.Run("saves and reads back a file", func(t *testing.T) {
		n, err := store.Save(ctx, "uploads/u1/doc.txt", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)

		f, err := store.Open(ctx, "uploads/u1/doc.txt")
		require.NoError(t, err)
		defer f.Close()

		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("creates intermediate directories", func(t *testing.T) {
		_, err := store.Save(ctx, "a/b/c/deep.txt", strings.NewReader("x"))
		require.NoError(t, err)

		f, err := store.Open(ctx, "a/b/c/deep.txt")
		require.NoError(t, err)
		f.Close()
	})

	t.Run("deletes a file", func(t *testing.T) {
		_, err := store.Save(ctx, "uploads/gone.txt", strings.NewReader("bye"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "uploads/gone.txt"))

		_, err = store.Open(ctx, "uploads/gone.txt")
		assert.Error(t, err)
	})

	t.Run("opening a missing file fails", func(t *testing.T) {
		_, err := store.Open(ctx, "never/existed.txt")
		assert.Error(t, err)
	})
}
