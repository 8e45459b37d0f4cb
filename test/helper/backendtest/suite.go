//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package backendtest checks that a storage backend behaves the way
// datasets rely on.
package backendtest

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/dataset-tools/entities/storage"
)

func Write(t *testing.T, b storage.Backend, p, content string) {
	t.Helper()
	w, err := b.Create(context.Background(), p)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func Read(t *testing.T, b storage.Backend, p string) string {
	t.Helper()
	r, err := b.Open(context.Background(), p)
	require.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(content)
}

// Run exercises b. Every subtest works below its own directory, so b may
// be shared and need not be empty.
func Run(t *testing.T, b storage.Backend) {
	ctx := context.Background()

	t.Run("create and open", func(t *testing.T) {
		Write(t, b, "/open/users/username_part=1/part-a.msgpack", "hello")
		assert.Equal(t, "hello", Read(t, b, "/open/users/username_part=1/part-a.msgpack"))
	})

	t.Run("open missing file", func(t *testing.T) {
		_, err := b.Open(ctx, "/missing/part-a.msgpack")
		require.Error(t, err)
		assert.True(t, storage.IsNotFound(err))
	})

	t.Run("list is recursive, sorted and bound to the directory", func(t *testing.T) {
		Write(t, b, "/list/users/b=2/x", "1")
		Write(t, b, "/list/users/a=1/y", "2")
		Write(t, b, "/list/users/a=1/nested/z", "3")
		Write(t, b, "/list/users2/w", "4")

		files, err := b.List(ctx, "/list/users")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/list/users/a=1/nested/z",
			"/list/users/a=1/y",
			"/list/users/b=2/x",
		}, files)
	})

	t.Run("list missing directory", func(t *testing.T) {
		files, err := b.List(ctx, "/nothing/here")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("rename replaces destination", func(t *testing.T) {
		Write(t, b, "/rename/.staging/a", "new")
		Write(t, b, "/rename/data/a", "old")

		require.NoError(t, b.Rename(ctx, "/rename/.staging/a", "/rename/data/a"))
		assert.Equal(t, "new", Read(t, b, "/rename/data/a"))

		exists, err := b.Exists(ctx, "/rename/.staging/a")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rename missing source", func(t *testing.T) {
		assert.Error(t, b.Rename(ctx, "/rename/.staging/missing", "/rename/data/b"))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		Write(t, b, "/delete/a", "1")
		exists, err := b.Exists(ctx, "/delete/a")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, b.Delete(ctx, "/delete/a"))
		require.NoError(t, b.Delete(ctx, "/delete/a"))

		exists, err = b.Exists(ctx, "/delete/a")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
