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

package modstgfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/dataset-tools/entities/storage"
	"github.com/weaviate/dataset-tools/test/helper/backendtest"
)

func TestModuleInit(t *testing.T) {
	ctx := context.Background()

	t.Run("fails with empty root path", func(t *testing.T) {
		err := New().initRoot(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty root path provided")
	})

	t.Run("fails with relative root path", func(t *testing.T) {
		err := New().initRoot(ctx, filepath.Join("some", "nested", "dir"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relative root path provided")
	})

	t.Run("creates missing root dir", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "some", "nested", "dir")
		require.NoError(t, New().initRoot(ctx, root))

		_, err := os.Stat(root)
		assert.NoError(t, err)
	})

	t.Run("reads root from env", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv(rootName, root)
		logger, _ := test.NewNullLogger()

		m := New()
		require.NoError(t, m.Init(ctx, logger))
		assert.Equal(t, root, m.root)
	})

	t.Run("rejects remote authority", func(t *testing.T) {
		m := New()
		require.NoError(t, m.initRoot(ctx, t.TempDir()))

		_, err := m.Backend(ctx, "namenode")
		assert.Error(t, err)

		_, err = m.Backend(ctx, "")
		assert.NoError(t, err)
	})
}

func newTestBackend(t *testing.T) (storage.Backend, string) {
	t.Helper()
	root := t.TempDir()
	m := New()
	require.NoError(t, m.initRoot(context.Background(), root))
	b, err := m.Backend(context.Background(), "")
	require.NoError(t, err)
	return b, root
}

func TestFileSystem(t *testing.T) {
	ctx := context.Background()

	t.Run("create and open", func(t *testing.T) {
		b, root := newTestBackend(t)
		backendtest.Write(t, b, "/users/part=1/a.msgpack", "hello")

		assert.Equal(t, "hello", backendtest.Read(t, b, "/users/part=1/a.msgpack"))
		_, err := os.Stat(filepath.Join(root, "users", "part=1", "a.msgpack"))
		assert.NoError(t, err)
	})

	t.Run("content is invisible until closed", func(t *testing.T) {
		b, _ := newTestBackend(t)
		w, err := b.Create(ctx, "/pending")
		require.NoError(t, err)
		_, err = io.WriteString(w, "partial")
		require.NoError(t, err)

		exists, err := b.Exists(ctx, "/pending")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, w.Close())
		exists, err = b.Exists(ctx, "/pending")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("paths cannot escape the root", func(t *testing.T) {
		b, root := newTestBackend(t)
		backendtest.Write(t, b, "/../../escape", "1")

		_, err := os.Stat(filepath.Join(root, "escape"))
		assert.NoError(t, err)
	})

	t.Run("expired context", func(t *testing.T) {
		b, _ := newTestBackend(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := b.Open(cctx, "/a")
		require.Error(t, err)
		assert.ErrorAs(t, err, &storage.ErrContextExpired{})
	})
}

func TestFileSystemBackendContract(t *testing.T) {
	b, _ := newTestBackend(t)
	backendtest.Run(t, b)
}
