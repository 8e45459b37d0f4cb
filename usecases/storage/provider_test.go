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

package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/storage"
	modstgfs "github.com/weaviate/dataset-tools/modules/storage-filesystem"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
)

type fakeModule struct {
	scheme  string
	initErr error
	opened  []string
}

func (f *fakeModule) Name() string   { return "fake-" + f.scheme }
func (f *fakeModule) Scheme() string { return f.scheme }

func (f *fakeModule) Init(ctx context.Context, logger logrus.FieldLogger) error {
	return f.initErr
}

func (f *fakeModule) Backend(ctx context.Context, authority string) (storage.Backend, error) {
	f.opened = append(f.opened, authority)
	if authority == "broken" {
		return nil, errors.New("bucket unreachable")
	}
	return nil, nil
}

func TestProvider(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	t.Run("resolves and caches by backend", func(t *testing.T) {
		p := NewProvider(logger, nil)
		mod := &fakeModule{scheme: "s3"}
		require.NoError(t, p.Register(ctx, mod))

		_, err := p.Backend(ctx, dataset.MustParseLocation("s3://a/x"))
		require.NoError(t, err)
		_, err = p.Backend(ctx, dataset.MustParseLocation("s3://a/y/z"))
		require.NoError(t, err)
		_, err = p.Backend(ctx, dataset.MustParseLocation("s3://b/x"))
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, mod.opened)
		assert.Equal(t, []string{"s3"}, p.Schemes())
	})

	t.Run("unknown scheme", func(t *testing.T) {
		p := NewProvider(logger, nil)
		_, err := p.Backend(ctx, dataset.MustParseLocation("hdfs://namenode/x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no storage module for scheme \"hdfs\"")
	})

	t.Run("backend errors are not cached", func(t *testing.T) {
		p := NewProvider(logger, nil)
		mod := &fakeModule{scheme: "gs"}
		require.NoError(t, p.Register(ctx, mod))

		_, err := p.Backend(ctx, dataset.MustParseLocation("gs://broken/x"))
		require.Error(t, err)
		_, err = p.Backend(ctx, dataset.MustParseLocation("gs://broken/x"))
		require.Error(t, err)
		assert.Len(t, mod.opened, 2)
	})

	t.Run("duplicate scheme", func(t *testing.T) {
		p := NewProvider(logger, nil)
		require.NoError(t, p.Register(ctx, &fakeModule{scheme: "s3"}))
		assert.Error(t, p.Register(ctx, &fakeModule{scheme: "s3"}))
	})

	t.Run("init failure", func(t *testing.T) {
		p := NewProvider(logger, nil)
		err := p.Register(ctx, &fakeModule{scheme: "s3", initErr: errors.New("no credentials")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no credentials")
		assert.Empty(t, p.Schemes())
	})
}

func TestMeteredBackend(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	t.Setenv("STORAGE_FS_ROOT", t.TempDir())

	metrics := monitoring.NewPrometheusMetrics(prometheus.NewPedanticRegistry())
	p := NewProvider(logger, metrics)
	require.NoError(t, p.Register(ctx, modstgfs.New()))

	b, err := p.Backend(ctx, dataset.MustParseLocation("file:///data"))
	require.NoError(t, err)

	w, err := b.Create(ctx, "/data/a")
	require.NoError(t, err)
	_, err = io.WriteString(w, "1234")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := b.Open(ctx, "/data/a")
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = b.Open(ctx, "/data/missing")
	require.Error(t, err)

	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.StorageBytes.WithLabelValues("file", "write")))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.StorageBytes.WithLabelValues("file", "read")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StorageOperations.WithLabelValues("file", "open", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StorageOperations.WithLabelValues("file", "open", "success")))
}
