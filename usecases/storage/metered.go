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
	"io"

	"github.com/weaviate/dataset-tools/entities/storage"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
)

type meteredBackend struct {
	storage.Backend
	scheme  string
	metrics *monitoring.PrometheusMetrics
}

func (m *meteredBackend) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := m.Backend.Open(ctx, p)
	m.metrics.StorageOperation(m.scheme, "open", err)
	if err != nil {
		return nil, err
	}
	return m.metrics.CountingReader(m.scheme, r), nil
}

func (m *meteredBackend) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	w, err := m.Backend.Create(ctx, p)
	m.metrics.StorageOperation(m.scheme, "create", err)
	if err != nil {
		return nil, err
	}
	return m.metrics.CountingWriter(m.scheme, w), nil
}

func (m *meteredBackend) List(ctx context.Context, dir string) ([]string, error) {
	files, err := m.Backend.List(ctx, dir)
	m.metrics.StorageOperation(m.scheme, "list", err)
	return files, err
}

func (m *meteredBackend) Delete(ctx context.Context, p string) error {
	err := m.Backend.Delete(ctx, p)
	m.metrics.StorageOperation(m.scheme, "delete", err)
	return err
}

func (m *meteredBackend) Rename(ctx context.Context, from, to string) error {
	err := m.Backend.Rename(ctx, from, to)
	m.metrics.StorageOperation(m.scheme, "rename", err)
	return err
}
