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

package monitoring

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopWriteCloser struct {
	strings.Builder
}

func (n *nopWriteCloser) Close() error {
	return nil
}

func TestTransformMetrics(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewPedanticRegistry())

	m.TransformStarted()
	m.TransformStarted()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TransformRunning))

	m.TransformFinished("local", 10, time.Second, nil)
	m.TransformFinished("cluster", 5, time.Second, errors.New("failed"))

	assert.Equal(t, float64(0), testutil.ToFloat64(m.TransformRunning))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransformTasks.WithLabelValues("local", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransformTasks.WithLabelValues("cluster", "error")))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.TransformRecords.WithLabelValues("local")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.TransformDurations))

	m.RecordRejected()
	m.PartitionDecodeFailed()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordsRejected))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PartitionDecodeErrors))
}

func TestCountingStreams(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewPedanticRegistry())

	t.Run("reader", func(t *testing.T) {
		r := m.CountingReader("file", io.NopCloser(strings.NewReader("hello world")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageOpenStreams.WithLabelValues("file", "read")))

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(content))

		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
		assert.Equal(t, float64(11), testutil.ToFloat64(m.StorageBytes.WithLabelValues("file", "read")))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StorageOpenStreams.WithLabelValues("file", "read")))
	})

	t.Run("writer", func(t *testing.T) {
		target := &nopWriteCloser{}
		w := m.CountingWriter("s3", target)

		_, err := io.WriteString(w, "abc")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		assert.Equal(t, "abc", target.String())
		assert.Equal(t, float64(3), testutil.ToFloat64(m.StorageBytes.WithLabelValues("s3", "write")))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StorageOpenStreams.WithLabelValues("s3", "write")))
	})
}

func TestNilMetrics(t *testing.T) {
	var m *PrometheusMetrics

	m.TransformStarted()
	m.TransformFinished("local", 1, time.Second, nil)
	m.RecordRejected()
	m.PartitionDecodeFailed()
	m.StorageOperation("file", "open", nil)

	r := io.NopCloser(strings.NewReader(""))
	assert.Equal(t, r, m.CountingReader("file", r))
}

func TestNoopRegisterer(t *testing.T) {
	// registering twice would panic with a real registry
	NewPrometheusMetrics(NoopRegisterer)
	NewPrometheusMetrics(NoopRegisterer)
}
