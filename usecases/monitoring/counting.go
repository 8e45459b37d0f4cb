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
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type countingReader struct {
	io.ReadCloser
	bytes prometheus.Counter
	open  prometheus.Gauge
	once  sync.Once
}

// CountingReader counts bytes read from r and tracks it as an open stream
// until closed.
func (pm *PrometheusMetrics) CountingReader(scheme string, r io.ReadCloser) io.ReadCloser {
	if pm == nil {
		return r
	}

	c := &countingReader{
		ReadCloser: r,
		bytes:      pm.StorageBytes.WithLabelValues(scheme, "read"),
		open:       pm.StorageOpenStreams.WithLabelValues(scheme, "read"),
	}
	c.open.Inc()
	return c
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	c.bytes.Add(float64(n))
	return n, err
}

func (c *countingReader) Close() error {
	err := c.ReadCloser.Close()

	// Close may be called more than once, decrement only on the first call.
	c.once.Do(func() {
		c.open.Dec()
	})

	return err
}

type countingWriter struct {
	io.WriteCloser
	bytes prometheus.Counter
	open  prometheus.Gauge
	once  sync.Once
}

// CountingWriter counts bytes written to w and tracks it as an open stream
// until closed.
func (pm *PrometheusMetrics) CountingWriter(scheme string, w io.WriteCloser) io.WriteCloser {
	if pm == nil {
		return w
	}

	c := &countingWriter{
		WriteCloser: w,
		bytes:       pm.StorageBytes.WithLabelValues(scheme, "write"),
		open:        pm.StorageOpenStreams.WithLabelValues(scheme, "write"),
	}
	c.open.Inc()
	return c
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.WriteCloser.Write(p)
	c.bytes.Add(float64(n))
	return n, err
}

func (c *countingWriter) Close() error {
	err := c.WriteCloser.Close()

	c.once.Do(func() {
		c.open.Dec()
	})

	return err
}
