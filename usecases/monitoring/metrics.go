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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	TransformTasks        *prometheus.CounterVec
	TransformDurations    *prometheus.HistogramVec
	TransformRecords      *prometheus.CounterVec
	TransformRunning      prometheus.Gauge
	StorageBytes          *prometheus.CounterVec
	StorageOperations     *prometheus.CounterVec
	StorageOpenStreams    *prometheus.GaugeVec
	RecordsRejected       prometheus.Counter
	PartitionDecodeErrors prometheus.Counter
}

// NewPrometheusMetrics registers all collectors with reg. Pass
// NoopRegisterer to get working, unexported metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return &PrometheusMetrics{
		TransformTasks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_transform_tasks_total",
			Help: "Number of finished transform tasks",
		}, []string{"framework", "status"}), // status: success/error
		TransformDurations: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataset_transform_duration_seconds",
			Help:    "Duration of transform tasks",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"framework"}),
		TransformRecords: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_transform_records_total",
			Help: "Records processed by transform tasks",
		}, []string{"framework"}),
		TransformRunning: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "dataset_transform_running",
			Help: "Number of transform tasks currently executing",
		}),
		StorageBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_storage_bytes_total",
			Help: "Bytes transferred from and to storage backends",
		}, []string{"scheme", "direction"}), // direction: read/write
		StorageOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_storage_operations_total",
			Help: "Storage backend operations",
		}, []string{"scheme", "operation", "status"}),
		StorageOpenStreams: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataset_storage_open_streams",
			Help: "Currently open readers and writers per backend",
		}, []string{"scheme", "direction"}),
		RecordsRejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dataset_records_rejected_total",
			Help: "Records that did not match the target record type",
		}),
		PartitionDecodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "dataset_partition_decode_errors_total",
			Help: "Directories that could not be decoded into a partition key",
		}),
	}
}
