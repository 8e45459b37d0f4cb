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

import "time"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Mark a transform as executing
func (pm *PrometheusMetrics) TransformStarted() {
	if pm == nil {
		return
	}

	pm.TransformRunning.Inc()
}

// Record the outcome of a transform that was marked as started
func (pm *PrometheusMetrics) TransformFinished(framework string, records int64, took time.Duration, err error) {
	if pm == nil {
		return
	}

	pm.TransformRunning.Dec()
	pm.TransformTasks.WithLabelValues(framework, status(err)).Inc()
	pm.TransformDurations.WithLabelValues(framework).Observe(took.Seconds())
	pm.TransformRecords.WithLabelValues(framework).Add(float64(records))
}

func (pm *PrometheusMetrics) RecordRejected() {
	if pm == nil {
		return
	}

	pm.RecordsRejected.Inc()
}

func (pm *PrometheusMetrics) PartitionDecodeFailed() {
	if pm == nil {
		return
	}

	pm.PartitionDecodeErrors.Inc()
}

func (pm *PrometheusMetrics) StorageOperation(scheme, operation string, err error) {
	if pm == nil {
		return
	}

	pm.StorageOperations.WithLabelValues(scheme, operation, status(err)).Inc()
}
