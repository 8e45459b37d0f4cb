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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
)

func TestEnvironmentEngine(t *testing.T) {
	t.Setenv("ENGINE_FRAMEWORK", "local")
	t.Setenv("ENGINE_DEFAULT_BACKEND", "hdfs://namenode/")
	t.Setenv("ENGINE_CACHE_BACKEND", "s3://cache/")
	t.Setenv("ENGINE_TEMP_DIR", "/jobs")
	t.Setenv("ENGINE_WORKERS", "12")
	t.Setenv("ENGINE_DEFAULT_GROUPS", "3")

	conf := Default()
	require.NoError(t, FromEnv(&conf))
	assert.Equal(t, engine.Config{
		Framework:      engine.FrameworkLocal,
		DefaultBackend: "hdfs://namenode/",
		CacheBackend:   "s3://cache/",
		TempDir:        "/jobs",
		Workers:        12,
		DefaultGroups:  3,
	}, conf.Engine)
}

func TestEnvironmentWorkers(t *testing.T) {
	factors := []struct {
		name        string
		workers     []string
		expected    int
		expectedErr bool
	}{
		{"Valid", []string{"4"}, 4, false},
		{"not given", []string{}, 7, false},
		{"zero", []string{"0"}, -1, true},
		{"negative", []string{"-1"}, -1, true},
		{"not parsable", []string{"I'm not a number"}, -1, true},
	}
	for _, tt := range factors {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.workers) == 1 {
				t.Setenv("ENGINE_WORKERS", tt.workers[0])
			}
			conf := Config{Engine: engine.Config{Workers: 7}}
			err := FromEnv(&conf)

			if tt.expectedErr {
				require.NotNil(t, err)
			} else {
				require.Nil(t, err)
				require.Equal(t, tt.expected, conf.Engine.Workers)
			}
		})
	}
}

func TestEnvironmentLocal(t *testing.T) {
	t.Setenv("ENGINE_DEFAULT_BACKEND", "hdfs://namenode/")
	t.Setenv("ENGINE_LOCAL", "true")

	conf := Default()
	require.NoError(t, FromEnv(&conf))
	assert.Equal(t, engine.FrameworkLocal, conf.Engine.Framework)
	assert.Equal(t, engine.LocalBackend, conf.Engine.DefaultBackend)
	assert.Equal(t, engine.LocalBackend, conf.Engine.CacheBackend)
}

func TestEnvironmentLoggingAndDataset(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DATASET_FORMAT", "json")
	t.Setenv("DATASET_COMPRESSION", "zstd")

	conf := Default()
	require.NoError(t, FromEnv(&conf))
	assert.Equal(t, Logging{Level: "debug", Format: LogFormatJSON}, conf.Logging)
	assert.Equal(t, Dataset{Format: dataset.FormatJSON, Compression: dataset.CompressionZstd}, conf.Dataset)
	assert.NoError(t, conf.Validate())
}
