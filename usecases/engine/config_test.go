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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForceLocal(t *testing.T) {
	cfg := Config{
		Framework:      FrameworkCluster,
		DefaultBackend: "s3://lake",
		CacheBackend:   "s3://scratch",
		TempDir:        "/tmp/jobs",
		Workers:        8,
		DefaultGroups:  16,
	}
	original := cfg

	local := ForceLocal(cfg)

	assert.Equal(t, original, cfg, "caller config must not change")
	assert.Equal(t, FrameworkLocal, local.Framework)
	assert.Equal(t, LocalBackend, local.DefaultBackend)
	assert.Equal(t, LocalBackend, local.CacheBackend)
	assert.Equal(t, "/tmp/jobs", local.TempDir)
	assert.Equal(t, 16, local.DefaultGroups)
	assert.Equal(t, 1, local.EffectiveWorkers())
}

func TestEffectiveSizes(t *testing.T) {
	cfg := Config{Framework: FrameworkCluster, Workers: 6}
	assert.Equal(t, 6, cfg.EffectiveWorkers())
	assert.Equal(t, 3, cfg.EffectiveGroups(3))
	assert.Equal(t, 6, cfg.EffectiveGroups(-1))
	assert.Equal(t, 6, cfg.EffectiveGroups(0))

	cfg.DefaultGroups = 10
	assert.Equal(t, 10, cfg.EffectiveGroups(-1))
	assert.Equal(t, 2, cfg.EffectiveGroups(2))

	cfg.Workers = 0
	assert.Equal(t, 1, cfg.EffectiveWorkers())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Framework = "yarn"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CacheBackend = "not a uri"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TempDir = "relative/dir"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Workers = -1
	assert.Error(t, cfg.Validate())
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Resolve("/data/users")
	require.NoError(t, err)
	assert.Equal(t, "file:///data/users", loc.String())

	cfg.DefaultBackend = "s3://lake"
	loc, err = cfg.Resolve("/data/users")
	require.NoError(t, err)
	assert.Equal(t, "s3://lake/data/users", loc.String())

	loc, err = cfg.Resolve("gs://other/events")
	require.NoError(t, err)
	assert.Equal(t, "gs://other/events", loc.String())
}

func TestWriteMode(t *testing.T) {
	for _, mode := range []WriteMode{Append, Overwrite, Checkpoint} {
		parsed, err := ParseWriteMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	parsed, err := ParseWriteMode("overwrite")
	require.NoError(t, err)
	assert.Equal(t, Overwrite, parsed)

	_, err = ParseWriteMode("merge")
	assert.Error(t, err)
}
