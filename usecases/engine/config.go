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
	"os"
	"path"
	"runtime"

	"github.com/pkg/errors"
	"github.com/weaviate/dataset-tools/entities/dataset"
)

const (
	FrameworkLocal   = "local"
	FrameworkCluster = "cluster"

	// LocalBackend is the backend identity of the local filesystem.
	LocalBackend = "file:///"
)

// Config is the ambient execution configuration. It is a value type:
// copies can be modified without affecting the original.
type Config struct {
	// Framework is "local" for a single worker or "cluster" for Workers
	// concurrent workers.
	Framework string `json:"framework" yaml:"framework"`
	// DefaultBackend resolves locations given as plain paths.
	DefaultBackend string `json:"defaultBackend" yaml:"defaultBackend"`
	// CacheBackend holds job manifests, below TempDir.
	CacheBackend  string `json:"cacheBackend" yaml:"cacheBackend"`
	TempDir       string `json:"tempDir" yaml:"tempDir"`
	Workers       int    `json:"workers" yaml:"workers"`
	DefaultGroups int    `json:"defaultGroups" yaml:"defaultGroups"`
}

func DefaultConfig() Config {
	return Config{
		Framework:      FrameworkCluster,
		DefaultBackend: LocalBackend,
		CacheBackend:   LocalBackend,
		TempDir:        path.Join(os.TempDir(), "dataset-tools"),
		Workers:        runtime.NumCPU(),
	}
}

// ForceLocal returns a copy of cfg that runs entirely on this machine
// against the local filesystem.
func ForceLocal(cfg Config) Config {
	cfg.Framework = FrameworkLocal
	cfg.DefaultBackend = LocalBackend
	cfg.CacheBackend = LocalBackend
	return cfg
}

func (c Config) Validate() error {
	switch c.Framework {
	case FrameworkLocal, FrameworkCluster:
	default:
		return errors.Errorf("unknown framework %q", c.Framework)
	}
	if _, err := dataset.ParseLocation(c.DefaultBackend); err != nil {
		return errors.Wrap(err, "default backend")
	}
	if _, err := dataset.ParseLocation(c.CacheBackend); err != nil {
		return errors.Wrap(err, "cache backend")
	}
	if !path.IsAbs(c.TempDir) {
		return errors.Errorf("temp dir %q is not absolute", c.TempDir)
	}
	if c.Workers < 0 {
		return errors.Errorf("negative number of workers: %d", c.Workers)
	}
	return nil
}

// EffectiveWorkers is the number of concurrent workers of a stage.
func (c Config) EffectiveWorkers() int {
	if c.Framework == FrameworkLocal || c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// EffectiveGroups resolves the number of shuffle groups requested by a
// GroupBy.
func (c Config) EffectiveGroups(requested int) int {
	switch {
	case requested > 0:
		return requested
	case c.DefaultGroups > 0:
		return c.DefaultGroups
	default:
		return c.EffectiveWorkers()
	}
}

// Resolve parses s as a location. Plain absolute paths are placed on
// DefaultBackend.
func (c Config) Resolve(s string) (dataset.Location, error) {
	if len(s) == 0 || s[0] != '/' || c.DefaultBackend == "" {
		return dataset.ParseLocation(s)
	}
	backend, err := dataset.ParseLocation(c.DefaultBackend)
	if err != nil {
		return dataset.Location{}, errors.Wrap(err, "default backend")
	}
	return backend.Join(s), nil
}

func (c Config) cacheDir() (dataset.Location, error) {
	backend, err := dataset.ParseLocation(c.CacheBackend)
	if err != nil {
		return dataset.Location{}, errors.Wrap(err, "cache backend")
	}
	return backend.Join(c.TempDir), nil
}
