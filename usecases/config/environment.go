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
	"os"
	"strconv"

	"github.com/pkg/errors"

	entcfg "github.com/weaviate/dataset-tools/entities/config"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
)

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those that
// are set. Storage backends read their own STORAGE_* variables when they are
// registered.
func FromEnv(config *Config) error {
	if v := os.Getenv("ENGINE_FRAMEWORK"); v != "" {
		config.Engine.Framework = v
	}

	if v := os.Getenv("ENGINE_DEFAULT_BACKEND"); v != "" {
		config.Engine.DefaultBackend = v
	}

	if v := os.Getenv("ENGINE_CACHE_BACKEND"); v != "" {
		config.Engine.CacheBackend = v
	}

	if v := os.Getenv("ENGINE_TEMP_DIR"); v != "" {
		config.Engine.TempDir = v
	}

	if v := os.Getenv("ENGINE_WORKERS"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse ENGINE_WORKERS as int")
		}
		if asInt <= 0 {
			return errors.Errorf("ENGINE_WORKERS must be greater than 0, got %d", asInt)
		}
		config.Engine.Workers = asInt
	}

	config.Engine.DefaultGroups = entcfg.IntFromEnv("ENGINE_DEFAULT_GROUPS", config.Engine.DefaultGroups)

	if entcfg.Enabled(os.Getenv("ENGINE_LOCAL")) {
		config.Engine = engine.ForceLocal(config.Engine)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}

	if v := os.Getenv("DATASET_FORMAT"); v != "" {
		config.Dataset.Format = dataset.Format(v)
	}

	if v := os.Getenv("DATASET_COMPRESSION"); v != "" {
		config.Dataset.Compression = dataset.Compression(v)
	}

	return nil
}
