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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
)

// DefaultConfigFile is read when no config file is provided. It may be
// absent.
const DefaultConfigFile string = "./dataset-tools.yaml"

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Flags are input options shared by all commands
type Flags struct {
	ConfigFile string `long:"config-file" description:"path to config file (default: ./dataset-tools.yaml)"`
	Local      bool   `long:"local" description:"run on this machine only, against the local filesystem"`
	Workers    int    `long:"workers" description:"number of concurrent workers of the execution engine"`
	LogLevel   string `long:"log-level" description:"one of panic, fatal, error, warn, info, debug, trace"`
}

// Config outline of the config file
type Config struct {
	Engine  engine.Config `json:"engine" yaml:"engine"`
	Logging Logging       `json:"logging" yaml:"logging"`
	Dataset Dataset       `json:"dataset" yaml:"dataset"`
}

type Logging struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Dataset holds the defaults for newly created datasets
type Dataset struct {
	Format      dataset.Format      `json:"format" yaml:"format"`
	Compression dataset.Compression `json:"compression" yaml:"compression"`
}

func Default() Config {
	return Config{
		Engine: engine.DefaultConfig(),
		Logging: Logging{
			Level:  logrus.InfoLevel.String(),
			Format: LogFormatText,
		},
		Dataset: Dataset{
			Format:      dataset.FormatMsgpack,
			Compression: dataset.CompressionNone,
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return errors.Wrap(err, "engine")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging level")
	}
	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return errors.Errorf("logging format: must be one of %q, %q, got %q",
			LogFormatText, LogFormatJSON, c.Logging.Format)
	}

	desc := dataset.Descriptor{
		Location:    dataset.Location{Scheme: dataset.SchemeLocal, Path: "/"},
		Format:      c.Dataset.Format,
		Compression: c.Dataset.Compression,
	}
	if err := desc.Validate(); err != nil {
		return errors.Wrap(err, "dataset defaults")
	}
	return nil
}

// Configure applies the logging options to logger
func (l Logging) Configure(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	switch l.Format {
	case LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// LoadConfig from config locations. The load order for configuration values if the following
// 1. Config file
// 2. Environment variables
// 3. Command line flags
// If a config option is specified multiple times in different locations, the latest one will be used in this order.
func LoadConfig(flags *Flags, logger logrus.FieldLogger) (Config, error) {
	config := Default()

	configFileName := flags.ConfigFile
	if configFileName == "" {
		configFileName = DefaultConfigFile
	}

	file, err := os.ReadFile(configFileName)
	if err != nil && (flags.ConfigFile != "" || !os.IsNotExist(err)) {
		return config, configErr(errors.Wrapf(err, "read config file %q", configFileName))
	}

	if len(file) > 0 {
		logger.WithField("action", "config_load").WithField("config_file_path", configFileName).
			Debug("loading config file")
		if err := parseConfigFile(file, configFileName, &config); err != nil {
			return config, configErr(err)
		}
	}

	if err := FromEnv(&config); err != nil {
		return config, configErr(err)
	}

	config.fromFlags(flags)

	if err := config.Validate(); err != nil {
		return config, configErr(err)
	}
	return config, nil
}

// parseConfigFile overlays the values of the file onto config
func parseConfigFile(file []byte, name string, config *Config) error {
	switch ext := filepath.Ext(name); ext {
	case ".json":
		if err := json.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	case "":
		return fmt.Errorf("config file does not have a file ending, got '%s'", name)
	default:
		return fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", ext[1:])
	}
	return nil
}

// fromFlags parses values from flags given as parameter and overrides values in the config
func (c *Config) fromFlags(flags *Flags) {
	if flags.Workers > 0 {
		c.Engine.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.Logging.Level = flags.LogLevel
	}
	if flags.Local {
		c.Engine = engine.ForceLocal(c.Engine)
	}
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
