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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	enterrors "github.com/weaviate/dataset-tools/entities/errors"
	"github.com/weaviate/dataset-tools/entities/storage"
	modstgs3 "github.com/weaviate/dataset-tools/modules/storage-aws-s3"
	modstgazure "github.com/weaviate/dataset-tools/modules/storage-azure"
	modstgfs "github.com/weaviate/dataset-tools/modules/storage-filesystem"
	modstggcs "github.com/weaviate/dataset-tools/modules/storage-gcs"
	"github.com/weaviate/dataset-tools/usecases/config"
	"github.com/weaviate/dataset-tools/usecases/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
	usecasesstorage "github.com/weaviate/dataset-tools/usecases/storage"
)

// Options represents the command line options shared by all commands
type Options struct {
	config.Flags

	MetricsFile string `long:"metrics-file" description:"write prometheus metrics to this file when the command finished"`
}

// appState is what commands need to do their work
type appState struct {
	logger     *logrus.Logger
	config     config.Config
	registry   *prometheus.Registry
	metrics    *monitoring.PrometheusMetrics
	provider   *usecasesstorage.Provider
	repository *dataset.Repository
	engine     *engine.InProcess
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "dataset-tools"
	parser.LongDescription = "Create, inspect and compact partitioned datasets"

	parser.AddCommand("create", "create a dataset",
		"Create an empty dataset, optionally partitioned.", &createCommand{})
	parser.AddCommand("copy", "copy or compact a dataset",
		"Copy the records of one dataset into another, repartitioning them on the way.", &copyCommand{})
	parser.AddCommand("partitions", "list partitions",
		"List the partitions of a partitioned dataset as directory paths.", &partitionsCommand{})
	parser.AddCommand("show", "print records",
		"Print records of a dataset or partition as JSON lines.", &showCommand{})
	parser.AddCommand("delete", "delete a dataset",
		"Delete a dataset with all of its data.", &deleteCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// run prepares the application state and executes fn with it
func run(fn func(ctx context.Context, app *appState) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := newAppState(ctx)
	if err != nil {
		return err
	}

	err = <-enterrors.GoWithResult(func() error { return fn(ctx, app) }, app.logger)
	if err != nil {
		app.logger.WithError(err).Error("command failed")
	}

	if opts.MetricsFile != "" {
		if writeErr := prometheus.WriteToTextfile(opts.MetricsFile, app.registry); writeErr != nil {
			app.logger.WithError(writeErr).WithField("file", opts.MetricsFile).
				Warn("could not write metrics")
		}
	}
	return err
}

func newAppState(ctx context.Context) (*appState, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig(&opts.Flags, logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.Logging.Configure(logger); err != nil {
		return nil, err
	}

	// the shuffle holds records in memory, keep the GC aware of container limits
	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.9),
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	)
	if err != nil {
		logger.WithField("action", "startup").WithError(err).
			Debug("could not derive memory limit")
	} else {
		logger.WithField("action", "startup").WithField("limit", limit).
			Debug("set go memory limit")
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewPrometheusMetrics(registry)

	provider := usecasesstorage.NewProvider(logger, metrics)
	registerStorageModules(ctx, provider, logger)

	return &appState{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		metrics:    metrics,
		provider:   provider,
		repository: dataset.NewRepository(provider, logger, metrics),
		engine:     engine.New(provider, logger),
	}, nil
}

// registerStorageModules registers every storage module that can be
// initialized from the environment. The local filesystem is required.
func registerStorageModules(ctx context.Context, provider *usecasesstorage.Provider,
	logger logrus.FieldLogger,
) {
	if err := provider.Register(ctx, modstgfs.New()); err != nil {
		logger.WithError(err).Fatal("could not register filesystem storage")
	}

	for _, mod := range []storage.Module{modstgs3.New(), modstggcs.New(), modstgazure.New()} {
		if err := provider.Register(ctx, mod); err != nil {
			logger.WithField("action", "storage_register").
				WithField("module", mod.Name()).
				WithError(err).
				Debug("storage module not available")
		}
	}
}
