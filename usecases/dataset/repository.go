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

// Package dataset stores partitioned datasets on a storage backend.
//
// A dataset lives below its root location:
//
//	<root>/.metadata/descriptor.json
//	<root>/<name>=<value>/.../part-<uuid>.<ext>
//
// Entries starting with "." or "_" are never treated as data.
package dataset

import (
	"context"
	"encoding/json"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/storage"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
)

const (
	metadataDir    = ".metadata"
	descriptorFile = "descriptor.json"
	stagingDir     = ".staging"
)

type BackendProvider interface {
	Backend(ctx context.Context, loc dataset.Location) (storage.Backend, error)
}

type Repository struct {
	backends BackendProvider
	logger   logrus.FieldLogger
	metrics  *monitoring.PrometheusMetrics
	locks    *writeLocks
}

// NewRepository creates a repository. metrics may be nil.
func NewRepository(backends BackendProvider, logger logrus.FieldLogger,
	metrics *monitoring.PrometheusMetrics,
) *Repository {
	return &Repository{
		backends: backends,
		logger:   logger,
		metrics:  metrics,
		locks:    newWriteLocks(),
	}
}

func descriptorPath(root dataset.Location) string {
	return root.Join(metadataDir, descriptorFile).Path
}

// Create stores desc and returns the new, empty dataset.
func (r *Repository) Create(ctx context.Context, desc dataset.Descriptor) (*Dataset, error) {
	desc = desc.WithDefaults()
	if err := desc.Validate(); err != nil {
		return nil, dataset.NewErrInvalidArgument("invalid descriptor: %v", err)
	}

	backend, err := r.backends.Backend(ctx, desc.Location)
	if err != nil {
		return nil, err
	}

	exists, err := backend.Exists(ctx, descriptorPath(desc.Location))
	if err != nil {
		return nil, errors.Wrapf(err, "check dataset %s", desc.Location)
	}
	if exists {
		return nil, dataset.NewErrDataset(errors.Errorf("dataset %s already exists", desc.Location))
	}

	content, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal descriptor")
	}
	w, err := backend.Create(ctx, descriptorPath(desc.Location))
	if err != nil {
		return nil, errors.Wrapf(err, "create descriptor of %s", desc.Location)
	}
	_, err = w.Write(content)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "write descriptor of %s", desc.Location)
	}

	r.logger.WithField("action", "dataset_create").
		WithField("dataset", desc.Location.String()).
		WithField("partitioned", desc.IsPartitioned()).
		Info("dataset created")
	return r.newDataset(desc, backend), nil
}

// Load reads the descriptor stored at loc. Records are decoded into
// recordType, nil means generic maps.
func (r *Repository) Load(ctx context.Context, loc dataset.Location, recordType reflect.Type) (*Dataset, error) {
	backend, err := r.backends.Backend(ctx, loc)
	if err != nil {
		return nil, err
	}

	f, err := backend.Open(ctx, descriptorPath(loc))
	if storage.IsNotFound(err) {
		return nil, dataset.NewErrDataset(errors.Wrapf(err, "no dataset at %s", loc))
	} else if err != nil {
		return nil, errors.Wrapf(err, "open descriptor of %s", loc)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read descriptor of %s", loc)
	}

	var desc dataset.Descriptor
	if err := json.Unmarshal(content, &desc); err != nil {
		return nil, dataset.NewErrDataset(errors.Wrapf(err, "corrupt descriptor of %s", loc))
	}
	// the stored location may differ after a dataset was moved
	desc.Location = loc
	desc.RecordType = recordType
	desc = desc.WithDefaults()
	if err := desc.Validate(); err != nil {
		return nil, dataset.NewErrDataset(errors.Wrapf(err, "invalid descriptor of %s", loc))
	}

	return r.newDataset(desc, backend), nil
}

func (r *Repository) Exists(ctx context.Context, loc dataset.Location) (bool, error) {
	backend, err := r.backends.Backend(ctx, loc)
	if err != nil {
		return false, err
	}
	return backend.Exists(ctx, descriptorPath(loc))
}

// Delete removes the dataset with all its data. Deleting a missing dataset
// is a no-op.
func (r *Repository) Delete(ctx context.Context, loc dataset.Location) error {
	backend, err := r.backends.Backend(ctx, loc)
	if err != nil {
		return err
	}

	release, err := r.locks.acquire(loc)
	if err != nil {
		return err
	}
	defer release()

	files, err := backend.List(ctx, loc.Path)
	if err != nil {
		return errors.Wrapf(err, "list %s", loc)
	}
	// data first, the descriptor marks the dataset as existing
	descriptor := descriptorPath(loc)
	for _, file := range files {
		if file == descriptor {
			continue
		}
		if err := backend.Delete(ctx, file); err != nil {
			return errors.Wrapf(err, "delete %s", file)
		}
	}
	if err := backend.Delete(ctx, descriptor); err != nil {
		return errors.Wrapf(err, "delete %s", descriptor)
	}

	r.logger.WithField("action", "dataset_delete").
		WithField("dataset", loc.String()).
		WithField("files", len(files)).
		Info("dataset deleted")
	return nil
}

func (r *Repository) newDataset(desc dataset.Descriptor, backend storage.Backend) *Dataset {
	return &Dataset{
		desc:    desc,
		backend: backend,
		locks:   r.locks,
		logger:  r.logger.WithField("dataset", desc.Location.String()),
		metrics: r.metrics,
	}
}
