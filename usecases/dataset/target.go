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

package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/usecases/engine"
	"github.com/weaviate/dataset-tools/usecases/pathcodec"
)

// target writes into a staging directory of the dataset. Commit moves the
// staged files into their partition directories.
type target struct {
	view *View

	sync.Mutex
	mode    engine.WriteMode
	jobID   string
	staging dataset.Location
	release func()
	staged  []string
	logger  logrus.FieldLogger
}

func (t *target) Prepare(ctx context.Context, mode engine.WriteMode) error {
	switch mode {
	case engine.Append, engine.Overwrite:
	default:
		return dataset.NewErrInvalidArgument("write mode %v is not supported by dataset %s",
			mode, t.view.dataset.desc.Location)
	}

	t.Lock()
	defer t.Unlock()
	if t.release != nil {
		return errors.New("target already prepared")
	}

	release, err := t.view.dataset.locks.acquire(t.view.dataset.desc.Location)
	if err != nil {
		return err
	}

	t.release = release
	t.mode = mode
	t.jobID = uuid.NewString()
	t.staging = t.view.dataset.desc.Location.Join(stagingDir, t.jobID)
	t.staged = nil
	t.logger = t.view.dataset.logger.WithField("action", "dataset_write").
		WithField("staging", t.jobID).
		WithField("mode", mode.String())
	return nil
}

func (t *target) NewWriter(ctx context.Context, unit int) (engine.Writer, error) {
	t.Lock()
	defer t.Unlock()
	if t.release == nil {
		return nil, errors.New("target is not prepared")
	}

	return &partitionWriter{
		target:  t,
		unit:    unit,
		staging: t.staging,
		open:    map[string]recordEncoder{},
	}, nil
}

// Commit publishes all files staged by closed writers. After a failed
// Commit the target stays prepared so that Abort can clean up.
func (t *target) Commit(ctx context.Context) error {
	t.Lock()
	defer t.Unlock()
	if t.release == nil {
		return errors.New("target is not prepared")
	}

	d := t.view.dataset
	if t.mode == engine.Overwrite {
		existing, err := d.dataFiles(ctx, t.view.scope)
		if err != nil {
			return errors.Wrap(err, "list data to overwrite")
		}
		for _, file := range existing {
			if err := d.backend.Delete(ctx, file.Path); err != nil {
				return errors.Wrapf(err, "overwrite %s", file)
			}
		}
		t.logger.WithField("deleted", len(existing)).Debug("removed data for overwrite")
	}

	for _, p := range t.staged {
		from := t.staging
		from.Path = p
		rel, ok := t.staging.Rel(from)
		if !ok {
			return errors.Errorf("staged file %s outside of staging dir", p)
		}
		to := d.desc.Location.Join(rel...)
		if err := d.backend.Rename(ctx, p, to.Path); err != nil {
			return errors.Wrapf(err, "publish %s", to)
		}
	}

	t.logger.WithField("files", len(t.staged)).Info("committed staged data")
	defer t.done()
	return t.cleanStaging(ctx)
}

// Abort drops everything staged since Prepare.
func (t *target) Abort(ctx context.Context) error {
	t.Lock()
	defer t.Unlock()
	if t.release == nil {
		return nil
	}
	defer t.done()

	t.logger.WithField("files", len(t.staged)).Warn("aborting write, dropping staged data")
	return t.cleanStaging(ctx)
}

func (t *target) done() {
	t.release()
	t.release = nil
}

func (t *target) cleanStaging(ctx context.Context) error {
	backend := t.view.dataset.backend
	leftovers, err := backend.List(ctx, t.staging.Path)
	if err != nil {
		return errors.Wrap(err, "list staging dir")
	}

	var result *multierror.Error
	for _, p := range leftovers {
		if err := backend.Delete(ctx, p); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return errors.Wrap(result.ErrorOrNil(), "clean staging dir")
}

func (t *target) addStaged(paths []string) {
	t.Lock()
	defer t.Unlock()
	t.staged = append(t.staged, paths...)
}

// partitionWriter keeps one open data file per partition it has seen.
type partitionWriter struct {
	target  *target
	unit    int
	staging dataset.Location
	open    map[string]recordEncoder
	paths   []string
}

func (w *partitionWriter) relDir(rec interface{}) (string, error) {
	view := w.target.view
	desc := view.dataset.desc
	if !desc.IsPartitioned() {
		return "", nil
	}

	key, err := desc.Strategy.KeyFor(rec)
	if err != nil {
		return "", dataset.NewErrDataset(errors.Wrap(err, "partition record"))
	}
	if !view.Contains(key) {
		return "", dataset.NewErrDataset(errors.Errorf("record with key %v is not in view %s", key, view.scope))
	}
	return pathcodec.Encode(key, desc.Strategy)
}

func (w *partitionWriter) Write(ctx context.Context, rec interface{}) error {
	dir, err := w.relDir(rec)
	if err != nil {
		return err
	}

	enc, ok := w.open[dir]
	if !ok {
		desc := w.target.view.dataset.desc
		name := fmt.Sprintf("part-%s.%s", uuid.NewString(), dataExtension(desc))
		p := w.staging.Join(dir, name).Path

		file, err := w.target.view.dataset.backend.Create(ctx, p)
		if err != nil {
			return errors.Wrapf(err, "create data file in %q", dir)
		}
		enc, err = newEncoder(file, desc)
		if err != nil {
			file.Close()
			return err
		}
		w.open[dir] = enc
		w.paths = append(w.paths, p)
	}

	if err := enc.Encode(rec); err != nil {
		return errors.Wrapf(err, "encode record into %q", dir)
	}
	return nil
}

func (w *partitionWriter) Close(ctx context.Context) error {
	var result *multierror.Error
	for dir, enc := range w.open {
		if err := enc.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "close data file in %q", dir))
		}
	}
	w.open = map[string]recordEncoder{}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	w.target.addStaged(w.paths)
	w.paths = nil
	return nil
}
