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
	"io"

	"github.com/pkg/errors"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/partition"
	"github.com/weaviate/dataset-tools/usecases/engine"
)

// View is a dataset restricted to the partitions below a key prefix.
type View struct {
	dataset    *Dataset
	constraint partition.Key
	scope      dataset.Location
}

func (v *View) Dataset() *Dataset {
	return v.dataset
}

func (v *View) Descriptor() dataset.Descriptor {
	return v.dataset.desc
}

func (v *View) Constraint() partition.Key {
	return v.constraint
}

// Scope is the directory holding all data of the view.
func (v *View) Scope() dataset.Location {
	return v.scope
}

// Contains reports whether a record with the full key belongs to the view.
func (v *View) Contains(key partition.Key) bool {
	return key.HasPrefix(v.constraint)
}

func (v *View) AsSource() engine.Source {
	return &source{view: v}
}

func (v *View) AsTarget() engine.Target {
	return &target{view: v}
}

// Records calls fn for every record of the view, one data file after the
// other.
func (v *View) Records(ctx context.Context, fn func(rec interface{}) error) error {
	splits, err := v.AsSource().Splits(ctx)
	if err != nil {
		return err
	}
	for _, split := range splits {
		if err := split.Read(ctx, engine.Emitter(fn)); err != nil {
			return err
		}
	}
	return nil
}

type source struct {
	view *View
}

// Splits returns one split per data file.
func (s *source) Splits(ctx context.Context) ([]engine.Split, error) {
	files, err := s.view.dataset.dataFiles(ctx, s.view.scope)
	if err != nil {
		return nil, err
	}

	splits := make([]engine.Split, len(files))
	for i, file := range files {
		splits[i] = &fileSplit{dataset: s.view.dataset, file: file}
	}
	return splits, nil
}

type fileSplit struct {
	dataset *Dataset
	file    dataset.Location
}

func (f *fileSplit) Name() string {
	return f.file.String()
}

func (f *fileSplit) Read(ctx context.Context, emit engine.Emitter) error {
	r, err := f.dataset.backend.Open(ctx, f.file.Path)
	if err != nil {
		return errors.Wrapf(err, "open %s", f.file)
	}
	dec, err := newDecoder(r, f.dataset.desc)
	if err != nil {
		r.Close()
		return errors.Wrapf(err, "read %s", f.file)
	}
	defer dec.Close()

	for {
		rec, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "decode %s", f.file)
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}
