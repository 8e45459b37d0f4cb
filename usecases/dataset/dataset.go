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
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/partition"
	"github.com/weaviate/dataset-tools/entities/storage"
	"github.com/weaviate/dataset-tools/usecases/monitoring"
	"github.com/weaviate/dataset-tools/usecases/pathcodec"
)

type Dataset struct {
	desc    dataset.Descriptor
	backend storage.Backend
	locks   *writeLocks
	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics
}

func (d *Dataset) Descriptor() dataset.Descriptor {
	return d.desc
}

func (d *Dataset) Location() dataset.Location {
	return d.desc.Location
}

// View returns the part of the dataset whose keys start with constraint.
// An empty constraint selects the whole dataset.
func (d *Dataset) View(constraint partition.Key) (*View, error) {
	if constraint.Len() == 0 {
		return &View{dataset: d, scope: d.desc.Location}, nil
	}
	if !d.desc.IsPartitioned() {
		return nil, dataset.NewErrInvalidArgument("dataset %s is not partitioned", d.desc.Location)
	}
	if constraint.Len() > d.desc.Strategy.Len() {
		return nil, dataset.NewErrInvalidArgument("constraint %v is longer than the partition strategy", constraint)
	}

	segments, err := pathcodec.EncodePrefix(constraint, d.desc.Strategy)
	if err != nil {
		return nil, err
	}
	// decoding normalizes values, e.g. int to int64 for integer identity fields
	key, err := pathcodec.DecodeSegments(segments, d.desc.Strategy)
	if err != nil {
		return nil, dataset.NewErrInvalidArgument("constraint %v: %v", constraint, err)
	}

	return &View{
		dataset:    d,
		constraint: key,
		scope:      d.desc.Location.Join(segments...),
	}, nil
}

// ViewAt returns the view rooted at a partition directory of the dataset.
func (d *Dataset) ViewAt(location string) (*View, error) {
	key, err := pathcodec.Decode(location, d.desc)
	if err != nil {
		d.metrics.PartitionDecodeFailed()
		return nil, err
	}
	return d.View(key)
}

// Partitions lists the keys of all non-empty partitions, cut to depth
// levels. depth <= 0 lists full keys.
func (d *Dataset) Partitions(ctx context.Context, depth int) ([]partition.Key, error) {
	if !d.desc.IsPartitioned() {
		return nil, dataset.NewErrInvalidArgument("dataset %s is not partitioned", d.desc.Location)
	}
	arity := d.desc.Strategy.Len()
	if depth <= 0 || depth > arity {
		depth = arity
	}

	files, err := d.dataFiles(ctx, d.desc.Location)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var keys []partition.Key
	for _, file := range files {
		segments, _ := d.desc.Location.Rel(file)
		dirs := segments[:len(segments)-1]
		if len(dirs) < depth {
			d.logger.WithField("action", "dataset_partitions").
				WithField("file", file.String()).
				Warn("data file outside of a partition directory")
			continue
		}

		key, err := pathcodec.DecodeSegments(dirs[:depth], d.desc.Strategy)
		if err != nil {
			d.metrics.PartitionDecodeFailed()
			d.logger.WithField("action", "dataset_partitions").
				WithField("file", file.String()).
				WithError(err).
				Warn("skip undecodable partition directory")
			continue
		}

		id := strings.Join(dirs[:depth], "/")
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

// dataFiles lists the data files below dir in sorted order.
func (d *Dataset) dataFiles(ctx context.Context, dir dataset.Location) ([]dataset.Location, error) {
	paths, err := d.backend.List(ctx, dir.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	pattern := "**/*." + dataExtension(d.desc)
	var out []dataset.Location
	for _, p := range paths {
		file := dir
		file.Path = p
		segments, ok := d.desc.Location.Rel(file)
		if !ok || len(segments) == 0 || hidden(segments) {
			continue
		}
		matched, err := doublestar.Match(pattern, strings.Join(segments, "/"))
		if err != nil {
			return nil, errors.Wrap(err, "match data files")
		}
		if matched {
			out = append(out, file)
		}
	}
	return out, nil
}

func hidden(segments []string) bool {
	for _, s := range segments {
		if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "_") {
			return true
		}
	}
	return false
}
