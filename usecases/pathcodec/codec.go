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

// Package pathcodec maps partition keys to directory paths and back.
//
// A key of strategy [hash(username->username_part, 2), hash(email, 3)] with
// values (1, 2) is stored below "username_part=1/email=2". Encoding always
// covers the full strategy. Decoding accepts any prefix of it, so callers can
// address intermediate directories, e.g. for pruning at the first level.
//
// Values are not escaped: a value containing "/" or "=" cannot be encoded.
package pathcodec

import (
	"strings"

	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/partition"
)

const (
	separator = "/"
	assign    = "="
)

// Encode returns the path of key relative to a dataset root.
func Encode(key partition.Key, strategy *partition.Strategy) (string, error) {
	if strategy != nil && key.Len() != strategy.Len() {
		return "", dataset.NewErrInvalidArgument("key %v has %d values, strategy has %d fields",
			key, key.Len(), strategy.Len())
	}
	segments, err := EncodePrefix(key, strategy)
	if err != nil {
		return "", err
	}
	return strings.Join(segments, separator), nil
}

// EncodePrefix returns the directory names of a key that covers the first
// key.Len() fields of strategy.
func EncodePrefix(key partition.Key, strategy *partition.Strategy) ([]string, error) {
	if strategy == nil {
		return nil, dataset.NewErrInvalidArgument("cannot encode key %v: dataset is not partitioned", key)
	}
	if key.Len() > strategy.Len() {
		return nil, dataset.NewErrInvalidArgument("key %v has %d values, strategy has %d fields",
			key, key.Len(), strategy.Len())
	}

	segments := make([]string, key.Len())
	for i := range segments {
		field := strategy.Field(i)
		value, err := field.Format(key.Get(i))
		if err != nil {
			return nil, dataset.NewErrInvalidArgument("encode key %v: %v", key, err)
		}
		if value == "" || strings.ContainsAny(value, separator+assign) {
			return nil, dataset.NewErrInvalidArgument("partition %q: value %q cannot be used in a path",
				field.Name, value)
		}
		segments[i] = field.Name + assign + value
	}
	return segments, nil
}

// Location returns the absolute location of the data of key.
func Location(root dataset.Location, key partition.Key, strategy *partition.Strategy) (dataset.Location, error) {
	rel, err := Encode(key, strategy)
	if err != nil {
		return dataset.Location{}, err
	}
	return root.Join(rel), nil
}

// Decode returns the key addressed by location, which must be the root of
// the dataset described by desc or a directory below it. All failures are
// dataset.ErrInvalidPartitionPath.
func Decode(location string, desc dataset.Descriptor) (partition.Key, error) {
	loc, err := dataset.ParseLocation(location)
	if err != nil {
		return partition.Key{}, dataset.NewErrInvalidPartitionPath("invalid path %q: %v", location, err)
	}
	return DecodeLocation(loc, desc)
}

// DecodeLocation is Decode for an already parsed location.
func DecodeLocation(loc dataset.Location, desc dataset.Descriptor) (partition.Key, error) {
	root := desc.Location
	if loc.Backend() != root.Backend() {
		return partition.Key{}, dataset.NewErrInvalidPartitionPath(
			"path %s is on a different backend than dataset %s", loc, root)
	}

	segments, ok := root.Rel(loc)
	if !ok {
		return partition.Key{}, dataset.NewErrInvalidPartitionPath(
			"path %s is not in dataset root %s", loc, root)
	}

	return DecodeSegments(segments, desc.Strategy)
}

// DecodeSegments decodes the directory names below a dataset root.
func DecodeSegments(segments []string, strategy *partition.Strategy) (partition.Key, error) {
	arity := 0
	if strategy != nil {
		arity = strategy.Len()
	}
	if len(segments) > arity {
		return partition.Key{}, dataset.NewErrInvalidPartitionPath(
			"too many partition directories for %s: %d > %d",
			strings.Join(segments, separator), len(segments), arity)
	}

	values := make([]interface{}, len(segments))
	for i, segment := range segments {
		field := strategy.Field(i)

		name, value, found := strings.Cut(segment, assign)
		if name == "" {
			return partition.Key{}, dataset.NewErrInvalidPartitionPath(
				"unrecognized partition directory %q: empty partition name", segment)
		}
		if !found || value == "" {
			return partition.Key{}, dataset.NewErrInvalidPartitionPath(
				"missing partition value in directory %q", segment)
		}
		if name != field.Name {
			return partition.Key{}, dataset.NewErrInvalidPartitionPath(
				"unrecognized partition directory %q: expected partition %q", segment, field.Name)
		}

		v, err := field.Parse(value)
		if err != nil {
			return partition.Key{}, dataset.NewErrInvalidPartitionPath(
				"invalid partition value in directory %q: %v", segment, err)
		}
		values[i] = v
	}

	return partition.NewKey(values...), nil
}
