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
	"reflect"

	"github.com/pkg/errors"
	"github.com/weaviate/dataset-tools/entities/partition"
	"github.com/weaviate/dataset-tools/entities/record"
)

// Format is the encoding of records inside data files.
type Format string

const (
	FormatMsgpack Format = "msgpack"
	FormatJSON    Format = "json"
)

// Extension is the file extension used for data files of this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "jsonl"
	default:
		return "msgpack"
	}
}

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Descriptor describes a dataset: where it lives, how it is partitioned and
// which record type it holds. RecordType is not persisted, it is supplied by
// the code that loads the dataset.
type Descriptor struct {
	Location    Location            `json:"location"`
	Strategy    *partition.Strategy `json:"partitionStrategy,omitempty"`
	RecordType  reflect.Type        `json:"-"`
	Format      Format              `json:"format"`
	Compression Compression         `json:"compression"`
}

// WithDefaults fills in the record type, format and compression if unset.
func (d Descriptor) WithDefaults() Descriptor {
	if d.RecordType == nil {
		d.RecordType = record.GenericType
	}
	if d.Format == "" {
		d.Format = FormatMsgpack
	}
	if d.Compression == "" {
		d.Compression = CompressionNone
	}
	return d
}

func (d Descriptor) IsPartitioned() bool {
	return d.Strategy != nil
}

func (d Descriptor) Validate() error {
	if d.Location.IsZero() {
		return errors.New("descriptor has no location")
	}
	switch d.Format {
	case FormatMsgpack, FormatJSON:
	default:
		return errors.Errorf("unsupported format %q", d.Format)
	}
	switch d.Compression {
	case CompressionNone, CompressionZstd:
	default:
		return errors.Errorf("unsupported compression %q", d.Compression)
	}
	return nil
}
