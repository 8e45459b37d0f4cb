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

// Package engine defines the contract between dataset code and a batch
// execution engine, and ships an in-process implementation of it.
//
// A pipeline reads records from a Source, passes them through a chain of
// DoFns, optionally shuffles them into groups, and writes them to a Target.
// Output only becomes visible when the Target is committed.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Emitter hands a record to the next step of a pipeline.
type Emitter func(rec interface{}) error

// DoFn processes one input record and emits zero or more output records.
// It is called concurrently from several workers.
type DoFn func(ctx context.Context, in interface{}, emit Emitter) error

// KeyFn returns the shuffle key of a record. Records with equal keys end up
// in the same group.
type KeyFn func(rec interface{}) (string, error)

// Split is one input-side unit of parallelism, e.g. a data file.
type Split interface {
	Name() string
	Read(ctx context.Context, emit Emitter) error
}

type Source interface {
	Splits(ctx context.Context) ([]Split, error)
}

type Writer interface {
	Write(ctx context.Context, rec interface{}) error
	Close(ctx context.Context) error
}

// Target receives the output of a pipeline. Writers stage their output,
// Commit publishes everything staged since Prepare, Abort discards it.
type Target interface {
	Prepare(ctx context.Context, mode WriteMode) error
	NewWriter(ctx context.Context, unit int) (Writer, error)
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
}

type Collection interface {
	ParallelDo(name string, fn DoFn) Collection
	// GroupBy shuffles records into n groups by key. n <= 0 selects the
	// engine default.
	GroupBy(name string, keyFn KeyFn, n int) Collection
}

type Pipeline interface {
	Read(src Source) Collection
	Write(c Collection, target Target, mode WriteMode)
	// Done runs the pipeline and blocks until it finished.
	Done(ctx context.Context) (*Result, error)
}

type Factory interface {
	NewPipeline(name string, cfg Config) Pipeline
}

type WriteMode int

const (
	Append WriteMode = iota
	Overwrite
	// Checkpoint replaces the target only if the source changed since the
	// last run.
	Checkpoint
)

func (m WriteMode) String() string {
	switch m {
	case Append:
		return "APPEND"
	case Overwrite:
		return "OVERWRITE"
	case Checkpoint:
		return "CHECKPOINT"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToUpper(s) {
	case "APPEND", "":
		return Append, nil
	case "OVERWRITE":
		return Overwrite, nil
	case "CHECKPOINT":
		return Checkpoint, nil
	default:
		return Append, errors.Errorf("unknown write mode %q", s)
	}
}

func (m WriteMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *WriteMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWriteMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
