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

// Package storage defines the contract dataset code uses to talk to a
// filesystem or object store. Paths are absolute and slash separated; object
// store backends map them to object names without the leading slash.
package storage

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type Backend interface {
	// Open returns a reader for the file at p, or ErrNotFound.
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	// Create truncates or creates the file at p. Its content becomes visible
	// once the returned writer is closed without error.
	Create(ctx context.Context, p string) (io.WriteCloser, error)
	// List returns the paths of all files below dir, recursively and sorted.
	// A missing dir yields an empty list.
	List(ctx context.Context, dir string) ([]string, error)
	// Delete removes the file at p. Deleting a missing file is not an error.
	Delete(ctx context.Context, p string) error
	// Rename moves a file, replacing the destination if it exists.
	Rename(ctx context.Context, from, to string) error
	Exists(ctx context.Context, p string) (bool, error)
}

// Module creates backends for one URI scheme.
type Module interface {
	Name() string
	Scheme() string
	Init(ctx context.Context, logger logrus.FieldLogger) error
	// Backend returns the backend for an authority, e.g. a bucket name.
	Backend(ctx context.Context, authority string) (Backend, error)
}
