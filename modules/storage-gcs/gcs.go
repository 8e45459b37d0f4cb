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

package modstggcs

import (
	"context"
	"io"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	entstorage "github.com/weaviate/dataset-tools/entities/storage"
	"google.golang.org/api/iterator"
)

type gcs struct {
	bucket *storage.BucketHandle
	prefix string
}

func (g *gcs) object(p string) *storage.ObjectHandle {
	return g.bucket.Object(entstorage.ObjectName(g.prefix, p))
}

func (g *gcs) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	obj := g.object(p)
	reader, err := obj.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, entstorage.NewErrNotFound(errors.Wrapf(err, "new reader: %v", obj.ObjectName()))
	} else if err != nil {
		return nil, entstorage.NewErrInternal(errors.Wrapf(err, "new reader: %v", obj.ObjectName()))
	}
	return reader, nil
}

// Create uses the resumable upload writer, the object is committed on Close.
func (g *gcs) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, entstorage.NewErrContextExpired(errors.Wrapf(err, "create '%s'", p))
	}
	writer := g.object(p).NewWriter(ctx)
	writer.ContentType = "application/octet-stream"
	return &objectWriter{Writer: writer}, nil
}

type objectWriter struct {
	*storage.Writer
}

func (w *objectWriter) Close() error {
	if err := w.Writer.Close(); err != nil {
		return entstorage.NewErrInternal(errors.Wrapf(err, "close writer: %v", w.Writer.Name))
	}
	return nil
}

func (g *gcs) List(ctx context.Context, dir string) ([]string, error) {
	var out []string
	it := g.bucket.Objects(ctx, &storage.Query{Prefix: entstorage.DirPrefix(g.prefix, dir)})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, entstorage.NewErrInternal(errors.Wrapf(err, "list '%s'", dir))
		}
		out = append(out, entstorage.PathOf(g.prefix, attrs.Name))
	}

	sort.Strings(out)
	return out, nil
}

func (g *gcs) Delete(ctx context.Context, p string) error {
	obj := g.object(p)
	err := obj.Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return entstorage.NewErrInternal(errors.Wrapf(err, "delete: %v", obj.ObjectName()))
	}
	return nil
}

func (g *gcs) Rename(ctx context.Context, from, to string) error {
	src, dst := g.object(from), g.object(to)
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return entstorage.NewErrNotFound(errors.Wrapf(err, "copy: %v", src.ObjectName()))
		}
		return entstorage.NewErrInternal(errors.Wrapf(err, "copy %v to %v", src.ObjectName(), dst.ObjectName()))
	}
	return g.Delete(ctx, from)
}

func (g *gcs) Exists(ctx context.Context, p string) (bool, error) {
	obj := g.object(p)
	_, err := obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	} else if err != nil {
		return false, entstorage.NewErrInternal(errors.Wrapf(err, "attrs: %v", obj.ObjectName()))
	}
	return true, nil
}
