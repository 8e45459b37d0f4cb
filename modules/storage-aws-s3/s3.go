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

package modstgs3

import (
	"context"
	"io"
	"net/http"
	"sort"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/storage"
)

type s3 struct {
	client *minio.Client
	bucket string
	prefix string
	logger logrus.FieldLogger
}

func (s *s3) objectName(p string) string {
	return storage.ObjectName(s.prefix, p)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey"
}

func (s *s3) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "open '%s'", p))
	}

	objectName := s.objectName(p)
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "get object '%s'", objectName))
	}
	// GetObject is lazy, Stat surfaces a missing key
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, storage.NewErrNotFound(errors.Wrapf(err, "get object '%s'", objectName))
		}
		return nil, storage.NewErrInternal(errors.Wrapf(err, "get object '%s'", objectName))
	}
	return obj, nil
}

func (s *s3) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "create '%s'", p))
	}

	objectName := s.objectName(p)
	putOptions := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	return storage.NewUploadWriter(ctx, s.logger, func(ctx context.Context, r io.Reader) error {
		_, err := s.client.PutObject(ctx, s.bucket, objectName, r, -1, putOptions)
		return errors.Wrapf(err, "put object '%s'", objectName)
	}), nil
}

func (s *s3) List(ctx context.Context, dir string) ([]string, error) {
	var out []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    storage.DirPrefix(s.prefix, dir),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, storage.NewErrInternal(errors.Wrapf(obj.Err, "list '%s'", dir))
		}
		out = append(out, storage.PathOf(s.prefix, obj.Key))
	}
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "list '%s'", dir))
	}

	sort.Strings(out)
	return out, nil
}

func (s *s3) Delete(ctx context.Context, p string) error {
	objectName := s.objectName(p)
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return storage.NewErrInternal(errors.Wrapf(err, "remove object '%s'", objectName))
	}
	return nil
}

// Rename copies server side and removes the source, S3 has no move.
func (s *s3) Rename(ctx context.Context, from, to string) error {
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: s.objectName(from)}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: s.objectName(to)}

	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		if isNotFound(err) {
			return storage.NewErrNotFound(errors.Wrapf(err, "copy object '%s'", src.Object))
		}
		return storage.NewErrInternal(errors.Wrapf(err, "copy object '%s' to '%s'", src.Object, dst.Object))
	}
	return s.Delete(ctx, from)
}

func (s *s3) Exists(ctx context.Context, p string) (bool, error) {
	objectName := s.objectName(p)
	_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, storage.NewErrInternal(errors.Wrapf(err, "stat object '%s'", objectName))
	}
	return true, nil
}
