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

package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	enterrors "github.com/weaviate/dataset-tools/entities/errors"
)

// ObjectName maps an absolute backend path to an object name below prefix.
func ObjectName(prefix, p string) string {
	return strings.TrimPrefix(path.Join("/", prefix, path.Clean("/"+p)), "/")
}

// DirPrefix is the object name prefix matching everything below dir.
func DirPrefix(prefix, dir string) string {
	name := ObjectName(prefix, dir)
	if name == "" {
		return ""
	}
	return name + "/"
}

// PathOf is the inverse of ObjectName.
func PathOf(prefix, name string) string {
	trimmed := strings.TrimPrefix(name, ObjectName(prefix, "/"))
	return path.Clean("/" + trimmed)
}

// NewUploadWriter returns a writer whose bytes are streamed to upload,
// which runs in its own goroutine. Close waits for upload to finish and
// returns its error.
func NewUploadWriter(ctx context.Context, logger logrus.FieldLogger,
	upload func(ctx context.Context, r io.Reader) error,
) io.WriteCloser {
	pr, pw := io.Pipe()
	done := enterrors.GoWithResult(func() error {
		err := upload(ctx, pr)
		// unblock writers if the upload gave up early
		pr.CloseWithError(err)
		return err
	}, logger)
	return &uploadWriter{pw: pw, done: done}
}

type uploadWriter struct {
	pw   *io.PipeWriter
	done <-chan error
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *uploadWriter) Close() error {
	w.pw.Close()
	if err := <-w.done; err != nil {
		return NewErrInternal(err)
	}
	return nil
}
