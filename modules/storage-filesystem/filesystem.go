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

package modstgfs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/weaviate/dataset-tools/entities/storage"
)

type fileSystem struct {
	root string
}

func (f *fileSystem) osPath(p string) string {
	return filepath.Join(f.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (f *fileSystem) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "open '%s'", p))
	}

	file, err := os.Open(f.osPath(p))
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.NewErrNotFound(errors.Wrapf(err, "open '%s'", p))
	} else if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "open '%s'", p))
	}
	return file, nil
}

// Create writes into a temporary sibling which is renamed into place on
// Close, so readers never observe partial files.
func (f *fileSystem) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "create '%s'", p))
	}

	target := f.osPath(p)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "make dir '%s'", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "create '%s'", p))
	}
	return &atomicFile{File: tmp, target: target}, nil
}

type atomicFile struct {
	*os.File
	target string
}

func (a *atomicFile) Close() error {
	if err := a.File.Close(); err != nil {
		os.Remove(a.File.Name())
		return storage.NewErrInternal(errors.Wrapf(err, "close '%s'", a.target))
	}
	if err := os.Rename(a.File.Name(), a.target); err != nil {
		os.Remove(a.File.Name())
		return storage.NewErrInternal(errors.Wrapf(err, "move into '%s'", a.target))
	}
	return nil
}

func (f *fileSystem) List(ctx context.Context, dir string) ([]string, error) {
	base := f.osPath(dir)
	var out []string

	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return storage.NewErrContextExpired(err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		out = append(out, "/"+filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "list '%s'", dir))
	}

	sort.Strings(out)
	return out, nil
}

func (f *fileSystem) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return storage.NewErrContextExpired(errors.Wrapf(err, "delete '%s'", p))
	}

	err := os.Remove(f.osPath(p))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return storage.NewErrInternal(errors.Wrapf(err, "delete '%s'", p))
	}
	return nil
}

func (f *fileSystem) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return storage.NewErrContextExpired(errors.Wrapf(err, "rename '%s'", from))
	}

	target := f.osPath(to)
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return storage.NewErrInternal(errors.Wrapf(err, "make dir for '%s'", to))
	}

	err := os.Rename(f.osPath(from), target)
	if errors.Is(err, os.ErrNotExist) {
		return storage.NewErrNotFound(errors.Wrapf(err, "rename '%s'", from))
	} else if err != nil {
		return storage.NewErrInternal(errors.Wrapf(err, "rename '%s' to '%s'", from, to))
	}
	return nil
}

func (f *fileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := os.Stat(f.osPath(p))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, storage.NewErrInternal(errors.Wrapf(err, "stat '%s'", p))
	}
	return true, nil
}
