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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/dataset"
	"github.com/weaviate/dataset-tools/entities/storage"
)

const (
	Name     = "storage-filesystem"
	rootName = "STORAGE_FS_ROOT"
)

// StorageFileSystemModule serves file:// locations. All paths are resolved
// below root, which is "/" unless STORAGE_FS_ROOT is set.
type StorageFileSystemModule struct {
	logger logrus.FieldLogger
	root   string
}

func New() *StorageFileSystemModule {
	return &StorageFileSystemModule{}
}

func (m *StorageFileSystemModule) Name() string {
	return Name
}

func (m *StorageFileSystemModule) Scheme() string {
	return dataset.SchemeLocal
}

func (m *StorageFileSystemModule) Init(ctx context.Context, logger logrus.FieldLogger) error {
	m.logger = logger
	root := os.Getenv(rootName)
	if root == "" {
		root = "/"
	}
	if err := m.initRoot(ctx, root); err != nil {
		return errors.Wrap(err, "init filesystem storage")
	}
	return nil
}

func (m *StorageFileSystemModule) initRoot(ctx context.Context, root string) error {
	if root == "" {
		return errors.Errorf("empty root path provided")
	}
	if !filepath.IsAbs(root) {
		return errors.Errorf("relative root path provided")
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return errors.Wrapf(err, "make root dir '%s'", root)
	}
	m.root = filepath.Clean(root)
	return nil
}

// Backend returns the local filesystem. Only an empty authority (or
// localhost) is accepted.
func (m *StorageFileSystemModule) Backend(ctx context.Context, authority string) (storage.Backend, error) {
	if authority != "" && authority != "localhost" {
		return nil, errors.Errorf("filesystem storage does not support authority %q", authority)
	}
	return &fileSystem{root: m.root}, nil
}

var _ = storage.Module(New())
