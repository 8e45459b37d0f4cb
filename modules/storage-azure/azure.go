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

package modstgazure

import (
	"context"
	"io"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/dataset-tools/entities/storage"
)

type azure struct {
	client    *azblob.Client
	container string
	prefix    string
	logger    logrus.FieldLogger
}

func (a *azure) blobName(p string) string {
	return storage.ObjectName(a.prefix, p)
}

func (a *azure) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	blobName := a.blobName(p)
	resp, err := a.client.DownloadStream(ctx, a.container, blobName, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, storage.NewErrNotFound(errors.Wrapf(err, "download stream '%s'", blobName))
	} else if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "download stream '%s'", blobName))
	}
	return resp.Body, nil
}

func (a *azure) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.NewErrContextExpired(errors.Wrapf(err, "create '%s'", p))
	}

	blobName := a.blobName(p)
	return storage.NewUploadWriter(ctx, a.logger, func(ctx context.Context, r io.Reader) error {
		_, err := a.client.UploadStream(ctx, a.container, blobName, r, nil)
		return errors.Wrapf(err, "upload stream '%s'", blobName)
	}), nil
}

func (a *azure) List(ctx context.Context, dir string) ([]string, error) {
	prefix := storage.DirPrefix(a.prefix, dir)
	pager := a.client.NewListBlobsFlatPager(a.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var out []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, storage.NewErrInternal(errors.Wrapf(err, "list '%s'", dir))
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			out = append(out, storage.PathOf(a.prefix, *item.Name))
		}
	}

	sort.Strings(out)
	return out, nil
}

func (a *azure) Delete(ctx context.Context, p string) error {
	blobName := a.blobName(p)
	_, err := a.client.DeleteBlob(ctx, a.container, blobName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return storage.NewErrInternal(errors.Wrapf(err, "delete blob '%s'", blobName))
	}
	return nil
}

// Rename streams the blob into its new name. Server side copies are
// asynchronous in Azure and would need polling.
func (a *azure) Rename(ctx context.Context, from, to string) error {
	src, err := a.Open(ctx, from)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = a.client.UploadStream(ctx, a.container, a.blobName(to), src, nil)
	if err != nil {
		return storage.NewErrInternal(errors.Wrapf(err, "upload stream '%s'", a.blobName(to)))
	}
	return a.Delete(ctx, from)
}

func (a *azure) Exists(ctx context.Context, p string) (bool, error) {
	blobName := a.blobName(p)
	_, err := a.client.ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(blobName).
		GetProperties(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return false, nil
	} else if err != nil {
		return false, storage.NewErrInternal(errors.Wrapf(err, "get properties '%s'", blobName))
	}
	return true, nil
}
