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
	"fmt"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	entcfg "github.com/weaviate/dataset-tools/entities/config"
	"github.com/weaviate/dataset-tools/entities/storage"
)

const (
	Name   = "storage-azure"
	Scheme = "azblob"

	azurePath       = "STORAGE_AZURE_PATH"
	azureMaxRetries = "STORAGE_AZURE_MAX_RETRIES"

	AZURE_STORAGE_CONNECTION_STRING = "AZURE_STORAGE_CONNECTION_STRING"
	AZURE_STORAGE_ACCOUNT           = "AZURE_STORAGE_ACCOUNT"
	AZURE_STORAGE_KEY               = "AZURE_STORAGE_KEY"
)

// StorageAzureModule serves azblob://<container>/<path> locations.
type StorageAzureModule struct {
	logger logrus.FieldLogger
	client *azblob.Client
	prefix string
}

func New() *StorageAzureModule {
	return &StorageAzureModule{}
}

func (m *StorageAzureModule) Name() string {
	return Name
}

func (m *StorageAzureModule) Scheme() string {
	return Scheme
}

func clientOptions() *azblob.ClientOptions {
	return &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: int32(entcfg.IntFromEnv(azureMaxRetries, 3)),
			},
		},
	}
}

func newClient() (*azblob.Client, error) {
	opts := clientOptions()
	if connectionString := os.Getenv(AZURE_STORAGE_CONNECTION_STRING); connectionString != "" {
		return azblob.NewClientFromConnectionString(connectionString, opts)
	}

	account := os.Getenv(AZURE_STORAGE_ACCOUNT)
	if account == "" {
		return nil, errors.Errorf("neither %s nor %s is set",
			AZURE_STORAGE_CONNECTION_STRING, AZURE_STORAGE_ACCOUNT)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)

	key := os.Getenv(AZURE_STORAGE_KEY)
	if key == "" {
		// public containers only
		return azblob.NewClientWithNoCredential(serviceURL, opts)
	}
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, errors.Wrap(err, "shared key credential")
	}
	return azblob.NewClientWithSharedKeyCredential(serviceURL, cred, opts)
}

func (m *StorageAzureModule) Init(ctx context.Context, logger logrus.FieldLogger) error {
	m.logger = logger
	m.prefix = os.Getenv(azurePath)

	client, err := newClient()
	if err != nil {
		return errors.Wrap(err, "create client")
	}
	m.client = client

	m.logger.WithField("action", "storage_init").
		WithField("module", Name).
		Debug("initialized azure storage")
	return nil
}

func (m *StorageAzureModule) Backend(ctx context.Context, container string) (storage.Backend, error) {
	if container == "" {
		return nil, errors.New("azure location without container")
	}

	containerClient := m.client.ServiceClient().NewContainerClient(container)
	probe := backoff.WithMaxRetries(backoff.NewConstantBackOff(250*time.Millisecond), 3)
	err := backoff.Retry(func() error {
		_, err := containerClient.GetProperties(ctx, nil)
		if bloberror.HasCode(err, bloberror.ContainerNotFound) {
			return backoff.Permanent(errors.Errorf("container %q does not exist", container))
		}
		return err
	}, backoff.WithContext(probe, ctx))
	if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "probe container %q", container))
	}

	return &azure{
		client:    m.client,
		container: container,
		prefix:    m.prefix,
		logger:    m.logger,
	}, nil
}

var _ = storage.Module(New())
