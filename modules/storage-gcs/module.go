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
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	entstorage "github.com/weaviate/dataset-tools/entities/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	Name   = "storage-gcs"
	Scheme = "gs"

	gcsEndpoint = "STORAGE_GCS_ENDPOINT"
	gcsPath     = "STORAGE_GCS_PATH"

	GOOGLE_APPLICATION_CREDENTIALS = "GOOGLE_APPLICATION_CREDENTIALS"
	GOOGLE_CLOUD_PROJECT           = "GOOGLE_CLOUD_PROJECT"
	GCLOUD_PROJECT                 = "GCLOUD_PROJECT"
	GCP_PROJECT                    = "GCP_PROJECT"
)

type StorageGCSModule struct {
	logger    logrus.FieldLogger
	client    *storage.Client
	projectID string
	prefix    string
}

func New() *StorageGCSModule {
	return &StorageGCSModule{}
}

func (m *StorageGCSModule) Name() string {
	return Name
}

func (m *StorageGCSModule) Scheme() string {
	return Scheme
}

func projectIDFromEnv() string {
	for _, name := range []string{GOOGLE_CLOUD_PROJECT, GCLOUD_PROJECT, GCP_PROJECT} {
		if id := os.Getenv(name); id != "" {
			return id
		}
	}
	return ""
}

func clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	options := []option.ClientOption{}
	if endpoint := os.Getenv(gcsEndpoint); endpoint != "" {
		// emulators such as fake-gcs-server
		return append(options, option.WithEndpoint(endpoint), option.WithoutAuthentication()), nil
	}
	if len(os.Getenv(GOOGLE_APPLICATION_CREDENTIALS)) > 0 {
		scopes := []string{
			"https://www.googleapis.com/auth/devstorage.read_write",
		}
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, errors.Wrap(err, "find default credentials")
		}
		return append(options, option.WithCredentials(creds)), nil
	}
	return append(options, option.WithoutAuthentication()), nil
}

func (m *StorageGCSModule) Init(ctx context.Context, logger logrus.FieldLogger) error {
	m.logger = logger
	m.projectID = projectIDFromEnv()
	m.prefix = os.Getenv(gcsPath)

	options, err := clientOptions(ctx)
	if err != nil {
		return errors.Wrap(err, "init gcs storage")
	}
	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return errors.Wrap(err, "create client")
	}
	m.client = client

	m.logger.WithField("action", "storage_init").
		WithField("module", Name).
		WithField("project", m.projectID).
		Debug("initialized gcs storage")
	return nil
}

func (m *StorageGCSModule) Backend(ctx context.Context, bucket string) (entstorage.Backend, error) {
	if bucket == "" {
		return nil, errors.New("gcs location without bucket")
	}

	handle := m.client.Bucket(bucket)
	probe := backoff.WithMaxRetries(backoff.NewConstantBackOff(250*time.Millisecond), 3)
	err := backoff.Retry(func() error {
		_, err := handle.Attrs(ctx)
		if errors.Is(err, storage.ErrBucketNotExist) {
			return backoff.Permanent(errors.Errorf("bucket %q does not exist", bucket))
		}
		return err
	}, backoff.WithContext(probe, ctx))
	if err != nil {
		return nil, entstorage.NewErrInternal(errors.Wrapf(err, "probe bucket %q", bucket))
	}

	return &gcs{bucket: handle, prefix: m.prefix}, nil
}

var _ = entstorage.Module(New())
