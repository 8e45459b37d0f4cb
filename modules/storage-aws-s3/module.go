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
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	entcfg "github.com/weaviate/dataset-tools/entities/config"
	"github.com/weaviate/dataset-tools/entities/storage"
)

const (
	Name   = "storage-aws-s3"
	Scheme = "s3"

	s3Endpoint = "STORAGE_S3_ENDPOINT"
	s3UseSSL   = "STORAGE_S3_USE_SSL"
	s3Path     = "STORAGE_S3_PATH"

	AWS_ROLE_ARN                = "AWS_ROLE_ARN"
	AWS_WEB_IDENTITY_TOKEN_FILE = "AWS_WEB_IDENTITY_TOKEN_FILE"
	AWS_REGION                  = "AWS_REGION"
	AWS_DEFAULT_REGION          = "AWS_DEFAULT_REGION"

	DEFAULT_ENDPOINT = "s3.amazonaws.com"
)

type StorageS3Module struct {
	logger logrus.FieldLogger
	client *minio.Client
	config config

	// probe controls how often a bucket is checked before it is declared
	// missing. Freshly started object stores may need a moment.
	probe func() backoff.BackOff
}

type config struct {
	endpoint string
	useSSL   bool
	prefix   string
	region   string
}

func New() *StorageS3Module {
	return &StorageS3Module{
		probe: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(250*time.Millisecond), 3)
		},
	}
}

func (m *StorageS3Module) Name() string {
	return Name
}

func (m *StorageS3Module) Scheme() string {
	return Scheme
}

func configFromEnv() config {
	c := config{
		endpoint: os.Getenv(s3Endpoint),
		// SSL is on unless explicitly disabled
		useSSL: os.Getenv(s3UseSSL) == "" || entcfg.Enabled(os.Getenv(s3UseSSL)),
		prefix: os.Getenv(s3Path),
		region: os.Getenv(AWS_REGION),
	}
	if c.endpoint == "" {
		c.endpoint = DEFAULT_ENDPOINT
	}
	if c.region == "" {
		c.region = os.Getenv(AWS_DEFAULT_REGION)
	}
	return c
}

func (m *StorageS3Module) Init(ctx context.Context, logger logrus.FieldLogger) error {
	m.logger = logger
	m.config = configFromEnv()

	creds := credentials.NewEnvAWS()
	if len(os.Getenv(AWS_WEB_IDENTITY_TOKEN_FILE)) > 0 && len(os.Getenv(AWS_ROLE_ARN)) > 0 {
		creds = credentials.NewIAM("")
	}
	client, err := minio.New(m.config.endpoint, &minio.Options{
		Creds:  creds,
		Region: m.config.region,
		Secure: m.config.useSSL,
	})
	if err != nil {
		return errors.Wrap(err, "create client")
	}
	m.client = client

	m.logger.WithField("action", "storage_init").
		WithField("module", Name).
		WithField("endpoint", m.config.endpoint).
		WithField("useSSL", m.config.useSSL).
		Debug("initialized s3 storage")
	return nil
}

// Backend returns the backend for a bucket, which must exist.
func (m *StorageS3Module) Backend(ctx context.Context, bucket string) (storage.Backend, error) {
	if bucket == "" {
		return nil, errors.New("s3 location without bucket")
	}

	err := backoff.Retry(func() error {
		exists, err := m.client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !exists {
			return backoff.Permanent(errors.Errorf("bucket %q does not exist", bucket))
		}
		return nil
	}, backoff.WithContext(m.probe(), ctx))
	if err != nil {
		return nil, storage.NewErrInternal(errors.Wrapf(err, "probe bucket %q", bucket))
	}

	return &s3{
		client: m.client,
		bucket: bucket,
		prefix: m.config.prefix,
		logger: m.logger,
	}, nil
}

var _ = storage.Module(New())
