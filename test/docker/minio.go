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

package docker

import (
	"context"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MinIO = "test-minio"

	minioUser   = "aws_access_key"
	minioSecret = "aws_secret_key"
)

func startMinIO(ctx context.Context, networkName string) (*DockerContainer, error) {
	port := nat.Port("9000/tcp")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:    "minio/minio:RELEASE.2024-10-13T13-34-11Z",
			Hostname: MinIO,
			Networks: []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {MinIO},
			},
			ExposedPorts: []string{"9000/tcp"},
			AutoRemove:   true,
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioSecret,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.
				ForHTTP("/minio/health/ready").
				WithPort(port).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}
	uri, err := container.PortEndpoint(ctx, port, "")
	if err != nil {
		return nil, err
	}
	envSettings := make(map[string]string)
	envSettings["STORAGE_S3_ENDPOINT"] = uri
	envSettings["STORAGE_S3_USE_SSL"] = "false"
	envSettings["AWS_ACCESS_KEY_ID"] = minioUser
	envSettings["AWS_SECRET_ACCESS_KEY"] = minioSecret
	envSettings["AWS_REGION"] = "us-east-1"
	endpoints := make(map[EndpointName]endpoint)
	endpoints[HTTP] = endpoint{port, uri}
	return &DockerContainer{MinIO, endpoints, container, envSettings}, nil
}
