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
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const GCS = "test-gcs"

func startGCS(ctx context.Context, networkName string) (*DockerContainer, error) {
	port := nat.Port("9090/tcp")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:    "fsouza/fake-gcs-server:1.50.2",
			Hostname: GCS,
			Networks: []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {GCS},
			},
			ExposedPorts: []string{"9090/tcp"},
			AutoRemove:   true,
			Cmd:          []string{"-scheme", "http", "-port", port.Port(), "-public-host", "localhost"},
			WaitingFor: wait.
				ForHTTP("/storage/v1/b").
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
	envSettings["STORAGE_GCS_ENDPOINT"] = fmt.Sprintf("http://%s/storage/v1/", uri)
	envSettings["STORAGE_EMULATOR_HOST"] = uri
	envSettings["GOOGLE_CLOUD_PROJECT"] = "dataset-tools"
	endpoints := make(map[EndpointName]endpoint)
	endpoints[HTTP] = endpoint{port, uri}
	return &DockerContainer{GCS, endpoints, container, envSettings}, nil
}
