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

const (
	Azurite = "test-azurite"

	// Azurite well-known development credentials
	azureAccountName = "devstoreaccount1"
	azureAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

func startAzurite(ctx context.Context, networkName string) (*DockerContainer, error) {
	port := nat.Port("10000/tcp")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:    "mcr.microsoft.com/azure-storage/azurite",
			Hostname: Azurite,
			Networks: []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {Azurite},
			},
			ExposedPorts: []string{"10000/tcp"},
			AutoRemove:   true,
			Cmd:          []string{"azurite-blob", "--blobHost", "0.0.0.0", "--skipApiVersionCheck"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Azurite Blob service is successfully listening at http://0.0.0.0:10000"),
				wait.ForListeningPort(port),
			).WithDeadline(60 * time.Second),
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
	envSettings["AZURE_STORAGE_CONNECTION_STRING"] = fmt.Sprintf(
		"DefaultEndpointsProtocol=http;AccountName=%s;AccountKey=%s;BlobEndpoint=http://%s/%s;",
		azureAccountName, azureAccountKey, uri, azureAccountName)
	endpoints := make(map[EndpointName]endpoint)
	endpoints[HTTP] = endpoint{port, uri}
	return &DockerContainer{Azurite, endpoints, container, envSettings}, nil
}
