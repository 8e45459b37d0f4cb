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

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go/network"
)

// Compose starts the object stores the storage modules are tested against
type Compose struct {
	withMinIO   bool
	withGCS     bool
	withAzurite bool
}

func New() *Compose {
	return &Compose{}
}

func (d *Compose) WithMinIO() *Compose {
	d.withMinIO = true
	return d
}

func (d *Compose) WithGCS() *Compose {
	d.withGCS = true
	return d
}

func (d *Compose) WithAzurite() *Compose {
	d.withAzurite = true
	return d
}

func (d *Compose) Start(ctx context.Context) (*DockerCompose, error) {
	net, err := network.New(ctx, network.WithDriver("bridge"))
	if err != nil {
		return nil, errors.Wrap(err, "network")
	}
	compose := &DockerCompose{network: net}

	start := func(name string, fn func(ctx context.Context, networkName string) (*DockerContainer, error)) error {
		container, err := fn(ctx, net.Name)
		if err != nil {
			return errors.Wrapf(err, "start %s", name)
		}
		compose.containers = append(compose.containers, container)
		return nil
	}

	if d.withMinIO {
		if err := start(MinIO, startMinIO); err != nil {
			return compose, err
		}
	}
	if d.withGCS {
		if err := start(GCS, startGCS); err != nil {
			return compose, err
		}
	}
	if d.withAzurite {
		if err := start(Azurite, startAzurite); err != nil {
			return compose, err
		}
	}
	return compose, nil
}
