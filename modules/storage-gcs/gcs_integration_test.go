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

//go:build integrationTest

package modstggcs

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/dataset-tools/test/docker"
	"github.com/weaviate/dataset-tools/test/helper/backendtest"
)

const bucketName = "datasets"

func TestGCSBackend(t *testing.T) {
	ctx := context.Background()
	compose, err := docker.New().WithGCS().Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := compose.Terminate(context.Background()); err != nil {
			t.Logf("terminate: %v", err)
		}
	})

	for k, v := range compose.GetGCS().EnvSettings() {
		t.Setenv(k, v)
	}
	t.Setenv(gcsPath, "root")

	logger, _ := test.NewNullLogger()
	m := New()
	require.NoError(t, m.Init(ctx, logger))

	t.Run("missing bucket", func(t *testing.T) {
		_, err := m.Backend(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	require.NoError(t, m.client.Bucket(bucketName).Create(ctx, m.projectID, nil))
	b, err := m.Backend(ctx, bucketName)
	require.NoError(t, err)

	backendtest.Run(t, b)
}
