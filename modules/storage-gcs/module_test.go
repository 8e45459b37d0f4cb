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
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectIDFromEnv(t *testing.T) {
	t.Setenv(GOOGLE_CLOUD_PROJECT, "")
	t.Setenv(GCLOUD_PROJECT, "")
	t.Setenv(GCP_PROJECT, "")
	assert.Equal(t, "", projectIDFromEnv())

	t.Setenv(GCP_PROJECT, "third")
	assert.Equal(t, "third", projectIDFromEnv())

	t.Setenv(GCLOUD_PROJECT, "second")
	assert.Equal(t, "second", projectIDFromEnv())

	t.Setenv(GOOGLE_CLOUD_PROJECT, "first")
	assert.Equal(t, "first", projectIDFromEnv())
}

func TestClientOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("emulator endpoint", func(t *testing.T) {
		t.Setenv(gcsEndpoint, "http://localhost:4443/storage/v1/")
		options, err := clientOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, options, 2)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Setenv(gcsEndpoint, "")
		t.Setenv(GOOGLE_APPLICATION_CREDENTIALS, "")
		options, err := clientOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, options, 1)
	})

	t.Run("missing credentials file", func(t *testing.T) {
		t.Setenv(gcsEndpoint, "")
		t.Setenv(GOOGLE_APPLICATION_CREDENTIALS, "/does/not/exist.json")
		_, err := clientOptions(ctx)
		assert.Error(t, err)
	})

	t.Run("init without bucket", func(t *testing.T) {
		t.Setenv(gcsEndpoint, "http://localhost:4443/storage/v1/")
		logger, _ := test.NewNullLogger()
		m := New()
		require.NoError(t, m.Init(ctx, logger))

		_, err := m.Backend(ctx, "")
		assert.Error(t, err)
	})
}
