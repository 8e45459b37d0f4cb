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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(s3Endpoint, "")
		t.Setenv(s3UseSSL, "")
		t.Setenv(s3Path, "")
		t.Setenv(AWS_REGION, "")
		t.Setenv(AWS_DEFAULT_REGION, "eu-west-1")

		c := configFromEnv()
		assert.Equal(t, DEFAULT_ENDPOINT, c.endpoint)
		assert.True(t, c.useSSL)
		assert.Equal(t, "", c.prefix)
		assert.Equal(t, "eu-west-1", c.region)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(s3Endpoint, "localhost:9000")
		t.Setenv(s3UseSSL, "false")
		t.Setenv(s3Path, "datasets")
		t.Setenv(AWS_REGION, "us-east-1")
		t.Setenv(AWS_DEFAULT_REGION, "eu-west-1")

		c := configFromEnv()
		assert.Equal(t, "localhost:9000", c.endpoint)
		assert.False(t, c.useSSL)
		assert.Equal(t, "datasets", c.prefix)
		assert.Equal(t, "us-east-1", c.region)
	})
}
