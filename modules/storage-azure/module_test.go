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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Azurite well-known development credentials
const (
	devAccountName = "devstoreaccount1"
	devAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

func TestNewClient(t *testing.T) {
	t.Run("no configuration", func(t *testing.T) {
		t.Setenv(AZURE_STORAGE_CONNECTION_STRING, "")
		t.Setenv(AZURE_STORAGE_ACCOUNT, "")
		_, err := newClient()
		require.Error(t, err)
		assert.Contains(t, err.Error(), AZURE_STORAGE_CONNECTION_STRING)
	})

	t.Run("connection string", func(t *testing.T) {
		t.Setenv(AZURE_STORAGE_CONNECTION_STRING,
			"DefaultEndpointsProtocol=http;AccountName="+devAccountName+
				";AccountKey="+devAccountKey+
				";BlobEndpoint=http://127.0.0.1:10000/"+devAccountName+";")
		client, err := newClient()
		require.NoError(t, err)
		assert.Contains(t, client.URL(), "127.0.0.1:10000")
	})

	t.Run("shared key", func(t *testing.T) {
		t.Setenv(AZURE_STORAGE_CONNECTION_STRING, "")
		t.Setenv(AZURE_STORAGE_ACCOUNT, devAccountName)
		t.Setenv(AZURE_STORAGE_KEY, devAccountKey)
		client, err := newClient()
		require.NoError(t, err)
		assert.Equal(t, "https://"+devAccountName+".blob.core.windows.net/", client.URL())
	})

	t.Run("invalid shared key", func(t *testing.T) {
		t.Setenv(AZURE_STORAGE_CONNECTION_STRING, "")
		t.Setenv(AZURE_STORAGE_ACCOUNT, devAccountName)
		t.Setenv(AZURE_STORAGE_KEY, "not base64!")
		_, err := newClient()
		assert.Error(t, err)
	})
}

func TestClientOptions(t *testing.T) {
	t.Setenv(azureMaxRetries, "")
	assert.Equal(t, int32(3), clientOptions().Retry.MaxRetries)

	t.Setenv(azureMaxRetries, "7")
	assert.Equal(t, int32(7), clientOptions().Retry.MaxRetries)
}
