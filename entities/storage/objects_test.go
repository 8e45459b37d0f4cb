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

package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNames(t *testing.T) {
	assert.Equal(t, "users/a=1/part-0", ObjectName("", "/users/a=1/part-0"))
	assert.Equal(t, "root/users/part-0", ObjectName("root", "/users/part-0"))
	assert.Equal(t, "root/users/part-0", ObjectName("/root/", "users/part-0"))
	assert.Equal(t, "root/escape", ObjectName("root", "/../escape"))

	assert.Equal(t, "", DirPrefix("", "/"))
	assert.Equal(t, "root/", DirPrefix("root", "/"))
	assert.Equal(t, "root/users/", DirPrefix("root", "/users"))

	assert.Equal(t, "/users/part-0", PathOf("", "users/part-0"))
	assert.Equal(t, "/users/part-0", PathOf("root", "root/users/part-0"))
}

func TestUploadWriter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	t.Run("streams all bytes", func(t *testing.T) {
		var got []byte
		w := NewUploadWriter(ctx, logger, func(ctx context.Context, r io.Reader) error {
			var err error
			got, err = io.ReadAll(r)
			return err
		})

		_, err := io.WriteString(w, "hello ")
		require.NoError(t, err)
		_, err = io.WriteString(w, "world")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Equal(t, "hello world", string(got))
	})

	t.Run("failed upload surfaces on write and close", func(t *testing.T) {
		w := NewUploadWriter(ctx, logger, func(ctx context.Context, r io.Reader) error {
			return errors.New("bucket gone")
		})

		// the pipe is closed as soon as the upload gives up
		for i := 0; i < 10; i++ {
			if _, err := io.WriteString(w, "data"); err != nil {
				break
			}
		}
		err := w.Close()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket gone")
		assert.ErrorAs(t, err, &ErrInternal{})
	})
}
