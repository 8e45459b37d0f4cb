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

package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorGroupWrapper(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("first error cancels the group context", func(t *testing.T) {
		eg, ctx := NewErrorGroupWrapper(context.Background(), logger)
		eg.Go(func() error {
			return errors.New("worker failed")
		})
		eg.Go(func() error {
			<-ctx.Done()
			return ctx.Err()
		})

		err := eg.Wait()
		require.NotNil(t, err)
		assert.Equal(t, "worker failed", err.Error())
	})

	t.Run("panics become errors", func(t *testing.T) {
		eg, _ := NewErrorGroupWrapper(context.Background(), logger, "job-1")
		eg.Go(func() error {
			panic("boom")
		}, "split-0")

		err := eg.Wait()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "panic occurred: boom")
	})

	t.Run("limit bounds concurrency", func(t *testing.T) {
		eg, _ := NewErrorGroupWrapper(context.Background(), logger)
		eg.SetLimit(1)

		running := make(chan struct{}, 1)
		for i := 0; i < 5; i++ {
			eg.Go(func() error {
				select {
				case running <- struct{}{}:
				default:
					return errors.New("two workers ran at once")
				}
				<-running
				return nil
			})
		}
		assert.Nil(t, eg.Wait())
	})
}

func TestGoWithResult(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("delivers the returned error", func(t *testing.T) {
		err := <-GoWithResult(func() error {
			return errors.New("upload failed")
		}, logger)
		assert.EqualError(t, err, "upload failed")
	})

	t.Run("delivers nil on success", func(t *testing.T) {
		assert.Nil(t, <-GoWithResult(func() error { return nil }, logger))
	})

	t.Run("recovers panics", func(t *testing.T) {
		err := <-GoWithResult(func() error {
			panic("boom")
		}, logger)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "panic occurred: boom")
	})
}
