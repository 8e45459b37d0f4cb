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
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrorGroupWrapper is an errgroup.Group that turns panics of its goroutines
// into errors, so a failing worker aborts the group instead of the process.
type ErrorGroupWrapper struct {
	*errgroup.Group
	logger    logrus.FieldLogger
	Variables []interface{}
}

// NewErrorGroupWrapper creates a group whose context is canceled as soon as
// one goroutine fails.
func NewErrorGroupWrapper(ctx context.Context, logger logrus.FieldLogger,
	vars ...interface{},
) (*ErrorGroupWrapper, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &ErrorGroupWrapper{
		Group:     g,
		logger:    logger,
		Variables: vars,
	}, gctx
}

// Go overrides the Go method to add panic recovery logic.
func (egw *ErrorGroupWrapper) Go(f func() error, localVars ...interface{}) {
	egw.Group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				egw.logger.WithField("action", "error_group_recover").
					WithField("vars", fmt.Sprintf("%v %v", localVars, egw.Variables)).
					Errorf("Recovered from panic: %v", r)
				debug.PrintStack()
				err = fmt.Errorf("panic occurred: %v", r)
			}
		}()
		return f()
	})
}
