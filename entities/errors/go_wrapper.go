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
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	entcfg "github.com/weaviate/dataset-tools/entities/config"
)

func recoveryEnabled() bool {
	return !entcfg.Enabled(os.Getenv("DISABLE_RECOVERY_ON_PANIC"))
}

// GoWithResult runs f in a goroutine and delivers its error, or the
// recovered panic as an error, on the returned channel.
func GoWithResult(f func() error, logger logrus.FieldLogger) <-chan error {
	done := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			if recoveryEnabled() {
				if r := recover(); r != nil {
					logger.Errorf("Recovered from panic: %v", r)
					debug.PrintStack()
					err = fmt.Errorf("panic occurred: %v", r)
				}
			}
			done <- err
		}()
		err = f()
	}()
	return done
}
