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

package dataset

import (
	"sync"

	"github.com/weaviate/dataset-tools/entities/dataset"
)

// writeLocks tracks datasets that are currently written by this process.
// A second writer fails right away instead of waiting.
type writeLocks struct {
	sync.Mutex
	held map[string]struct{}
}

func newWriteLocks() *writeLocks {
	return &writeLocks{held: map[string]struct{}{}}
}

func (l *writeLocks) acquire(loc dataset.Location) (release func(), err error) {
	l.Lock()
	defer l.Unlock()

	key := loc.String()
	if _, ok := l.held[key]; ok {
		return nil, dataset.NewErrWriteConflict(loc)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.Lock()
			defer l.Unlock()
			delete(l.held, key)
		})
	}, nil
}
