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

import "errors"

type ErrNotFound struct {
	err error
}

func (e ErrNotFound) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "not found"
}

func (e ErrNotFound) Unwrap() error {
	return e.err
}

func NewErrNotFound(err error) ErrNotFound {
	return ErrNotFound{err}
}

func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

type ErrInternal struct {
	err error
}

func (e ErrInternal) Error() string {
	return e.err.Error()
}

func (e ErrInternal) Unwrap() error {
	return e.err
}

func NewErrInternal(err error) ErrInternal {
	return ErrInternal{err}
}

type ErrContextExpired struct {
	err error
}

func (e ErrContextExpired) Error() string {
	return e.err.Error()
}

func (e ErrContextExpired) Unwrap() error {
	return e.err
}

func NewErrContextExpired(err error) ErrContextExpired {
	return ErrContextExpired{err}
}
