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
	"fmt"
)

// ErrInvalidPartitionPath is returned when a path cannot be decoded into a
// partition key of a dataset.
type ErrInvalidPartitionPath struct {
	err error
}

func (e ErrInvalidPartitionPath) Error() string {
	return e.err.Error()
}

func (e ErrInvalidPartitionPath) Unwrap() error {
	return e.err
}

func NewErrInvalidPartitionPath(format string, args ...interface{}) ErrInvalidPartitionPath {
	return ErrInvalidPartitionPath{fmt.Errorf(format, args...)}
}

// ErrInvalidArgument signals misuse of an API, detected before any I/O.
type ErrInvalidArgument struct {
	err error
}

func (e ErrInvalidArgument) Error() string {
	return e.err.Error()
}

func (e ErrInvalidArgument) Unwrap() error {
	return e.err
}

func NewErrInvalidArgument(format string, args ...interface{}) ErrInvalidArgument {
	return ErrInvalidArgument{fmt.Errorf(format, args...)}
}

// ErrDataset is a violation of a dataset's contract, such as writing a
// record outside of a view.
type ErrDataset struct {
	err error
}

func (e ErrDataset) Error() string {
	return e.err.Error()
}

func (e ErrDataset) Unwrap() error {
	return e.err
}

func NewErrDataset(err error) ErrDataset {
	return ErrDataset{err}
}

// ErrTypeMismatch is the dataset error raised when a record is not of the
// type a dataset declares.
type ErrTypeMismatch struct {
	ErrDataset
}

// Unwrap exposes the embedded ErrDataset so errors.As matches both types.
func (e ErrTypeMismatch) Unwrap() error {
	return e.ErrDataset
}

func NewErrTypeMismatch(expected, value interface{}) ErrTypeMismatch {
	return ErrTypeMismatch{ErrDataset{
		fmt.Errorf("object does not match expected type %v: %v", expected, value),
	}}
}

// ErrWriteConflict is returned when a dataset location is already being
// written. It is not retried.
type ErrWriteConflict struct {
	err error
}

func (e ErrWriteConflict) Error() string {
	return e.err.Error()
}

func NewErrWriteConflict(location Location) ErrWriteConflict {
	return ErrWriteConflict{fmt.Errorf("dataset %s is already being written", location)}
}
