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

package partition

import (
	"fmt"
	"reflect"
	"strings"
)

// Key is an ordered tuple of partition values. A key built from a full
// record has one value per field of its Strategy; keys decoded from
// intermediate directories are shorter and cover a prefix of the fields.
type Key struct {
	values []interface{}
}

func NewKey(values ...interface{}) Key {
	cp := make([]interface{}, len(values))
	copy(cp, values)
	return Key{values: cp}
}

func (k Key) Len() int {
	return len(k.values)
}

func (k Key) Get(i int) interface{} {
	return k.values[i]
}

// Values returns a copy of the key's values.
func (k Key) Values() []interface{} {
	cp := make([]interface{}, len(k.values))
	copy(cp, k.values)
	return cp
}

// Equal reports positional value equality. Integers compare by value
// regardless of their Go type.
func (k Key) Equal(other Key) bool {
	if len(k.values) != len(other.values) {
		return false
	}
	for i := range k.values {
		if !valueEqual(k.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the first prefix.Len() values of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if prefix.Len() > k.Len() {
		return false
	}
	return Key{values: k.values[:prefix.Len()]}.Equal(prefix)
}

func (k Key) String() string {
	parts := make([]string, len(k.values))
	for i, v := range k.values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func valueEqual(a, b interface{}) bool {
	ai, aok := asInt64(a)
	bi, bok := asInt64(b)
	if aok && bok {
		return ai == bi
	}
	return reflect.DeepEqual(a, b)
}
