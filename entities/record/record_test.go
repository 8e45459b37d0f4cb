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

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	ID      int64  `json:"id"`
	Payload string `msgpack:"body"`
	Source  string
	hidden  string
}

type getter map[string]int

func (g getter) Get(field string) (interface{}, bool) {
	v, ok := g[field]
	return v, ok
}

func TestGet(t *testing.T) {
	ev := event{ID: 7, Payload: "p", Source: "web", hidden: "h"}

	type test struct {
		name     string
		rec      interface{}
		field    string
		expected interface{}
		err      bool
	}

	tests := []test{
		{name: "json tag", rec: ev, field: "id", expected: int64(7)},
		{name: "msgpack tag", rec: ev, field: "body", expected: "p"},
		{name: "case-insensitive name", rec: &ev, field: "source", expected: "web"},
		{name: "unexported field", rec: ev, field: "hidden", err: true},
		{name: "generic map", rec: Generic{"a": 1}, field: "a", expected: 1},
		{name: "generic map missing", rec: Generic{"a": 1}, field: "b", err: true},
		{name: "getter", rec: getter{"n": 3}, field: "n", expected: 3},
		{name: "nil", rec: nil, field: "a", err: true},
		{name: "unsupported", rec: 5, field: "a", err: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := Get(test.rec, test.field)
			if test.err {
				assert.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, test.expected, v)
		})
	}
}
