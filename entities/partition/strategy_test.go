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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Username string `json:"username"`
	Email    string
	Year     int
}

func TestStrategy_New(t *testing.T) {
	t.Run("needs at least one field", func(t *testing.T) {
		_, err := NewStrategy()
		assert.NotNil(t, err)
	})

	t.Run("names must be unique", func(t *testing.T) {
		_, err := NewStrategy(Hash("a", "x", 2), Identity("b", "x"))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "duplicate partition name")
	})

	t.Run("hash needs buckets", func(t *testing.T) {
		_, err := NewStrategy(Hash("a", "", 0))
		assert.NotNil(t, err)
	})

	t.Run("name defaults to source", func(t *testing.T) {
		s, err := NewBuilder().Hash("email", "", 3).Build()
		require.Nil(t, err)
		assert.Equal(t, "email", s.Field(0).Name)
	})

	t.Run("fields are copied", func(t *testing.T) {
		fields := []Field{Identity("a", "")}
		s, err := NewStrategy(fields...)
		require.Nil(t, err)

		fields[0].Name = "changed"
		s.Fields()[0].Name = "changed"
		assert.Equal(t, "a", s.Field(0).Name)
	})
}

func TestStrategy_Equal(t *testing.T) {
	a, _ := NewBuilder().Hash("username", "username_part", 2).Hash("email", "", 3).Build()
	b, _ := NewBuilder().Hash("username", "username_part", 2).Hash("email", "", 3).Build()
	c, _ := NewBuilder().Hash("username", "username_part", 2).Hash("email", "", 4).Build()

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestStrategy_KeyFor(t *testing.T) {
	s, err := NewBuilder().
		Hash("username", "username_part", 2).
		IdentityInt("year", "").
		Build()
	require.Nil(t, err)

	t.Run("struct record", func(t *testing.T) {
		key, err := s.KeyFor(user{Username: "alice", Year: 2024})
		require.Nil(t, err)
		require.Equal(t, 2, key.Len())

		bucket, _ := s.Field(0).Apply("alice")
		assert.True(t, key.Equal(NewKey(bucket, 2024)))
	})

	t.Run("generic record", func(t *testing.T) {
		fromStruct, _ := s.KeyFor(&user{Username: "bob", Year: 1999})
		fromMap, err := s.KeyFor(map[string]interface{}{"username": "bob", "year": int64(1999)})
		require.Nil(t, err)
		assert.True(t, fromStruct.Equal(fromMap))
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := s.KeyFor(map[string]interface{}{"username": "bob"})
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "year")
	})
}

func TestStrategy_JSON(t *testing.T) {
	s, err := NewBuilder().Hash("username", "username_part", 2).Identity("country", "").Build()
	require.Nil(t, err)

	b, err := json.Marshal(s)
	require.Nil(t, err)

	var parsed Strategy
	require.Nil(t, json.Unmarshal(b, &parsed))
	assert.True(t, s.Equal(&parsed))

	t.Run("invalid strategy is rejected", func(t *testing.T) {
		var bad Strategy
		err := json.Unmarshal([]byte(`[]`), &bad)
		assert.NotNil(t, err)
	})
}

func TestKey(t *testing.T) {
	k := NewKey(1, "NL")

	assert.True(t, k.Equal(NewKey(int64(1), "NL")))
	assert.False(t, k.Equal(NewKey(1)))
	assert.False(t, k.Equal(NewKey(2, "NL")))

	assert.True(t, k.HasPrefix(NewKey(1)))
	assert.True(t, k.HasPrefix(NewKey()))
	assert.False(t, k.HasPrefix(NewKey(1, "NL", 3)))
	assert.False(t, k.HasPrefix(NewKey(0)))

	assert.Equal(t, "[1, NL]", k.String())

	values := k.Values()
	values[0] = 99
	assert.Equal(t, 1, k.Get(0))
}
