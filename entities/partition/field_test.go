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

func TestField_Apply(t *testing.T) {
	t.Run("hash is stable and within range", func(t *testing.T) {
		f := Hash("email", "", 3)
		first, err := f.Apply("alice@example.com")
		require.Nil(t, err)
		second, err := f.Apply("alice@example.com")
		require.Nil(t, err)

		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first.(int), 0)
		assert.Less(t, first.(int), 3)
	})

	t.Run("hash treats integer types alike", func(t *testing.T) {
		f := Hash("id", "id_part", 16)
		a, err := f.Apply(int64(42))
		require.Nil(t, err)
		b, err := f.Apply(uint8(42))
		require.Nil(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("hash rejects nil", func(t *testing.T) {
		_, err := Hash("id", "", 2).Apply(nil)
		assert.NotNil(t, err)
	})

	t.Run("identity keeps strings verbatim", func(t *testing.T) {
		v, err := Identity("country", "").Apply("NL")
		require.Nil(t, err)
		assert.Equal(t, "NL", v)
	})

	t.Run("identity string rejects numbers", func(t *testing.T) {
		_, err := Identity("country", "").Apply(12)
		assert.NotNil(t, err)
	})

	t.Run("decoded json numbers act as integers", func(t *testing.T) {
		f := Hash("id", "", 16)
		fromJSON, err := f.Apply(json.Number("42"))
		require.Nil(t, err)
		fromInt, err := f.Apply(42)
		require.Nil(t, err)
		assert.Equal(t, fromInt, fromJSON)

		year, err := IdentityInt("year", "").Apply(json.Number("2024"))
		require.Nil(t, err)
		assert.Equal(t, int64(2024), year)
	})

	t.Run("identity int normalizes to int64", func(t *testing.T) {
		v, err := IdentityInt("year", "").Apply(int32(2024))
		require.Nil(t, err)
		assert.Equal(t, int64(2024), v)
	})
}

func TestField_FormatParse(t *testing.T) {
	type test struct {
		name   string
		field  Field
		value  interface{}
		format string
	}

	tests := []test{
		{name: "hash bucket", field: Hash("username", "username_part", 2), value: 1, format: "1"},
		{name: "identity string", field: Identity("country", ""), value: "NL", format: "NL"},
		{name: "identity int", field: IdentityInt("year", ""), value: int64(-7), format: "-7"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := test.field.Format(test.value)
			require.Nil(t, err)
			assert.Equal(t, test.format, s)

			parsed, err := test.field.Parse(s)
			require.Nil(t, err)
			assert.Equal(t, test.value, parsed)
		})
	}

	t.Run("hash bucket out of range", func(t *testing.T) {
		_, err := Hash("email", "", 3).Parse("3")
		assert.NotNil(t, err)
	})

	t.Run("hash bucket not a number", func(t *testing.T) {
		_, err := Hash("email", "", 3).Parse("x")
		assert.NotNil(t, err)
	})

	t.Run("string value for hash field", func(t *testing.T) {
		_, err := Hash("email", "", 3).Format("1")
		assert.NotNil(t, err)
	})

	t.Run("format rejects bucket out of range", func(t *testing.T) {
		for _, bucket := range []int{3, -1} {
			_, err := Hash("email", "", 3).Format(bucket)
			assert.NotNil(t, err, bucket)
		}
	})

	t.Run("integer value for string identity field", func(t *testing.T) {
		_, err := Identity("country", "").Format(7)
		assert.NotNil(t, err)
	})
}

func TestField_JSON(t *testing.T) {
	in := `[{"type":"hash","source":"username","name":"username_part","buckets":2},` +
		`{"type":"identity","source":"year","valueType":"int"},` +
		`{"type":"identity","source":"country"}]`

	var fields []Field
	require.Nil(t, json.Unmarshal([]byte(in), &fields))

	assert.Equal(t, []Field{
		Hash("username", "username_part", 2),
		IdentityInt("year", ""),
		Identity("country", ""),
	}, fields)

	t.Run("unknown type", func(t *testing.T) {
		var f Field
		err := json.Unmarshal([]byte(`{"type":"range","source":"x"}`), &f)
		assert.NotNil(t, err)
	})
}
