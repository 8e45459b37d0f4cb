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

	"github.com/pkg/errors"
	"github.com/weaviate/dataset-tools/entities/record"
)

// Strategy is the ordered, immutable list of fields that defines the
// directory layout of a dataset. Field 0 is the outermost directory.
type Strategy struct {
	fields []Field
}

func NewStrategy(fields ...Field) (*Strategy, error) {
	if len(fields) == 0 {
		return nil, errors.New("partition strategy needs at least one field")
	}

	seen := make(map[string]struct{}, len(fields))
	cp := make([]Field, len(fields))
	for i, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[f.Name]; ok {
			return nil, errors.Errorf("duplicate partition name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		cp[i] = f
	}

	return &Strategy{fields: cp}, nil
}

func (s *Strategy) Len() int {
	return len(s.fields)
}

func (s *Strategy) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the strategy's fields.
func (s *Strategy) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

func (s *Strategy) Equal(other *Strategy) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// KeyFor computes the full key of rec.
func (s *Strategy) KeyFor(rec interface{}) (Key, error) {
	values := make([]interface{}, len(s.fields))
	for i, f := range s.fields {
		v, err := record.Get(rec, f.SourceName)
		if err != nil {
			return Key{}, errors.Wrapf(err, "partition %q", f.Name)
		}
		if values[i], err = f.Apply(v); err != nil {
			return Key{}, err
		}
	}
	return Key{values: values}, nil
}

func (s *Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}

func (s *Strategy) UnmarshalJSON(data []byte) error {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Wrap(err, "parse partition strategy")
	}
	parsed, err := NewStrategy(fields...)
	if err != nil {
		return errors.Wrap(err, "parse partition strategy")
	}
	*s = *parsed
	return nil
}

// Builder assembles a Strategy field by field.
type Builder struct {
	fields []Field
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Identity(source, name string) *Builder {
	b.fields = append(b.fields, Identity(source, name))
	return b
}

func (b *Builder) IdentityInt(source, name string) *Builder {
	b.fields = append(b.fields, IdentityInt(source, name))
	return b
}

func (b *Builder) Hash(source, name string, buckets int) *Builder {
	b.fields = append(b.fields, Hash(source, name, buckets))
	return b
}

func (b *Builder) Build() (*Strategy, error) {
	return NewStrategy(b.fields...)
}
