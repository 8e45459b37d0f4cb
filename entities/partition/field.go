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
	"fmt"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

// Kind is the partitioning function of a Field.
type Kind int

const (
	KindIdentity Kind = iota
	KindHash
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindHash:
		return "hash"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "identity":
		return KindIdentity, nil
	case "hash":
		return KindHash, nil
	default:
		return 0, errors.Errorf("unknown partition type %q", s)
	}
}

// ValueType is the type of the values an identity field produces.
type ValueType int

const (
	ValueString ValueType = iota
	ValueInt
)

func (t ValueType) String() string {
	if t == ValueInt {
		return "int"
	}
	return "string"
}

// Field maps one source field of a record to one directory level. Which of
// the parameters are meaningful depends on Kind: Buckets is only used by hash
// fields, ValueType only by identity fields.
type Field struct {
	SourceName string
	Name       string
	Kind       Kind
	Buckets    int
	ValueType  ValueType
}

// Identity returns a field that partitions by the string value of source.
// An empty name defaults to source.
func Identity(source, name string) Field {
	return Field{SourceName: source, Name: defaultName(source, name), Kind: KindIdentity}
}

// IdentityInt is Identity for integer-valued source fields.
func IdentityInt(source, name string) Field {
	f := Identity(source, name)
	f.ValueType = ValueInt
	return f
}

// Hash returns a field that partitions by hash(value) mod buckets.
func Hash(source, name string, buckets int) Field {
	return Field{
		SourceName: source,
		Name:       defaultName(source, name),
		Kind:       KindHash,
		Buckets:    buckets,
	}
}

func defaultName(source, name string) string {
	if name == "" {
		return source
	}
	return name
}

func (f Field) validate() error {
	if f.Name == "" {
		return errors.New("partition name must not be empty")
	}
	switch f.Kind {
	case KindIdentity:
		if f.ValueType != ValueString && f.ValueType != ValueInt {
			return errors.Errorf("partition %q: unknown value type %d", f.Name, f.ValueType)
		}
	case KindHash:
		if f.Buckets <= 0 {
			return errors.Errorf("partition %q: number of buckets must be positive, got %d",
				f.Name, f.Buckets)
		}
	default:
		return errors.Errorf("partition %q: unknown kind %v", f.Name, f.Kind)
	}
	return nil
}

// Apply computes the partition value of a source field value.
func (f Field) Apply(value interface{}) (interface{}, error) {
	switch f.Kind {
	case KindHash:
		b, err := canonicalBytes(value)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %q", f.Name)
		}
		h := murmur3.New64()
		h.Write(b)
		return int(h.Sum64() % uint64(f.Buckets)), nil
	case KindIdentity:
		if f.ValueType == ValueInt {
			i, ok := asInt64(value)
			if !ok {
				return nil, errors.Errorf("partition %q: expected integer value, got %T", f.Name, value)
			}
			return i, nil
		}
		v := reflect.ValueOf(value)
		if v.Kind() != reflect.String {
			return nil, errors.Errorf("partition %q: expected string value, got %T", f.Name, value)
		}
		return v.String(), nil
	default:
		return nil, errors.Errorf("partition %q: unknown kind %v", f.Name, f.Kind)
	}
}

// Format renders a partition value as it appears in a directory name.
func (f Field) Format(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		if f.Kind == KindHash || f.ValueType == ValueInt {
			return "", errors.Errorf("partition %q: expected integer value, got string %q", f.Name, s)
		}
		return s, nil
	}
	i, ok := asInt64(value)
	if !ok {
		return "", errors.Errorf("partition %q: cannot format value of type %T", f.Name, value)
	}
	switch {
	case f.Kind == KindHash:
		if i < 0 || i >= int64(f.Buckets) {
			return "", errors.Errorf("partition %q: bucket %d out of range [0, %d)", f.Name, i, f.Buckets)
		}
	case f.ValueType == ValueString:
		return "", errors.Errorf("partition %q: expected string value, got %T", f.Name, value)
	}
	return strconv.FormatInt(i, 10), nil
}

// Parse is the inverse of Format.
func (f Field) Parse(s string) (interface{}, error) {
	switch {
	case f.Kind == KindHash:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %q: parse bucket", f.Name)
		}
		if n < 0 || n >= f.Buckets {
			return nil, errors.Errorf("partition %q: bucket %d out of range [0, %d)", f.Name, n, f.Buckets)
		}
		return n, nil
	case f.ValueType == ValueInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %q: parse value", f.Name)
		}
		return n, nil
	default:
		return s, nil
	}
}

type fieldJSON struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Name      string `json:"name,omitempty"`
	Buckets   int    `json:"buckets,omitempty"`
	ValueType string `json:"valueType,omitempty"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	out := fieldJSON{Type: f.Kind.String(), Source: f.SourceName, Name: f.Name}
	switch f.Kind {
	case KindHash:
		out.Buckets = f.Buckets
	case KindIdentity:
		out.ValueType = f.ValueType.String()
	}
	return json.Marshal(out)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var in fieldJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := parseKind(in.Type)
	if err != nil {
		return err
	}

	*f = Field{
		SourceName: in.Source,
		Name:       defaultName(in.Source, in.Name),
		Kind:       kind,
		Buckets:    in.Buckets,
	}
	switch in.ValueType {
	case "", "string":
	case "int":
		f.ValueType = ValueInt
	default:
		return errors.Errorf("unknown value type %q", in.ValueType)
	}
	return nil
}

func canonicalBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, errors.New("cannot hash nil value")
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case bool:
		return []byte(strconv.FormatBool(v)), nil
	}
	if i, ok := asInt64(value); ok {
		return []byte(strconv.FormatInt(i, 10)), nil
	}
	if s, ok := value.(fmt.Stringer); ok {
		return []byte(s.String()), nil
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.String:
		return []byte(v.String()), nil
	case reflect.Float32, reflect.Float64:
		return []byte(fmt.Sprint(value)), nil
	}
	return nil, errors.Errorf("cannot hash value of type %T", value)
}

func asInt64(value interface{}) (int64, bool) {
	if n, ok := value.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(1<<63-1) {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}
