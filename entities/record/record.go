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

// Package record gives uniform read access to the fields of dataset records.
// A record is either a generic map, a type implementing Getter, or a struct
// (optionally a pointer to one) whose fields are matched by their json tag or
// case-insensitively by name.
package record

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Generic is the record type used by datasets that do not declare one.
type Generic = map[string]interface{}

// GenericType is the reflect.Type of Generic.
var GenericType = reflect.TypeOf(Generic{})

// Getter can be implemented by record types to avoid reflection.
type Getter interface {
	Get(field string) (interface{}, bool)
}

// Get returns the value of field in rec.
func Get(rec interface{}, field string) (interface{}, error) {
	if rec == nil {
		return nil, errors.Errorf("read field %q: nil record", field)
	}

	switch r := rec.(type) {
	case Getter:
		v, ok := r.Get(field)
		if !ok {
			return nil, errors.Errorf("read field %q: no such field", field)
		}
		return v, nil
	case map[string]interface{}:
		v, ok := r[field]
		if !ok {
			return nil, errors.Errorf("read field %q: no such field", field)
		}
		return v, nil
	}

	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.Errorf("read field %q: nil record", field)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if fv, ok := structField(v, field); ok {
			return fv.Interface(), nil
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			mv := v.MapIndex(reflect.ValueOf(field).Convert(v.Type().Key()))
			if mv.IsValid() {
				return mv.Interface(), nil
			}
		}
	default:
		return nil, errors.Errorf("read field %q: unsupported record type %T", field, rec)
	}

	return nil, errors.Errorf("read field %q: no such field in %T", field, rec)
}

func structField(v reflect.Value, field string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		if tagName(sf) == field {
			return v.Field(i), true
		}
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		if strings.EqualFold(sf.Name, field) {
			return v.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func tagName(sf reflect.StructField) string {
	for _, key := range []string{"json", "msgpack"} {
		tag := sf.Tag.Get(key)
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	return ""
}
