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
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// SchemeLocal is the scheme of the local, non-distributed filesystem.
const SchemeLocal = "file"

// Location is an absolute path on a storage backend. Two locations belong to
// the same backend iff scheme and authority are equal.
type Location struct {
	Scheme    string
	Authority string
	Path      string
}

// ParseLocation accepts URIs such as file:///data/users, file:/data/users,
// s3://bucket/users or plain absolute paths, which are local.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	if strings.HasPrefix(s, "/") {
		return Location{Scheme: SchemeLocal, Path: path.Clean(s)}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, errors.Wrapf(err, "parse location %q", s)
	}
	if u.Scheme == "" {
		return Location{}, errors.Errorf("location %q has no scheme", s)
	}
	if u.Opaque != "" {
		return Location{}, errors.Errorf("location %q is not hierarchical", s)
	}

	p := u.Path
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		return Location{}, errors.Errorf("location %q is not absolute", s)
	}

	return Location{
		Scheme:    strings.ToLower(u.Scheme),
		Authority: u.Host,
		Path:      path.Clean(p),
	}, nil
}

// MustParseLocation is ParseLocation for constants and tests.
func MustParseLocation(s string) Location {
	l, err := ParseLocation(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Backend identifies the storage backend, e.g. "s3://bucket" or "file://".
func (l Location) Backend() string {
	return l.Scheme + "://" + l.Authority
}

func (l Location) IsLocal() bool {
	return l.Scheme == SchemeLocal
}

func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	return l.Backend() + l.Path
}

// Join appends a relative, slash separated path.
func (l Location) Join(rel ...string) Location {
	out := l
	out.Path = path.Join(append([]string{l.Path}, rel...)...)
	return out
}

// Rel returns the path segments of child below l. It only compares paths,
// callers check the backend separately.
func (l Location) Rel(child Location) ([]string, bool) {
	if child.Path == l.Path {
		return []string{}, true
	}

	prefix := l.Path
	if prefix != "/" {
		prefix += "/"
	}
	if !strings.HasPrefix(child.Path, prefix) {
		return nil, false
	}

	return strings.Split(strings.TrimPrefix(child.Path, prefix), "/"), true
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
