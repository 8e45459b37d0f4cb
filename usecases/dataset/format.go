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
	"encoding/json"
	"io"
	"reflect"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/weaviate/dataset-tools/entities/dataset"
)

const zstdExtension = "zst"

// dataExtension is the file extension of data files of desc.
func dataExtension(desc dataset.Descriptor) string {
	ext := desc.Format.Extension()
	if desc.Compression == dataset.CompressionZstd {
		ext += "." + zstdExtension
	}
	return ext
}

type recordEncoder interface {
	Encode(rec interface{}) error
	// Close flushes buffered output and closes the underlying file.
	Close() error
}

type recordDecoder interface {
	// Decode returns the next record or io.EOF.
	Decode() (interface{}, error)
	Close() error
}

func newEncoder(w io.WriteCloser, desc dataset.Descriptor) (recordEncoder, error) {
	enc := &encoder{file: w, out: w}
	if desc.Compression == dataset.CompressionZstd {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, "zstd writer")
		}
		enc.compressor = zw
		enc.out = zw
	}

	switch desc.Format {
	case dataset.FormatJSON:
		enc.encode = json.NewEncoder(enc.out).Encode
	default:
		enc.encode = msgpack.NewEncoder(enc.out).Encode
	}
	return enc, nil
}

type encoder struct {
	file       io.WriteCloser
	compressor *zstd.Encoder
	out        io.Writer
	encode     func(v interface{}) error
}

func (e *encoder) Encode(rec interface{}) error {
	return e.encode(rec)
}

func (e *encoder) Close() error {
	if e.compressor != nil {
		if err := e.compressor.Close(); err != nil {
			e.file.Close()
			return errors.Wrap(err, "flush zstd")
		}
	}
	return e.file.Close()
}

func newDecoder(r io.ReadCloser, desc dataset.Descriptor) (recordDecoder, error) {
	dec := &decoder{file: r, recordType: desc.RecordType, in: r}
	if desc.Compression == dataset.CompressionZstd {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "zstd reader")
		}
		dec.decompressor = zr
		dec.in = zr
	}

	switch desc.Format {
	case dataset.FormatJSON:
		jd := json.NewDecoder(dec.in)
		jd.UseNumber()
		dec.decode = jd.Decode
	default:
		md := msgpack.NewDecoder(dec.in)
		// generic records get int64 and float64 like the encoder wrote them
		md.UseLooseInterfaceDecoding(true)
		dec.decode = md.Decode
	}
	return dec, nil
}

type decoder struct {
	file         io.ReadCloser
	decompressor *zstd.Decoder
	in           io.Reader
	recordType   reflect.Type
	decode       func(v interface{}) error
}

func (d *decoder) Decode() (interface{}, error) {
	v := reflect.New(d.recordType)
	if err := d.decode(v.Interface()); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return v.Elem().Interface(), nil
}

func (d *decoder) Close() error {
	if d.decompressor != nil {
		d.decompressor.Close()
	}
	return d.file.Close()
}
