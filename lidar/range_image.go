// Package lidar decodes lidar range images and renders their channels.
//
// A range image is stored as a zlib compressed MatrixFloat protobuf message:
//
//	message MatrixShape { repeated int32 dims = 1; }
//	message MatrixFloat { repeated float data = 1 [packed = true]; MatrixShape shape = 2; }
//
// Its data is laid out row-major according to the shape dims, typically
// [rows, cols, channels] with range, intensity, elongation and no-label-zone channels.
package lidar

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/encoding/protowire"
	"gonum.org/v1/gonum/mat"
)

// Range image channels
const (
	Range = iota
	Intensity
	Elongation
	NoLabelZone
)

const (
	dataField  protowire.Number = 1
	shapeField protowire.Number = 2
	dimsField  protowire.Number = 1
)

// RangeImage is a dense multi-dimensional array of range image values.
type RangeImage struct {
	// Dims are the array dimensions
	Dims []int
	// Data stores the values in row-major order
	Data []float64
}

// NewRangeImage creates new RangeImage and returns it.
// It returns error if dims are not positive or their product does not match the length of data.
func NewRangeImage(dims []int, data []float64) (*RangeImage, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("range image has no dimensions")
	}

	size := 1
	for _, d := range dims {
		if d <= 0 || d > math.MaxInt/size {
			return nil, fmt.Errorf("invalid range image dimensions: %v", dims)
		}
		size *= d
	}

	if size != len(data) {
		return nil, fmt.Errorf("range image data length %d does not match dimensions %v", len(data), dims)
	}

	return &RangeImage{Dims: dims, Data: data}, nil
}

// Decode decompresses and parses a range image.
func Decode(compressed []byte) (*RangeImage, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress range image: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress range image: %w", err)
	}

	return Unmarshal(raw)
}

// Encode serializes and compresses range image ri.
func Encode(ri *RangeImage) ([]byte, error) {
	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(Marshal(ri)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal parses MatrixFloat message b into a range image.
// Unknown fields are skipped.
func Unmarshal(b []byte) (*RangeImage, error) {
	var (
		data []float64
		dims []int
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == dataField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if len(v)%4 != 0 {
				return nil, fmt.Errorf("invalid packed data length: %d", len(v))
			}
			for len(v) > 0 {
				f, m := protowire.ConsumeFixed32(v)
				if m < 0 {
					return nil, protowire.ParseError(m)
				}
				data = append(data, float64(math.Float32frombits(f)))
				v = v[m:]
			}
			b = b[n:]
		case num == dataField && typ == protowire.Fixed32Type:
			f, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = append(data, float64(math.Float32frombits(f)))
			b = b[n:]
		case num == shapeField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			d, err := unmarshalShape(v)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return NewRangeImage(dims, data)
}

func unmarshalShape(b []byte) ([]int, error) {
	var dims []int

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == dimsField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			for len(v) > 0 {
				d, m := protowire.ConsumeVarint(v)
				if m < 0 {
					return nil, protowire.ParseError(m)
				}
				dims = append(dims, int(int32(d)))
				v = v[m:]
			}
			b = b[n:]
		case num == dimsField && typ == protowire.VarintType:
			d, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			dims = append(dims, int(int32(d)))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return dims, nil
}

// Marshal serializes ri into MatrixFloat message using packed encoding.
func Marshal(ri *RangeImage) []byte {
	var data []byte
	for _, v := range ri.Data {
		data = protowire.AppendFixed32(data, math.Float32bits(float32(v)))
	}

	var dims []byte
	for _, d := range ri.Dims {
		dims = protowire.AppendVarint(dims, uint64(int64(int32(d))))
	}

	var shape []byte
	shape = protowire.AppendTag(shape, dimsField, protowire.BytesType)
	shape = protowire.AppendBytes(shape, dims)

	var b []byte
	b = protowire.AppendTag(b, dataField, protowire.BytesType)
	b = protowire.AppendBytes(b, data)
	b = protowire.AppendTag(b, shapeField, protowire.BytesType)
	b = protowire.AppendBytes(b, shape)

	return b
}

// Channel returns channel c of a [rows, cols, channels] range image as a rows x cols matrix.
// It returns error if the range image is not 3-dimensional or c is out of range.
func (ri *RangeImage) Channel(c int) (*mat.Dense, error) {
	if len(ri.Dims) != 3 {
		return nil, fmt.Errorf("expected 3-dimensional range image, got %v", ri.Dims)
	}

	rows, cols, chans := ri.Dims[0], ri.Dims[1], ri.Dims[2]
	if c < 0 || c >= chans {
		return nil, fmt.Errorf("invalid channel %d of %d", c, chans)
	}

	ch := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			ch.Set(i, j, ri.Data[(i*cols+j)*chans+c])
		}
	}

	return ch, nil
}
