package mat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MAT v5 data element types.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
)

// MAT v5 array classes we load; everything else is skipped.
const (
	mxDOUBLE = 6
	mxSINGLE = 7
	mxINT8   = 8
	mxUINT8  = 9
	mxINT16  = 10
	mxUINT16 = 11
	mxINT32  = 12
	mxUINT32 = 13
)

const headerSize = 128

// matVar is one numeric array from a MAT file. Data is stored
// column-major, exactly as MATLAB lays it out.
type matVar struct {
	Name string
	Dims []int
	Data []float64
}

// matFile holds the numeric variables of a parsed MAT v5 file.
type matFile struct {
	Vars map[string]*matVar
}

// cursor walks a byte buffer with 8-byte element alignment.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) take(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedElement, n, c.remaining())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) align8() {
	if rem := c.off % 8; rem != 0 {
		c.off += 8 - rem
		if c.off > len(c.buf) {
			c.off = len(c.buf)
		}
	}
}

// element reads one data element tag plus payload, handling the small
// element format where type and up-to-4 data bytes share a single tag.
func (c *cursor) element() (dataType int, payload []byte, err error) {
	tag, err := c.take(4)
	if err != nil {
		return 0, nil, err
	}
	word := binary.LittleEndian.Uint32(tag)

	if word>>16 != 0 {
		// Small element: size in the upper half-word, data in the next 4 bytes.
		size := int(word >> 16)
		dataType = int(word & 0xFFFF)
		small, err := c.take(4)
		if err != nil {
			return 0, nil, err
		}
		if size > 4 {
			return 0, nil, fmt.Errorf("%w: small element size %d", ErrTruncatedElement, size)
		}
		return dataType, small[:size], nil
	}

	dataType = int(word)
	sizeBytes, err := c.take(4)
	if err != nil {
		return 0, nil, err
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))

	payload, err = c.take(size)
	if err != nil {
		return 0, nil, err
	}
	c.align8()
	return dataType, payload, nil
}

// parseMat parses a MAT v5 file from an in-memory buffer.
func parseMat(data []byte) (*matFile, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotMatFile, len(data))
	}
	// Version 0x0100 plus the endian indicator close the header.
	endian := string(data[126:128])
	switch endian {
	case "IM":
		// little-endian writer
	case "MI":
		return nil, ErrBigEndianMat
	default:
		return nil, fmt.Errorf("%w: bad endian indicator %q", ErrNotMatFile, endian)
	}

	file := &matFile{Vars: make(map[string]*matVar)}
	c := &cursor{buf: data, off: headerSize}

	if err := parseElements(c, file); err != nil {
		return nil, err
	}
	return file, nil
}

func parseElements(c *cursor, file *matFile) error {
	for c.remaining() >= 8 {
		dataType, payload, err := c.element()
		if err != nil {
			return err
		}

		switch dataType {
		case miCOMPRESSED:
			zr, err := zlib.NewReader(bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("%w: opening compressed element: %w", ErrTruncatedElement, err)
			}
			inflated, err := io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return fmt.Errorf("%w: inflating element: %w", ErrTruncatedElement, err)
			}
			if err := parseElements(&cursor{buf: inflated}, file); err != nil {
				return err
			}
		case miMATRIX:
			v, err := parseMatrix(&cursor{buf: payload})
			if err != nil {
				return err
			}
			if v != nil {
				file.Vars[v.Name] = v
			}
		default:
			// Unknown top-level element; already consumed, skip.
		}
	}
	return nil
}

// parseMatrix parses a miMATRIX element. Non-numeric classes return
// (nil, nil) and are skipped by the caller.
func parseMatrix(c *cursor) (*matVar, error) {
	// Array flags: class in the low byte of the first word.
	dataType, payload, err := c.element()
	if err != nil {
		return nil, err
	}
	if dataType != miUINT32 || len(payload) < 8 {
		return nil, fmt.Errorf("%w: bad array flags element", ErrTruncatedElement)
	}
	class := int(payload[0])

	// Dimensions.
	dataType, payload, err = c.element()
	if err != nil {
		return nil, err
	}
	if dataType != miINT32 {
		return nil, fmt.Errorf("%w: bad dimensions element", ErrTruncatedElement)
	}
	dims := make([]int, len(payload)/4)
	for i := range dims {
		dims[i] = int(int32(binary.LittleEndian.Uint32(payload[4*i:])))
	}

	// Array name.
	_, payload, err = c.element()
	if err != nil {
		return nil, err
	}
	name := string(payload)

	if class < mxDOUBLE || class > mxUINT32 {
		// Cell, struct, char, sparse: not needed for measurement archives.
		return nil, nil
	}

	// Real part.
	dataType, payload, err = c.element()
	if err != nil {
		return nil, err
	}
	values, err := convertNumeric(dataType, payload)
	if err != nil {
		return nil, fmt.Errorf("array %q: %w", name, err)
	}

	// An imaginary part may follow; measurement archives are real-valued,
	// so it is ignored.

	total := 1
	for _, d := range dims {
		total *= d
	}
	if total != len(values) {
		return nil, fmt.Errorf("%w: array %q holds %d values for dims %v",
			ErrTruncatedElement, name, len(values), dims)
	}

	return &matVar{Name: name, Dims: dims, Data: values}, nil
}

func convertNumeric(dataType int, payload []byte) ([]float64, error) {
	switch dataType {
	case miDOUBLE:
		out := make([]float64, len(payload)/8)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return out, nil
	case miSINGLE:
		out := make([]float64, len(payload)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:])))
		}
		return out, nil
	case miINT8:
		out := make([]float64, len(payload))
		for i := range out {
			out[i] = float64(int8(payload[i]))
		}
		return out, nil
	case miUINT8:
		out := make([]float64, len(payload))
		for i := range out {
			out[i] = float64(payload[i])
		}
		return out, nil
	case miINT16:
		out := make([]float64, len(payload)/2)
		for i := range out {
			out[i] = float64(int16(binary.LittleEndian.Uint16(payload[2*i:])))
		}
		return out, nil
	case miUINT16:
		out := make([]float64, len(payload)/2)
		for i := range out {
			out[i] = float64(binary.LittleEndian.Uint16(payload[2*i:]))
		}
		return out, nil
	case miINT32:
		out := make([]float64, len(payload)/4)
		for i := range out {
			out[i] = float64(int32(binary.LittleEndian.Uint32(payload[4*i:])))
		}
		return out, nil
	case miUINT32:
		out := make([]float64, len(payload)/4)
		for i := range out {
			out[i] = float64(binary.LittleEndian.Uint32(payload[4*i:]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: numeric type %d", ErrTruncatedElement, dataType)
}
