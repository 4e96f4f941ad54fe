// Package npy writes 2D int32 label masks in the NumPy .npy v1.0 format so
// exported masks load directly with numpy.load.
package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

const magic = "\x93NUMPY"

// Write serializes a height x width int32 array in C order with a v1.0
// header ('<i4', fortran_order False).
func Write(w io.Writer, data []int32, width, height int) error {
	if len(data) != width*height {
		return fmt.Errorf("data length %d does not match %dx%d", len(data), width, height)
	}

	header := fmt.Sprintf("{'descr': '<i4', 'fortran_order': False, 'shape': (%d, %d), }", height, width)
	// Total header length (magic + version + length field + dict + newline)
	// must be a multiple of 64 per the format spec.
	padded := len(magic) + 2 + 2 + len(header) + 1
	if rem := padded % 64; rem != 0 {
		padded += 64 - rem
	}
	dictLen := padded - len(magic) - 2 - 2

	buf := make([]byte, 0, padded)
	buf = append(buf, magic...)
	buf = append(buf, 1, 0) // version 1.0
	buf = binary.LittleEndian.AppendUint16(buf, uint16(dictLen))
	buf = append(buf, header...)
	for len(buf) < padded-1 {
		buf = append(buf, ' ')
	}
	buf = append(buf, '\n')

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write npy header: %w", err)
	}

	payload := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(payload[4*i:], uint32(v))
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write npy data: %w", err)
	}
	return nil
}

var shapeRe = regexp.MustCompile(`'shape':\s*\((\d+),\s*(\d+)\)`)

// Read parses a v1.0 '<i4' .npy file back into a mask. It only supports
// what Write produces.
func Read(r io.Reader) (data []int32, width, height int, err error) {
	head := make([]byte, 10)
	if _, err = io.ReadFull(r, head); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read npy preamble: %w", err)
	}
	if string(head[:6]) != magic {
		return nil, 0, 0, fmt.Errorf("not an npy file")
	}
	dictLen := int(binary.LittleEndian.Uint16(head[8:10]))

	dict := make([]byte, dictLen)
	if _, err = io.ReadFull(r, dict); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read npy header: %w", err)
	}

	m := shapeRe.FindSubmatch(dict)
	if m == nil {
		return nil, 0, 0, fmt.Errorf("npy header missing 2D shape")
	}
	height, _ = strconv.Atoi(string(m[1]))
	width, _ = strconv.Atoi(string(m[2]))

	payload := make([]byte, 4*width*height)
	if _, err = io.ReadFull(r, payload); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read npy data: %w", err)
	}
	data = make([]int32, width*height)
	for i := range data {
		data[i] = int32(binary.LittleEndian.Uint32(payload[4*i:]))
	}
	return data, width, height, nil
}
