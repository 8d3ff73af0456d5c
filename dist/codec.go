// SPDX-License-Identifier: MIT
// Package dist: wire framing for collective payloads.
//
// Frames are little-endian and carry no header; the length of a frame is always
// a whole multiple of the record size.
//   - floats:   8 bytes per value (IEEE-754 bits).
//   - triplets: 24 bytes per entry (row uint64, col uint64, value bits).

package dist

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/lvsketch/matrix"
)

const (
	floatSize   = 8
	tripletSize = 24
)

// EncodeFloats frames xs for AllGather/AllToAll.
func EncodeFloats(xs []float64) []byte {
	buf := make([]byte, 0, len(xs)*floatSize)
	for _, x := range xs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	}

	return buf
}

// DecodeFloats is the inverse of EncodeFloats.
//
// Errors:
//   - ErrBadPayload if len(b) is not a multiple of 8.
func DecodeFloats(b []byte) ([]float64, error) {
	if len(b)%floatSize != 0 {
		return nil, fmt.Errorf("DecodeFloats: %d bytes: %w", len(b), ErrBadPayload)
	}
	xs := make([]float64, len(b)/floatSize)
	for k := range xs {
		xs[k] = math.Float64frombits(binary.LittleEndian.Uint64(b[k*floatSize:]))
	}

	return xs, nil
}

// EncodeTriplets frames coordinate entries. Coordinates must be non-negative.
func EncodeTriplets(ts []matrix.Triplet) []byte {
	buf := make([]byte, 0, len(ts)*tripletSize)
	for _, t := range ts {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Row))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Col))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t.Val))
	}

	return buf
}

// DecodeTriplets is the inverse of EncodeTriplets.
//
// Errors:
//   - ErrBadPayload on a truncated frame or a coordinate that overflows int.
func DecodeTriplets(b []byte) ([]matrix.Triplet, error) {
	if len(b)%tripletSize != 0 {
		return nil, fmt.Errorf("DecodeTriplets: %d bytes: %w", len(b), ErrBadPayload)
	}
	ts := make([]matrix.Triplet, len(b)/tripletSize)
	var row, col uint64
	for k := range ts {
		rec := b[k*tripletSize:]
		row = binary.LittleEndian.Uint64(rec)
		col = binary.LittleEndian.Uint64(rec[8:])
		if row > math.MaxInt || col > math.MaxInt {
			return nil, fmt.Errorf("DecodeTriplets: entry %d: %w", k, ErrBadPayload)
		}
		ts[k] = matrix.Triplet{
			Row: int(row),
			Col: int(col),
			Val: math.Float64frombits(binary.LittleEndian.Uint64(rec[16:])),
		}
	}

	return ts, nil
}
