package wire

import "io"

// Position represents a block position in the world.
//
// Encoded as a 64-bit integer. From 1.14 onward (protocol >= 477) the bit
// layout is:
//   - X: 26 bits (signed, bits 38-63)
//   - Z: 26 bits (signed, bits 12-37)
//   - Y: 12 bits (signed, bits 0-11)
//
// Before 1.14 the same three fields are packed in a different order:
//   - X: 26 bits (signed, bits 38-63)
//   - Y: 12 bits (signed, bits 26-37)
//   - Z: 26 bits (signed, bits 0-25)
//
// This allows coordinates:
//   - X, Z: -33554432 to 33554431
//   - Y: -2048 to 2047
type Position struct {
	X, Y, Z int
}

// NewPosition creates a new Position.
func NewPosition(x, y, z int) Position {
	return Position{X: x, Y: y, Z: z}
}

// Encode writes the Position to w as a packed 64-bit integer using the
// modern (1.14+) bit layout.
func (p Position) Encode(w io.Writer) error {
	return Int64(p.Pack()).Encode(w)
}

// DecodePosition reads a Position from r using the modern (1.14+) bit
// layout.
func DecodePosition(r io.Reader) (Position, error) {
	val, err := DecodeInt64(r)
	if err != nil {
		return Position{}, err
	}
	return UnpackPosition(int64(val)), nil
}

// Pack encodes the position into a 64-bit integer using the modern (1.14+)
// bit layout.
func (p Position) Pack() int64 {
	return ((int64(p.X) & 0x3FFFFFF) << 38) |
		((int64(p.Z) & 0x3FFFFFF) << 12) |
		(int64(p.Y) & 0xFFF)
}

// UnpackPosition decodes a 64-bit integer into a Position using the modern
// (1.14+) bit layout.
func UnpackPosition(val int64) Position {
	x := int(val >> 38)
	z := int(val << 26 >> 38)
	y := int(val << 52 >> 52)
	return Position{X: signExtend(x, 26), Y: signExtend(y, 12), Z: signExtend(z, 26)}
}

// PackLegacy encodes the position into a 64-bit integer using the pre-1.14
// (x:26, y:12, z:26) bit layout.
func (p Position) PackLegacy() int64 {
	return ((int64(p.X) & 0x3FFFFFF) << 38) |
		((int64(p.Y) & 0xFFF) << 26) |
		(int64(p.Z) & 0x3FFFFFF)
}

// UnpackPositionLegacy decodes a 64-bit integer into a Position using the
// pre-1.14 (x:26, y:12, z:26) bit layout.
func UnpackPositionLegacy(val int64) Position {
	x := int(val >> 38)
	y := int(val << 26 >> 52)
	z := int(val << 38 >> 38)
	return Position{X: signExtend(x, 26), Y: signExtend(y, 12), Z: signExtend(z, 26)}
}

// PackVersioned encodes the position using the legacy layout when modern is
// false and the 1.14+ layout when modern is true.
func (p Position) PackVersioned(modern bool) int64 {
	if modern {
		return p.Pack()
	}
	return p.PackLegacy()
}

// UnpackPositionVersioned decodes val using the legacy layout when modern is
// false and the 1.14+ layout when modern is true.
func UnpackPositionVersioned(val int64, modern bool) Position {
	if modern {
		return UnpackPosition(val)
	}
	return UnpackPositionLegacy(val)
}

// signExtend sign-extends the low bits-wide field of v.
func signExtend(v, bits int) int {
	shift := 64 - bits
	return int(int64(v) << shift >> shift)
}

// GlobalPos represents a position in a specific dimension.
// Used for things like death locations.
//
// Wire format:
//
//	┌─────────────────────────┬─────────────────────────┐
//	│  Dimension (Identifier)  │  Position (Int64)       │
//	└─────────────────────────┴─────────────────────────┘
type GlobalPos struct {
	Dimension Identifier
	Pos       Position
}

// Encode writes the GlobalPos to w.
func (g GlobalPos) Encode(w io.Writer) error {
	if err := g.Dimension.Encode(w); err != nil {
		return err
	}
	return g.Pos.Encode(w)
}

// DecodeGlobalPos reads a GlobalPos from r.
func DecodeGlobalPos(r io.Reader) (GlobalPos, error) {
	dim, err := DecodeIdentifier(r)
	if err != nil {
		return GlobalPos{}, err
	}
	pos, err := DecodePosition(r)
	if err != nil {
		return GlobalPos{}, err
	}
	return GlobalPos{Dimension: dim, Pos: pos}, nil
}
