package wire

import (
	"fmt"
	"io"

	googleuuid "github.com/google/uuid"
)

// UUID is a 128-bit identifier, encoded on the wire as two big-endian
// 64-bit halves (most significant first). It is a plain [16]byte rather
// than a wrapper around google/uuid.UUID so PacketBuffer can read/write it
// without an intermediate allocation, but the two types share the same
// byte layout — string parsing and formatting below delegate to
// google/uuid (already pulled in by internal/identity) instead of
// hand-rolling hyphen stripping and hex decoding a second time.
type UUID [16]byte

// NilUUID is the zero UUID (all zeros).
var NilUUID = UUID{}

// Encode writes the UUID to w.
func (u UUID) Encode(w io.Writer) error {
	_, err := w.Write(u[:])
	return err
}

// DecodeUUID reads a UUID from r.
func DecodeUUID(r io.Reader) (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return UUID{}, err
	}
	return u, nil
}

// ReadUUID reads a 128-bit UUID (two 64-bit integers).
func (pb *PacketBuffer) ReadUUID() (UUID, error) { return DecodeUUID(pb.reader) }

// WriteUUID writes a 128-bit UUID.
func (pb *PacketBuffer) WriteUUID(v UUID) error { return v.Encode(pb.writer) }

// UUIDFromBytes creates a UUID from a 16-byte slice.
func UUIDFromBytes(b []byte) (UUID, error) {
	if len(b) != 16 {
		return UUID{}, fmt.Errorf("invalid UUID byte length: %d", len(b))
	}
	var u UUID
	copy(u[:], b)
	return u, nil
}

// UUIDFromString parses a UUID from either its hyphenated or bare-hex
// string representation.
func UUIDFromString(s string) (UUID, error) {
	id, err := googleuuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	return UUID(id), nil
}

// String returns the UUID in standard hyphenated format.
func (u UUID) String() string {
	return googleuuid.UUID(u).String()
}

// MostSignificantBits returns the first 64 bits of the UUID.
func (u UUID) MostSignificantBits() int64 {
	return int64(u[0])<<56 | int64(u[1])<<48 | int64(u[2])<<40 | int64(u[3])<<32 |
		int64(u[4])<<24 | int64(u[5])<<16 | int64(u[6])<<8 | int64(u[7])
}

// LeastSignificantBits returns the last 64 bits of the UUID.
func (u UUID) LeastSignificantBits() int64 {
	return int64(u[8])<<56 | int64(u[9])<<48 | int64(u[10])<<40 | int64(u[11])<<32 |
		int64(u[12])<<24 | int64(u[13])<<16 | int64(u[14])<<8 | int64(u[15])
}

// UUIDFromInt64s creates a UUID from most and least significant bits.
func UUIDFromInt64s(msb, lsb int64) UUID {
	var u UUID
	u[0] = byte(msb >> 56)
	u[1] = byte(msb >> 48)
	u[2] = byte(msb >> 40)
	u[3] = byte(msb >> 32)
	u[4] = byte(msb >> 24)
	u[5] = byte(msb >> 16)
	u[6] = byte(msb >> 8)
	u[7] = byte(msb)
	u[8] = byte(lsb >> 56)
	u[9] = byte(lsb >> 48)
	u[10] = byte(lsb >> 40)
	u[11] = byte(lsb >> 32)
	u[12] = byte(lsb >> 24)
	u[13] = byte(lsb >> 16)
	u[14] = byte(lsb >> 8)
	u[15] = byte(lsb)
	return u
}

// IsNil returns true if this is the nil UUID (all zeros).
func (u UUID) IsNil() bool {
	return u == NilUUID
}

// ValidateUUID checks if a string is a syntactically valid UUID, in either
// hyphenated or bare-hex form.
func ValidateUUID(uuid string) bool {
	_, err := googleuuid.Parse(uuid)
	return err == nil
}
