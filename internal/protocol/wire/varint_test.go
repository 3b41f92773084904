package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Boundary values from https://minecraft.wiki/w/Java_Edition_protocol/Data_types#VarInt_and_VarLong
func TestVarIntEncodeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		value    VarInt
		expected []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"max single byte", 127, []byte{0x7f}},
		{"min two bytes", 128, []byte{0x80, 0x01}},
		{"max two bytes", 16383, []byte{0xff, 0x7f}},
		{"min three bytes", 16384, []byte{0x80, 0x80, 0x01}},
		{"max three bytes", 2097151, []byte{0xff, 0xff, 0x7f}},
		{"min four bytes", 2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{"max int32", 2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{"negative one", -1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{"min int32", -2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.ToBytes()
			require.NoError(t, err)
			require.Equal(t, tt.expected, []byte(got))
		})
	}
}

func TestVarIntDecodeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected VarInt
	}{
		{"zero", []byte{0x00}, 0},
		{"max single byte", []byte{0x7f}, 127},
		{"min two bytes", []byte{0x80, 0x01}, 128},
		{"max two bytes", []byte{0xff, 0x7f}, 16383},
		{"min three bytes", []byte{0x80, 0x80, 0x01}, 16384},
		{"max int32", []byte{0xff, 0xff, 0xff, 0xff, 0x07}, 2147483647},
		{"negative one", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, -1},
		{"min int32", []byte{0x80, 0x80, 0x80, 0x80, 0x08}, -2147483648},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewReader(tt.input)
			got, err := buf.ReadVarInt()
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []VarInt{
		0, 1, 127, 128, 16383, 16384, 2097151, 2097152,
		2147483647, -1, -2147483648,
	}

	for _, v := range values {
		buf := NewWriter()
		require.NoError(t, buf.WriteVarInt(v))

		reader := NewReader(buf.Bytes())
		got, err := reader.ReadVarInt()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarIntDecodeOverflow(t *testing.T) {
	// 5 continuation bytes plus a terminator exceeds the 5-byte maximum for a 32-bit VarInt.
	input := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	buf := NewReader(input)
	_, err := buf.ReadVarInt()
	require.Error(t, err)
}

func TestVarIntDecodeTruncated(t *testing.T) {
	// continuation bit set on the last available byte, stream ends there.
	buf := NewReader([]byte{0x80})
	_, err := buf.ReadVarInt()
	require.Error(t, err)
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []VarLong{
		0, 1, 127, 128, 9223372036854775807, -1, -9223372036854775808,
	}

	for _, v := range values {
		buf := NewWriter()
		require.NoError(t, buf.WriteVarLong(v))

		reader := NewReader(buf.Bytes())
		got, err := reader.ReadVarLong()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarLongDecodeOverflow(t *testing.T) {
	// 10 continuation bytes plus a terminator exceeds the 10-byte maximum for a 64-bit VarLong.
	input := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	buf := NewReader(input)
	_, err := buf.ReadVarLong()
	require.Error(t, err)
}
