package blocks

import (
	"math/bits"

	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// SectionVolume is the number of entries in one 16x16x16 chunk section.
const SectionVolume = 16 * 16 * 16

const (
	blockMinIndirectBits = 4
	blockMaxIndirectBits = 8
	biomeMinIndirectBits = 1
	biomeMaxIndirectBits = 3
)

// EncodeBlockPalette writes a paletted container (spec.md 4.6) for a
// section's 4096 block-state ids, choosing single/indirect/direct encoding
// the way vanilla does: a lone repeated value collapses to one VarInt, a
// handful of distinct values gets its own small palette, and a section with
// more distinct states than fit indirectly falls back to direct-indexed ids
// sized to maxID.
func EncodeBlockPalette(buf *wire.PacketBuffer, ids []int32, maxID int32) error {
	return encodePalette(buf, ids, blockMinIndirectBits, blockMaxIndirectBits, maxID)
}

// EncodeBiomePalette is the same encoding applied to a section's 4x4x4 (64
// entry) biome ids.
func EncodeBiomePalette(buf *wire.PacketBuffer, ids []int32, maxID int32) error {
	return encodePalette(buf, ids, biomeMinIndirectBits, biomeMaxIndirectBits, maxID)
}

// DecodeBlockPalette reads back a container written by EncodeBlockPalette,
// expanding it to count entries.
func DecodeBlockPalette(buf *wire.PacketBuffer, count int) ([]int32, error) {
	return decodePalette(buf, count, blockMaxIndirectBits)
}

// DecodeBiomePalette reads back a container written by EncodeBiomePalette.
func DecodeBiomePalette(buf *wire.PacketBuffer, count int) ([]int32, error) {
	return decodePalette(buf, count, biomeMaxIndirectBits)
}

func encodePalette(buf *wire.PacketBuffer, ids []int32, minIndirectBits, maxIndirectBits int, maxID int32) error {
	palette, indices := buildPalette(ids)
	directBits := bitsNeeded(int(maxID) + 1)

	var bitsPerEntry int
	direct := false
	switch {
	case len(palette) <= 1:
		bitsPerEntry = 0
	default:
		b := bitsNeeded(len(palette))
		if b < minIndirectBits {
			b = minIndirectBits
		}
		if b <= maxIndirectBits {
			bitsPerEntry = b
		} else {
			bitsPerEntry = directBits
			direct = true
		}
	}

	if err := buf.WriteUint8(wire.Uint8(bitsPerEntry)); err != nil {
		return err
	}

	switch {
	case bitsPerEntry == 0:
		var v int32
		if len(palette) == 1 {
			v = palette[0]
		}
		if err := buf.WriteVarInt(wire.VarInt(v)); err != nil {
			return err
		}
		return buf.WriteVarInt(0)
	case !direct:
		if err := buf.WriteVarInt(wire.VarInt(len(palette))); err != nil {
			return err
		}
		for _, v := range palette {
			if err := buf.WriteVarInt(wire.VarInt(v)); err != nil {
				return err
			}
		}
		return writePackedLongs(buf, indices, bitsPerEntry)
	default:
		return writePackedLongs(buf, ids, bitsPerEntry)
	}
}

func decodePalette(buf *wire.PacketBuffer, count, maxIndirectBits int) ([]int32, error) {
	bpe, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	bitsPerEntry := int(bpe)

	if bitsPerEntry == 0 {
		v, err := buf.ReadVarInt()
		if err != nil {
			return nil, err
		}
		if _, err := buf.ReadVarInt(); err != nil { // empty data array length
			return nil, err
		}
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(v)
		}
		return out, nil
	}

	if bitsPerEntry > maxIndirectBits {
		return readPackedLongs(buf, count, bitsPerEntry)
	}

	paletteLen, err := buf.ReadVarInt()
	if err != nil {
		return nil, err
	}
	palette := make([]int32, paletteLen)
	for i := range palette {
		v, err := buf.ReadVarInt()
		if err != nil {
			return nil, err
		}
		palette[i] = int32(v)
	}

	indices, err := readPackedLongs(buf, count, bitsPerEntry)
	if err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i, idx := range indices {
		if int(idx) < len(palette) {
			out[i] = palette[idx]
		}
	}
	return out, nil
}

func bitsNeeded(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

func buildPalette(ids []int32) (palette []int32, indices []int32) {
	seen := make(map[int32]int32)
	indices = make([]int32, len(ids))
	for i, id := range ids {
		idx, ok := seen[id]
		if !ok {
			idx = int32(len(palette))
			seen[id] = idx
			palette = append(palette, id)
		}
		indices[i] = idx
	}
	return palette, indices
}

// writePackedLongs packs values at bitsPerEntry bits each into 64-bit
// words, never letting a single entry straddle two longs (the >=1.16
// layout), matching the padding scheme vanilla and every modern proxy use.
func writePackedLongs(buf *wire.PacketBuffer, values []int32, bitsPerEntry int) error {
	if bitsPerEntry == 0 {
		return buf.WriteVarInt(0)
	}
	perLong := 64 / bitsPerEntry
	longCount := (len(values) + perLong - 1) / perLong
	if err := buf.WriteVarInt(wire.VarInt(longCount)); err != nil {
		return err
	}
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	for i := 0; i < longCount; i++ {
		var word uint64
		for j := 0; j < perLong; j++ {
			idx := i*perLong + j
			if idx >= len(values) {
				break
			}
			word |= (uint64(values[idx]) & mask) << uint(j*bitsPerEntry)
		}
		if err := buf.WriteInt64(wire.Int64(int64(word))); err != nil {
			return err
		}
	}
	return nil
}

func readPackedLongs(buf *wire.PacketBuffer, count, bitsPerEntry int) ([]int32, error) {
	longCount, err := buf.ReadVarInt()
	if err != nil {
		return nil, err
	}
	longs := make([]uint64, longCount)
	for i := range longs {
		v, err := buf.ReadInt64()
		if err != nil {
			return nil, err
		}
		longs[i] = uint64(v)
	}
	perLong := 64 / bitsPerEntry
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		longIdx := i / perLong
		shift := uint(i%perLong) * uint(bitsPerEntry)
		if longIdx >= len(longs) {
			break
		}
		out[i] = int32((longs[longIdx] >> shift) & mask)
	}
	return out, nil
}
