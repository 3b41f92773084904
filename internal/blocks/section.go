package blocks

import (
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// BiomeVolume is the number of entries in a section's 4x4x4 biome grid.
const BiomeVolume = 4 * 4 * 4

// Section is one 16x16x16 slice of a chunk: a flat array of internal
// block-state ids (y-major, matching vanilla's ((y*16)+z)*16+x indexing)
// plus a single biome id applied uniformly, since a generated limbo world
// never needs biome variation within a section.
type Section struct {
	Blocks  [SectionVolume]int32
	BiomeID int32
}

// NewAirSection returns a section filled entirely with air.
func NewAirSection(biomeID int32) *Section {
	s := &Section{BiomeID: biomeID}
	for i := range s.Blocks {
		s.Blocks[i] = AirID
	}
	return s
}

// BlockIndex converts local 0-15 coordinates to a Blocks slice index.
func BlockIndex(x, y, z int) int { return (y*16+z)*16 + x }

// SetBlock sets the block-state id at local coordinates x,y,z (each 0-15).
func (s *Section) SetBlock(x, y, z int, id int32) {
	s.Blocks[BlockIndex(x, y, z)] = id
}

// NonAirCount returns the number of non-air entries, which vanilla clients
// use to decide whether to render/cull the section.
func (s *Section) NonAirCount() int16 {
	var n int16
	for _, id := range s.Blocks {
		if id != AirID {
			n++
		}
	}
	return n
}

// Encode writes this section into the wire format chunk.ChunkData.Data
// expects per section: a signed block count followed by the block and
// biome paletted containers (spec.md 4.6/4.8).
func (s *Section) Encode(buf *wire.PacketBuffer, mapping *ReportMapping) error {
	if err := buf.WriteInt16(wire.Int16(s.NonAirCount())); err != nil {
		return err
	}
	reportIDs := make([]int32, SectionVolume)
	for i, id := range s.Blocks {
		reportIDs[i] = mapping.ToReport(id)
	}
	if err := EncodeBlockPalette(buf, reportIDs, mapping.MaxReportID()); err != nil {
		return err
	}
	biomeIDs := make([]int32, BiomeVolume)
	for i := range biomeIDs {
		biomeIDs[i] = s.BiomeID
	}
	// Biome registry ids are small (a few dozen entries); a conservative
	// direct-size ceiling keeps this from needing its own report table.
	return EncodeBiomePalette(buf, biomeIDs, 63)
}

// Decode reads a section previously written by Encode, translating report
// ids back to internal ids via mapping.
func (s *Section) Decode(buf *wire.PacketBuffer, mapping *ReportMapping) error {
	if _, err := buf.ReadInt16(); err != nil {
		return err
	}
	reportIDs, err := DecodeBlockPalette(buf, SectionVolume)
	if err != nil {
		return err
	}
	for i, id := range reportIDs {
		s.Blocks[i] = mapping.ToInternal(id)
	}
	biomeIDs, err := DecodeBiomePalette(buf, BiomeVolume)
	if err != nil {
		return err
	}
	if len(biomeIDs) > 0 {
		s.BiomeID = biomeIDs[0]
	}
	return nil
}

// EncodeSections serializes an ordered list of sections (bottom to top)
// into the raw byte payload ChunkData.Data carries.
func EncodeSections(sections []*Section, mapping *ReportMapping) ([]byte, error) {
	buf := wire.NewWriter()
	for _, s := range sections {
		if err := s.Encode(buf, mapping); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
