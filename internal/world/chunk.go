// Package world emits the chunk data a limbo session sees: an otherwise
// empty dimension, optionally with one schematic pasted at the world
// origin (spec.md 4.9/C9).
package world

import (
	"github.com/go-mclib/limbo/internal/blocks"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// sectionsForVersion returns how many 16-block-tall sections a dimension
// has for a given protocol: 24 from 1.18 onward (world height grew to
// -64..320), 16 before.
func sectionsForVersion(version int32) int {
	if version >= 757 {
		return 24
	}
	return 16
}

// MinYForVersion returns the lowest world Y coordinate for a given
// protocol, matching sectionsForVersion's height change.
func MinYForVersion(version int32) int32 {
	if version >= 757 {
		return -64
	}
	return 0
}

// World generates chunk and lighting data for every chunk within view
// distance of spawn. Every section starts as air; an optional Schematic
// paste overwrites the blocks it intersects. A single World is shared by
// every connected session regardless of protocol version: the per-version
// report-id remap is supplied by the caller at emission time instead of
// being fixed on the struct, since the same registry and paste serve every
// version simultaneously (spec.md 5: "shared read-only by all sessions").
type World struct {
	Registry *blocks.Registry
	BiomeID  int32

	Paste *Paste
}

// NewWorld returns a World over the given registry, seeded only with air;
// callers load the real registry from internal/assets before serving
// traffic.
func NewWorld(reg *blocks.Registry, biomeID int32) *World {
	return &World{Registry: reg, BiomeID: biomeID}
}

// EmitChunk builds the ChunkData and LightData for chunk (chunkX, chunkZ)
// under the given protocol version and its report mapping: an all-air
// skeleton with any Paste blocks that fall inside this chunk applied on
// top, full-bright lighting throughout (a void dimension has no shadows to
// compute), and empty heightmaps (a limbo world has no surface worth
// describing).
func (w *World) EmitChunk(chunkX, chunkZ, version int32, mapping *blocks.ReportMapping) (wire.ChunkData, wire.LightData, error) {
	sectionCount := sectionsForVersion(version)
	minY := MinYForVersion(version)

	sections := make([]*blocks.Section, sectionCount)
	for i := range sections {
		sections[i] = blocks.NewAirSection(w.BiomeID)
	}

	if w.Paste != nil {
		w.Paste.Apply(sections, chunkX, chunkZ, minY)
	}

	data, err := blocks.EncodeSections(sections, mapping)
	if err != nil {
		return wire.ChunkData{}, wire.LightData{}, protocol.NewCodecError("encode chunk sections", err)
	}

	chunk := wire.ChunkData{
		Heightmaps:    map[int32][]int64{},
		Data:          data,
		BlockEntities: nil,
	}

	light := fullBrightLight(sectionCount)
	return chunk, light, nil
}

// fullBrightLight returns a LightData with sky light 15 in every section
// (plus the two boundary pseudo-sections vanilla's bitmask convention
// expects) and no block light, matching a void dimension lit only by sky.
func fullBrightLight(sectionCount int) wire.LightData {
	total := sectionCount + 2
	skyMask := wire.NewBitSet(total)
	blockMask := wire.NewBitSet(total)
	emptyBlockMask := wire.NewBitSet(total)
	emptySky := wire.NewBitSet(total)

	fullArray := make([]byte, 2048)
	for i := range fullArray {
		fullArray[i] = 0xFF
	}

	skyArrays := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		skyMask.Set(i)
		arr := make([]byte, 2048)
		copy(arr, fullArray)
		skyArrays = append(skyArrays, arr)
	}
	for i := 0; i < total; i++ {
		emptyBlockMask.Set(i)
	}

	return wire.LightData{
		SkyLightMask:        *skyMask,
		BlockLightMask:      *blockMask,
		EmptySkyLightMask:   *emptySky,
		EmptyBlockLightMask: *emptyBlockMask,
		SkyLightArrays:      skyArrays,
		BlockLightArrays:    nil,
	}
}
