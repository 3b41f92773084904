package world

import (
	"github.com/go-mclib/limbo/internal/blocks"
	"github.com/go-mclib/limbo/internal/nbt"
	protocol "github.com/go-mclib/limbo/internal/protocol"
)

// Schematic is a parsed Sponge-format (.schem) structure: a box of
// block-state names addressed in X/Y/Z order, decoded once at startup from
// the NBT internal/assets.Loader.Schematic returns after gzip
// decompression.
type Schematic struct {
	Width, Height, Length int
	// Blocks holds one internal block-state id per cell, indexed as
	// (y*Length+z)*Width+x, matching the Sponge BlockData layout.
	Blocks []int32
}

// ParseSchematic decodes a Sponge schematic's raw (already decompressed)
// NBT bytes into a Schematic, registering any new block-state names it
// introduces with reg.
func ParseSchematic(data []byte, reg *blocks.Registry) (*Schematic, error) {
	tag, _, err := nbt.Decode(data, false)
	if err != nil {
		return nil, protocol.NewCodecError("parse schematic nbt", err)
	}
	root, ok := tag.(nbt.Compound)
	if !ok {
		return nil, protocol.NewCodecError("parse schematic nbt", errNotCompound{})
	}
	// Some exporters wrap the payload in an outer "Schematic" compound;
	// unwrap it if present so field lookups below are uniform.
	if inner, ok := root["Schematic"].(nbt.Compound); ok {
		root = inner
	}

	width, err := requireShort(root, "Width")
	if err != nil {
		return nil, err
	}
	height, err := requireShort(root, "Height")
	if err != nil {
		return nil, err
	}
	length, err := requireShort(root, "Length")
	if err != nil {
		return nil, err
	}

	paletteTag, ok := root["Palette"].(nbt.Compound)
	if !ok {
		return nil, protocol.NewCodecError("parse schematic nbt", errMissingField("Palette"))
	}
	// Sponge's palette maps "minecraft:stone[...]" -> palette index; invert
	// it so BlockData's indices resolve directly to a registry id.
	indexToInternal := make(map[int32]int32, len(paletteTag))
	for name, v := range paletteTag {
		idx, ok := v.(nbt.Int)
		if !ok {
			continue
		}
		internalID := reg.Register(name)
		indexToInternal[int32(idx)] = internalID
	}

	blockData, ok := root["BlockData"].(nbt.ByteArray)
	if !ok {
		return nil, protocol.NewCodecError("parse schematic nbt", errMissingField("BlockData"))
	}
	volume := int(width) * int(height) * int(length)
	indices, err := decodeVarIntArray([]byte(blockData), volume)
	if err != nil {
		return nil, protocol.NewCodecError("parse schematic BlockData", err)
	}

	out := make([]int32, volume)
	for i, idx := range indices {
		internalID, ok := indexToInternal[idx]
		if !ok {
			internalID = blocks.AirID
		}
		out[i] = internalID
	}

	return &Schematic{
		Width:  int(width),
		Height: int(height),
		Length: int(length),
		Blocks: out,
	}, nil
}

// BlockAt returns the internal block-state id at local coordinates.
func (s *Schematic) BlockAt(x, y, z int) int32 {
	if x < 0 || y < 0 || z < 0 || x >= s.Width || y >= s.Height || z >= s.Length {
		return blocks.AirID
	}
	return s.Blocks[(y*s.Length+z)*s.Width+x]
}

// Paste places a Schematic's blocks into the world at an absolute world
// coordinate origin. The config has no origin fields, so NewSharedState
// leaves the origin at (0,0,0).
type Paste struct {
	Schematic *Schematic
	OriginX   int
	OriginY   int
	OriginZ   int
}

// Apply overwrites air in sections (one per 16-block Y slice of a single
// chunk, starting at minY) with any schematic block whose world coordinate
// falls within this chunk's X/Z column.
func (p *Paste) Apply(sections []*blocks.Section, chunkX, chunkZ, minY int32) {
	baseX := int(chunkX) * 16
	baseZ := int(chunkZ) * 16

	for localX := 0; localX < 16; localX++ {
		worldX := baseX + localX
		sx := worldX - p.OriginX
		if sx < 0 || sx >= p.Schematic.Width {
			continue
		}
		for localZ := 0; localZ < 16; localZ++ {
			worldZ := baseZ + localZ
			sz := worldZ - p.OriginZ
			if sz < 0 || sz >= p.Schematic.Length {
				continue
			}
			for sy := 0; sy < p.Schematic.Height; sy++ {
				worldY := p.OriginY + sy
				sectionIdx := int(worldY-minY) / 16
				if sectionIdx < 0 || sectionIdx >= len(sections) {
					continue
				}
				localY := (int(worldY-minY) % 16 + 16) % 16
				id := p.Schematic.BlockAt(sx, sy, sz)
				if id == blocks.AirID {
					continue
				}
				sections[sectionIdx].SetBlock(localX, localY, localZ, id)
			}
		}
	}
}

type errNotCompound struct{}

func (errNotCompound) Error() string { return "root tag is not a compound" }

type errMissingField string

func (e errMissingField) Error() string { return "missing field: " + string(e) }

func requireShort(c nbt.Compound, key string) (nbt.Short, error) {
	v, ok := c[key].(nbt.Short)
	if !ok {
		return 0, protocol.NewCodecError("parse schematic nbt", errMissingField(key))
	}
	return v, nil
}

// decodeVarIntArray decodes count LEB128 VarInts packed back-to-back, the
// encoding Sponge schematics use for BlockData.
func decodeVarIntArray(data []byte, count int) ([]int32, error) {
	out := make([]int32, 0, count)
	pos := 0
	for len(out) < count {
		var result int32
		var shift uint
		for {
			if pos >= len(data) {
				return nil, errTruncatedVarInt{}
			}
			b := data[pos]
			pos++
			result |= int32(b&0x7F) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
			if shift >= 35 {
				return nil, errVarIntTooLong{}
			}
		}
		out = append(out, result)
	}
	return out, nil
}

type errTruncatedVarInt struct{}

func (errTruncatedVarInt) Error() string { return "truncated varint in BlockData" }

type errVarIntTooLong struct{}

func (errVarIntTooLong) Error() string { return "varint too long in BlockData" }
