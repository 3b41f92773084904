package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"

	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

func TestEncodeDecodeBlockPaletteSingleValue(t *testing.T) {
	ids := make([]int32, SectionVolume)
	for i := range ids {
		ids[i] = AirID
	}

	buf := wire.NewWriter()
	require.NoError(t, EncodeBlockPalette(buf, ids, 300))

	reader := wire.NewReader(buf.Bytes())
	out, err := DecodeBlockPalette(reader, SectionVolume)
	require.NoError(t, err)
	require.Equal(t, ids, out)
}

func TestEncodeDecodeBlockPaletteIndirect(t *testing.T) {
	ids := make([]int32, SectionVolume)
	for i := range ids {
		ids[i] = int32(i % 5)
	}

	buf := wire.NewWriter()
	require.NoError(t, EncodeBlockPalette(buf, ids, 300))

	reader := wire.NewReader(buf.Bytes())
	out, err := DecodeBlockPalette(reader, SectionVolume)
	require.NoError(t, err)
	require.Equal(t, ids, out)
}

func TestEncodeDecodeBlockPaletteDirect(t *testing.T) {
	ids := make([]int32, SectionVolume)
	for i := range ids {
		ids[i] = int32(i % 400)
	}

	buf := wire.NewWriter()
	require.NoError(t, EncodeBlockPalette(buf, ids, 500))

	reader := wire.NewReader(buf.Bytes())
	out, err := DecodeBlockPalette(reader, SectionVolume)
	require.NoError(t, err)
	require.Equal(t, ids, out)
}

func TestRegistryAirIsZero(t *testing.T) {
	reg := NewRegistry()
	id, ok := reg.ID("minecraft:air")
	require.True(t, ok)
	require.Equal(t, AirID, id)
}

func TestReportMappingRoundTrip(t *testing.T) {
	reg := NewRegistry()
	mapping := NewReportMapping(reg, []string{"minecraft:air", "minecraft:stone", "minecraft:dirt"})
	stoneInternal, _ := reg.ID("minecraft:stone")
	require.Equal(t, int32(1), mapping.ToReport(stoneInternal))
	require.Equal(t, stoneInternal, mapping.ToInternal(1))
}
