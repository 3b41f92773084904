package packets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mclib/limbo/internal/nbt"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

func sampleRegistryTag() nbt.Tag {
	return nbt.Compound{
		"value": nbt.List{
			Elements: []nbt.Tag{
				nbt.Compound{
					"name": nbt.String("minecraft:plains"),
					"element": nbt.Compound{
						"has_precipitation": nbt.Byte(0),
					},
				},
				nbt.Compound{
					"name": nbt.String("minecraft:the_end"),
				},
			},
		},
	}
}

func TestBuildRegistryEntries(t *testing.T) {
	entries, err := BuildRegistryEntries(sampleRegistryTag())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, wire.Identifier("minecraft:plains"), entries[0].ID)
	require.True(t, entries[0].HasData)

	require.Equal(t, wire.Identifier("minecraft:the_end"), entries[1].ID)
	require.False(t, entries[1].HasData)
}

func TestBuildRegistryEntriesRejectsNonCompoundRoot(t *testing.T) {
	_, err := BuildRegistryEntries(nbt.String("not a compound"))
	require.Error(t, err)
}

func TestBuildRegistryEntriesRejectsMissingValueList(t *testing.T) {
	_, err := BuildRegistryEntries(nbt.Compound{})
	require.Error(t, err)
}

func TestBuildMonolithicCodec(t *testing.T) {
	perRegistry := map[string]nbt.Tag{
		"dimension_type": sampleRegistryTag(),
		"worldgen/biome": sampleRegistryTag(),
	}

	codec := BuildMonolithicCodec(perRegistry)
	require.Contains(t, codec, "minecraft:dimension_type")
	require.Contains(t, codec, "minecraft:worldgen/biome")
	require.Len(t, codec, 2)
}
