package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// File format carries a root tag name; network format (used for every
// protocol packet this server sends) omits it (spec.md: protocol >= 764
// nameless-root switch).
func TestEncodeDecodeNamelessRootToggle(t *testing.T) {
	tag := Compound{"value": String("hi")}

	fileBytes, err := EncodeFile(tag, "root")
	require.NoError(t, err)

	networkBytes, err := EncodeNetwork(tag)
	require.NoError(t, err)

	require.Less(t, len(networkBytes), len(fileBytes), "network format should omit the root name")

	decodedFile, rootName, err := DecodeFile(fileBytes)
	require.NoError(t, err)
	require.Equal(t, "root", rootName)
	require.Equal(t, tag, decodedFile)

	decodedNetwork, err := DecodeNetwork(networkBytes)
	require.NoError(t, err)
	require.Equal(t, tag, decodedNetwork)
}

func TestEncodeWithFeaturesHeterogeneousLists(t *testing.T) {
	list := List{
		ElementType: TagByte,
		Elements:    []Tag{Byte(1), Int(2)},
	}

	_, err := EncodeWithFeatures(list, true, false)
	require.Error(t, err, "homogeneous encoding should reject mixed element types")

	data, err := EncodeWithFeatures(list, true, true)
	require.NoError(t, err)

	decoded, err := DecodeWithFeatures(bytes.NewReader(data), true, true)
	require.NoError(t, err)
	decodedList, ok := decoded.(List)
	require.True(t, ok)
	require.Equal(t, Byte(1), decodedList.Elements[0])
	require.Equal(t, Int(2), decodedList.Elements[1])
}
