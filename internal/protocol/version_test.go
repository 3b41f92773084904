package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionRegistrySortedAscending(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Number, all[i].Number, "versions must be strictly ascending")
	}
	require.Equal(t, all[0], Oldest())
	require.Equal(t, all[len(all)-1], Latest())
}

func TestFromNumberExactMatch(t *testing.T) {
	require.Equal(t, "1.20.2", FromNumber(764).Name)
	require.Equal(t, "1.8", FromNumber(47).Name)
}

func TestFromNumberClampsAboveLatest(t *testing.T) {
	require.Equal(t, Latest(), FromNumber(Latest().Number+1000))
}

func TestFromNumberClampsBelowOldest(t *testing.T) {
	require.Equal(t, Oldest(), FromNumber(Oldest().Number-1000))
}

func TestFromNumberFallsBackToPrecedingRelease(t *testing.T) {
	// 751 is 1.16.2, 754 is 1.16.5; an unregistered number between them
	// should resolve to the preceding known entry, not be rejected.
	got := FromNumber(751 + 1)
	require.Equal(t, "1.16.2", got.Name, "wire number strictly between two registered entries should clamp down")
}

func TestBetweenInclusiveOrdersAscendingRegardlessOfArgOrder(t *testing.T) {
	lo := FromNumber(763)
	hi := FromNumber(766)
	forward := BetweenInclusive(lo, hi)
	backward := BetweenInclusive(hi, lo)
	require.Equal(t, forward, backward)
	require.True(t, len(forward) >= 2)
	for i := 1; i < len(forward); i++ {
		require.Less(t, forward[i-1].Number, forward[i].Number)
	}
}

func TestFeatureGatePredicates(t *testing.T) {
	require.False(t, SupportsNamelessNBTRoot(763))
	require.True(t, SupportsNamelessNBTRoot(764))

	require.False(t, SupportsHeterogeneousNBTLists(769))
	require.True(t, SupportsHeterogeneousNBTLists(770))

	require.False(t, UsesModernPositionLayout(476))
	require.True(t, UsesModernPositionLayout(477))

	require.True(t, UsesStringDisconnectReason(764))
	require.False(t, UsesStringDisconnectReason(765))
}

func TestWirePacketRoundTripUncompressed(t *testing.T) {
	pkt := &WirePacket{PacketID: 0x03, Data: []byte("hello limbo")}

	var buf bytes.Buffer
	require.NoError(t, pkt.WriteTo(&buf, -1))

	got, err := ReadWirePacketFrom(&buf, -1)
	require.NoError(t, err)
	require.Equal(t, pkt.PacketID, got.PacketID)
	require.Equal(t, pkt.Data, got.Data)
}

func TestWirePacketRoundTripCompressedAboveThreshold(t *testing.T) {
	// payload well above the threshold so it actually gets zlib-compressed
	// rather than sent as the dataLength==0 passthrough case.
	pkt := &WirePacket{PacketID: 0x24, Data: bytes.Repeat([]byte("registry-data"), 64)}

	var buf bytes.Buffer
	require.NoError(t, pkt.WriteTo(&buf, 8))

	got, err := ReadWirePacketFrom(&buf, 8)
	require.NoError(t, err)
	require.Equal(t, pkt.PacketID, got.PacketID)
	require.Equal(t, pkt.Data, got.Data)
}

func TestWirePacketRoundTripCompressedBelowThreshold(t *testing.T) {
	// payload smaller than the threshold: framing must still use the
	// dataLength==0 passthrough, not actually deflate it.
	pkt := &WirePacket{PacketID: 0x00, Data: []byte("ok")}

	var buf bytes.Buffer
	require.NoError(t, pkt.WriteTo(&buf, 256))

	got, err := ReadWirePacketFrom(&buf, 256)
	require.NoError(t, err)
	require.Equal(t, pkt.PacketID, got.PacketID)
	require.Equal(t, pkt.Data, got.Data)
}
