package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewOfflineProfileMatchesJavaNameUUIDFromBytes(t *testing.T) {
	// Matches Java's UUID.nameUUIDFromBytes("OfflinePlayer:Notch".getBytes(UTF_8)).
	want := uuid.MustParse("b50ad385-829d-3141-a216-7e7d7539ba7f")

	profile := NewOfflineProfile("Notch")

	require.Equal(t, "Notch", profile.Username)
	require.Equal(t, want, profile.UUID)
	require.Equal(t, uuid.Version(3), profile.UUID.Version())
}

func TestNewOfflineProfileIsDeterministic(t *testing.T) {
	a := NewOfflineProfile("Steve")
	b := NewOfflineProfile("Steve")
	require.Equal(t, a.UUID, b.UUID)

	c := NewOfflineProfile("Alex")
	require.NotEqual(t, a.UUID, c.UUID)
}

func TestNewOfflineProfileTruncatesUsername(t *testing.T) {
	long := strings.Repeat("x", 32)
	profile := NewOfflineProfile(long)
	require.Len(t, profile.Username, maxUsernameLen)
	require.Equal(t, long[:maxUsernameLen], profile.Username)
}

func TestProfileToWireRoundTripsUUIDBytes(t *testing.T) {
	profile := NewProfile("Herobrine", uuid.New(), []Property{
		{Name: "textures", Value: "abc123", Signature: "sig", Signed: true},
	})

	wireProfile := profile.ToWire()
	require.Equal(t, profile.UUID[:], wireProfile.UUID[:])
	require.Equal(t, string(wireProfile.Username), profile.Username)
	require.Len(t, wireProfile.Properties, 1)

	tex, ok := profile.TexturesProperty()
	require.True(t, ok)
	require.Equal(t, "abc123", tex.Value)
}

func TestProfileTexturesPropertyMissing(t *testing.T) {
	profile := NewOfflineProfile("NoTextures")
	_, ok := profile.TexturesProperty()
	require.False(t, ok)
}
