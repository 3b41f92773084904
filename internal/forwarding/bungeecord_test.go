package forwarding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const bungeeTestUUID = "069a79f444e94726a5befca90e38aaf5"

func TestBungeeCordParseHostnamePlainFallsBack(t *testing.T) {
	b := &BungeeCord{}
	_, ok, err := b.ParseHostname("play.example.com", "Steve")
	require.NoError(t, err)
	require.False(t, ok, "plain hostname has no forwarded identity")
}

func TestBungeeCordParseHostnameWithIPFallsBack(t *testing.T) {
	b := &BungeeCord{}
	_, ok, err := b.ParseHostname("play.example.com\x00203.0.113.5", "Steve")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBungeeCordParseHostnameForwarded(t *testing.T) {
	b := &BungeeCord{}
	hostname := "play.example.com\x00203.0.113.5\x00" + bungeeTestUUID
	profile, ok, err := b.ParseHostname(hostname, "Steve")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Steve", profile.Username)
	require.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", profile.UUID.String())
}

func TestBungeeCordParseHostnameWithProperties(t *testing.T) {
	b := &BungeeCord{}
	hostname := "play.example.com\x00203.0.113.5\x00" + bungeeTestUUID + "\x00" + `[{"name":"textures","value":"abc"}]`
	profile, ok, err := b.ParseHostname(hostname, "Steve")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, profile.Properties, 1)
	require.Equal(t, "textures", profile.Properties[0].Name)
}

func TestBungeeCordParseHostnameRejectsBadUUID(t *testing.T) {
	b := &BungeeCord{}
	hostname := "play.example.com\x00203.0.113.5\x00not-a-valid-uuid-hex"
	_, ok, err := b.ParseHostname(hostname, "Steve")
	require.NoError(t, err)
	require.False(t, ok, "unparseable uuid segment should be treated as not-forwarded")
}

func TestBungeeCordGuardRejectsMissingToken(t *testing.T) {
	b := &BungeeCord{GuardEnabled: true, Tokens: []string{"secret-token"}}
	hostname := "play.example.com\x00203.0.113.5\x00" + bungeeTestUUID + "\x00" + `[]`
	_, _, err := b.ParseHostname(hostname, "Steve")
	require.Error(t, err)
}

func TestBungeeCordGuardAcceptsValidToken(t *testing.T) {
	b := &BungeeCord{GuardEnabled: true, Tokens: []string{"secret-token"}}
	hostname := "play.example.com\x00203.0.113.5\x00" + bungeeTestUUID + "\x00" +
		`[{"name":"bungeeguard-token","value":"secret-token"}]`
	_, ok, err := b.ParseHostname(hostname, "Steve")
	require.NoError(t, err)
	require.True(t, ok)
}
