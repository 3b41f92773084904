package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mclib/limbo/internal/protocol"
)

func TestLegalTransitionAllowsKnownPaths(t *testing.T) {
	allowed := []struct{ from, to protocol.State }{
		{protocol.StateHandshake, protocol.StateStatus},
		{protocol.StateHandshake, protocol.StateLogin},
		{protocol.StateHandshake, protocol.StateTransfer},
		{protocol.StateLogin, protocol.StateConfiguration},
		{protocol.StateLogin, protocol.StatePlay},
		{protocol.StateTransfer, protocol.StateConfiguration},
		{protocol.StateTransfer, protocol.StatePlay},
		{protocol.StateConfiguration, protocol.StatePlay},
	}
	for _, tt := range allowed {
		require.True(t, legalTransition(tt.from, tt.to), "%s -> %s should be legal", tt.from, tt.to)
	}
}

func TestLegalTransitionRejectsIllegalPaths(t *testing.T) {
	rejected := []struct{ from, to protocol.State }{
		{protocol.StateHandshake, protocol.StateConfiguration},
		{protocol.StateHandshake, protocol.StatePlay},
		{protocol.StateStatus, protocol.StateLogin},
		{protocol.StatePlay, protocol.StateConfiguration},
		{protocol.StateConfiguration, protocol.StateLogin},
		{protocol.StateLogin, protocol.StateStatus},
	}
	for _, tt := range rejected {
		require.False(t, legalTransition(tt.from, tt.to), "%s -> %s should be illegal", tt.from, tt.to)
	}
}

func TestSessionSetStateRejectsIllegalTransition(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sess := NewSession(newTestShared(), server)
	require.Equal(t, protocol.StateHandshake, sess.state)

	err := sess.setState(protocol.StatePlay)
	require.Error(t, err)
	require.Equal(t, protocol.StateHandshake, sess.state, "state must not change on a rejected transition")

	require.NoError(t, sess.setState(protocol.StateLogin))
	require.Equal(t, protocol.StateLogin, sess.state)
}
