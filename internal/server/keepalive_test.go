package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-mclib/limbo/internal/config"
)

// TestKeepAliveLoopDisconnectsOnTimeout seeds a session as already waiting
// on an overdue keep-alive pong, then checks that the loop's next tick
// times it out and closes the connection (spec.md 4.8).
func TestKeepAliveLoopDisconnectsOnTimeout(t *testing.T) {
	shared := &Shared{
		Config: &config.Config{
			KeepAliveIntervalSecs: 1,
			KeepAliveTimeoutSecs:  1,
		},
		Logger: newTestShared().Logger,
	}

	client, server := net.Pipe()
	defer client.Close()

	// drain the client side so Session.disconnect's best-effort send never
	// blocks the pipe.
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	sess := NewSession(shared, server)
	sess.mu.Lock()
	sess.keepAliveWaiting = true
	sess.keepAliveSentAt = time.Now().Add(-2 * time.Second)
	sess.mu.Unlock()

	go sess.keepAliveLoop()

	select {
	case <-sess.closed:
	case <-time.After(3 * time.Second):
		t.Fatal("session was not disconnected after keep-alive timeout")
	}
}

func TestKeepAlivePongClearsWaiting(t *testing.T) {
	shared := newTestShared()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sess := NewSession(shared, server)
	sess.keepAliveID = 7
	sess.keepAliveWaiting = true

	require.NoError(t, sess.handleKeepAlivePong(7))
	require.False(t, sess.keepAliveWaiting)
}

func TestKeepAlivePongIgnoresStaleID(t *testing.T) {
	shared := newTestShared()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	sess := NewSession(shared, server)
	sess.keepAliveID = 7
	sess.keepAliveWaiting = true

	require.NoError(t, sess.handleKeepAlivePong(6))
	require.True(t, sess.keepAliveWaiting)
}
