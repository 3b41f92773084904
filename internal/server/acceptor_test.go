package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/go-mclib/limbo/internal/config"
)

func newTestShared() *Shared {
	return &Shared{
		Config: &config.Config{},
		Logger: zap.NewNop(),
	}
}

func TestAcceptorTrackUntrack(t *testing.T) {
	a := NewAcceptor(newTestShared())
	client, server := net.Pipe()
	defer client.Close()

	sess := NewSession(a.shared, server)
	a.track(sess)

	a.mu.Lock()
	_, tracked := a.sessions[sess]
	a.mu.Unlock()
	require.True(t, tracked)

	a.untrack(sess)

	a.mu.Lock()
	_, stillTracked := a.sessions[sess]
	a.mu.Unlock()
	require.False(t, stillTracked)
}

func TestAcceptorDrainClosesTrackedSessions(t *testing.T) {
	a := NewAcceptor(newTestShared())

	client, server := net.Pipe()
	defer client.Close()

	sess := NewSession(a.shared, server)
	a.track(sess)

	done := make(chan struct{})
	go func() {
		a.drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout + time.Second):
		t.Fatal("drain did not return in time")
	}

	select {
	case <-sess.closed:
	default:
		t.Fatal("expected session to be closed after drain")
	}
}
