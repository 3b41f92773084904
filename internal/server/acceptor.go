package server

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// drainTimeout bounds how long the acceptor waits for in-flight sessions to
// finish a graceful disconnect before it force-closes the listener (spec.md
// 4.12: "wait up to 5 seconds for drain, then force-close").
const drainTimeout = 5 * time.Second

// Acceptor is the server's TCP entry point (C11): it listens on the
// configured address, spawns one Session per accepted connection, and
// tracks every live session so a shutdown signal can broadcast a disconnect
// to each of them before the process exits.
type Acceptor struct {
	shared *Shared
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// NewAcceptor returns an Acceptor ready to Run against shared's address.
func NewAcceptor(shared *Shared) *Acceptor {
	return &Acceptor{
		shared:   shared,
		logger:   shared.Logger,
		sessions: make(map[*Session]struct{}),
	}
}

// Run listens on shared.Config.Address until ctx is canceled (by a signal
// watcher in cmd/limbo), spawning a goroutine per accepted connection. It
// returns once the listener is closed, after every tracked session has
// closed or drainTimeout has elapsed, whichever comes first.
func (a *Acceptor) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.shared.Config.Address)
	if err != nil {
		return err
	}
	a.logger.Info("listening", zap.String("address", a.shared.Config.Address))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		a.drain()
		return ln.Close()
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				select {
				case <-gctx.Done():
					return nil
				default:
					return err
				}
			}
			sess := NewSession(a.shared, conn)
			a.track(sess)
			go func() {
				defer a.untrack(sess)
				sess.Run()
			}()
		}
	})

	return g.Wait()
}

func (a *Acceptor) track(s *Session) {
	a.mu.Lock()
	a.sessions[s] = struct{}{}
	a.mu.Unlock()
}

func (a *Acceptor) untrack(s *Session) {
	a.mu.Lock()
	delete(a.sessions, s)
	a.mu.Unlock()
}

// drain broadcasts a state-appropriate disconnect to every live session and
// waits up to drainTimeout for them to close on their own (spec.md 4.12).
func (a *Acceptor) drain() {
	a.mu.Lock()
	sessions := make([]*Session, 0, len(a.sessions))
	for s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.mu.Unlock()

	if len(sessions) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.disconnect("Server closing")
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout):
		a.logger.Warn("drain timed out, forcing shutdown", zap.Int("remaining", len(sessions)))
	}
}
