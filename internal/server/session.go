// Package server implements the connection session, state-machine
// dispatcher, status responder, and TCP acceptor that together form a
// running limbo server (spec.md 4.7/4.8/4.10/4.12, C7/C8/C11/C12).
package server

import (
	"bytes"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/go-mclib/limbo/internal/blocks"
	"github.com/go-mclib/limbo/internal/config"
	"github.com/go-mclib/limbo/internal/forwarding"
	"github.com/go-mclib/limbo/internal/identity"
	"github.com/go-mclib/limbo/internal/nbt"
	"github.com/go-mclib/limbo/internal/packets"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
	"github.com/go-mclib/limbo/internal/registry"
	"github.com/go-mclib/limbo/internal/world"
)

// outboundQueueCapacity bounds a session's write queue (spec.md 4.7/5:
// enqueue blocks the caller once full, giving the connection natural
// back-pressure instead of unbounded buffering).
const outboundQueueCapacity = 256

// shared is the read-only state every session consults but none of them
// own: the loaded assets and server configuration. Built once in
// NewSharedState and handed to every accepted connection.
type Shared struct {
	Config          *config.Config
	Packets         *registry.VersionedTables
	Registry        *blocks.Registry
	Mappings        map[int32]*blocks.ReportMapping
	RegistryData    map[int32]map[string]nbt.Tag
	World           *world.World
	Velocity        *forwarding.Velocity
	BungeeGuard     *forwarding.BungeeCord
	Brand           string
	GameVersionName string
	Logger          *zap.Logger

	// OnlinePlayers is the live count of sessions currently in Play, read by
	// the status responder (C12) when status.show_online_count is enabled.
	OnlinePlayers int64
}

// Session is one connection's owner task: it holds both socket halves (via
// net.Conn), the negotiated protocol state, and a bounded outbound queue
// drained by a dedicated writer goroutine (spec.md 4.7).
type Session struct {
	shared *Shared
	conn   net.Conn
	logger *zap.Logger
	remote string

	mu                    sync.Mutex
	state                 protocol.State
	resumed               bool
	protocolVersion       int32
	rawProtocolVersion    int32
	versionSet            bool
	compressionThreshold  int
	profile               identity.Profile
	profileSet            bool
	pendingMessageID      wire.VarInt
	forwardedAddr         string

	outbound  chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	keepAliveID      int64
	keepAliveWaiting bool
	keepAliveSentAt  time.Time
	stopKeepAlive    chan struct{}

	countedOnline bool
}

// NewSession wraps an accepted connection, ready to run its handshake.
func NewSession(shared *Shared, conn net.Conn) *Session {
	return &Session{
		shared:               shared,
		conn:                 conn,
		logger:               shared.Logger.With(zap.String("remote", conn.RemoteAddr().String())),
		remote:               conn.RemoteAddr().String(),
		state:                protocol.StateHandshake,
		compressionThreshold: -1,
		outbound:             make(chan []byte, outboundQueueCapacity),
		closed:               make(chan struct{}),
		stopKeepAlive:        make(chan struct{}),
	}
}

// setState performs an atomic transition, rejecting any move the state
// machine doesn't allow (spec.md 4.7: set_state "rejects illegal
// transitions with InvalidTransition").
func (s *Session) setState(next protocol.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !legalTransition(s.state, next) {
		return protocol.NewProtocolError(s.state, fmt.Sprintf("illegal transition to %s", next))
	}
	s.state = next
	return nil
}

func legalTransition(from, to protocol.State) bool {
	switch from {
	case protocol.StateHandshake:
		return to == protocol.StateStatus || to == protocol.StateLogin || to == protocol.StateTransfer
	case protocol.StateLogin, protocol.StateTransfer:
		return to == protocol.StateConfiguration || to == protocol.StatePlay
	case protocol.StateConfiguration:
		return to == protocol.StatePlay
	default:
		return false
	}
}

// lookupState returns the state key used to resolve this session's packet
// table: Transfer reuses Login's packet set verbatim (spec.md 4.8).
func (s *Session) lookupState() protocol.State {
	if s.state == protocol.StateTransfer {
		return protocol.StateLogin
	}
	return s.state
}

// setProtocolVersion records the client's announced version exactly once,
// clamping to the nearest supported release (spec.md 4.7: "set exactly
// once during handshake").
func (s *Session) setProtocolVersion(n int32) {
	s.rawProtocolVersion = n
	s.protocolVersion = protocol.FromNumber(n).Number
	s.versionSet = true
}

// send encodes pkt for this session's current state/version and enqueues
// it on the outbound queue, blocking the caller if the queue is full
// (spec.md 4.7).
func (s *Session) send(pkt protocol.Packet) error {
	if !s.versionSet {
		return protocol.NewProtocolError(s.state, "send before protocol version negotiated")
	}
	table, err := s.shared.Packets.For(s.protocolVersion)
	if err != nil {
		return err
	}
	id, err := table.IDFor(pkt)
	if err != nil {
		return err
	}
	body, err := protocol.EncodePacketBody(pkt, s.protocolVersion)
	if err != nil {
		return err
	}
	wp := &protocol.WirePacket{PacketID: wire.VarInt(id), Data: body}
	var buf bytes.Buffer
	if err := wp.WriteTo(&buf, s.compressionThreshold); err != nil {
		return err
	}
	select {
	case s.outbound <- buf.Bytes():
		return nil
	case <-s.closed:
		return protocol.NewIOError("send", errSessionClosed{})
	}
}

// disconnect sends the state-appropriate disconnect packet (if the
// session is still in a state that has one) and tears the connection down
// (spec.md 4.7).
func (s *Session) disconnect(reason string) {
	tc := wire.TextComponent{Text: reason}
	switch s.state {
	case protocol.StateLogin, protocol.StateTransfer:
		_ = s.send(&packets.LoginDisconnect{Reason: tc})
	case protocol.StateConfiguration:
		_ = s.send(&packets.DisconnectConfiguration{Reason: tc})
	case protocol.StatePlay:
		_ = s.send(&packets.DisconnectPlay{Reason: tc})
	}
	s.close()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.countedOnline {
			atomic.AddInt64(&s.shared.OnlinePlayers, -1)
		}
		close(s.closed)
		close(s.stopKeepAlive)
		close(s.outbound)
		_ = s.conn.Close()
	})
}

type errSessionClosed struct{}

func (errSessionClosed) Error() string { return "session closed" }

// writeLoop drains the outbound queue to the socket until the session
// closes. Run as its own goroutine so a slow client reading its side of
// the TCP connection never blocks this session's handler logic beyond the
// queue's capacity (spec.md 5).
func (s *Session) writeLoop() {
	for data := range s.outbound {
		if _, err := s.conn.Write(data); err != nil {
			s.logger.Debug("write failed, closing session", zap.Error(err))
			s.close()
			return
		}
	}
}
