package server

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-mclib/limbo/internal/forwarding"
	"github.com/go-mclib/limbo/internal/identity"
	"github.com/go-mclib/limbo/internal/packets"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
	"github.com/go-mclib/limbo/internal/registry"
)

// defaultSpawnY is where a session is re-teleported after falling through
// the min_y safety net (spec.md 4.8, scenario 5). A void dimension has no
// meaningful ground, so this is just a comfortable height above it.
const defaultSpawnY = 64.0

// Run drives one session to completion: it reads framed packets off the
// socket, dispatches each to its state's handler, and returns once the
// connection is closed for any reason (spec.md 4.8). It starts the
// session's writeLoop goroutine itself.
func (s *Session) Run() {
	defer s.close()
	go s.writeLoop()

	for {
		wp, err := protocol.ReadWirePacketFrom(s.conn, s.compressionThreshold)
		if err != nil {
			s.logger.Debug("session ended", zap.Error(err))
			return
		}
		if err := s.handle(wp); err != nil {
			s.logSessionError(err)
			s.disconnectOn(err)
			return
		}
	}
}

func (s *Session) logSessionError(err error) {
	s.logger.Info("session terminated",
		zap.String("state", s.state.String()),
		zap.Int32("protocol", s.protocolVersion),
		zap.Error(err),
	)
}

func (s *Session) disconnectOn(err error) {
	if fe, ok := err.(*protocol.ForwardingError); ok {
		s.disconnect(fe.DisconnectReason)
		return
	}
	s.close()
}

func (s *Session) handle(wp *protocol.WirePacket) error {
	state := s.lookupState()
	table, err := s.tableFor()
	if err != nil {
		return err
	}
	name, ok := table.NameForID(state, protocol.C2S, uint8(wp.PacketID))
	if !ok {
		return protocol.NewProtocolError(s.state, "unknown packet id in this state")
	}

	switch state {
	case protocol.StateHandshake:
		return s.handleHandshake(name, wp.Data)
	case protocol.StateStatus:
		return s.handleStatus(name, wp.Data)
	case protocol.StateLogin:
		return s.handleLogin(name, wp.Data)
	case protocol.StateConfiguration:
		return s.handleConfiguration(name, wp.Data)
	case protocol.StatePlay:
		return s.handlePlay(name, wp.Data)
	default:
		return protocol.NewProtocolError(s.state, "no handler for state")
	}
}

// tableFor resolves this session's packet table. Before the version is
// known (handshake only) every supported protocol shares the same
// handshake packet shape, so the oldest table is used purely to identify
// "intention" by name.
func (s *Session) tableFor() (*registry.Table, error) {
	if !s.versionSet {
		return s.shared.Packets.For(protocol.Oldest().Number)
	}
	return s.shared.Packets.For(s.protocolVersion)
}

func resourceName(name string) string { return registry.ResourceName(name) }

// --- Handshake ---

func (s *Session) handleHandshake(name string, raw []byte) error {
	if resourceName(name) != "minecraft:intention" {
		return protocol.NewProtocolError(s.state, "unexpected packet in handshake: "+name)
	}
	intention, err := protocol.ReadPacket[packets.Intention](raw, 0)
	if err != nil {
		return err
	}
	s.setProtocolVersion(int32(intention.ProtocolVersion))
	s.forwardedAddr = string(intention.ServerAddress)

	switch intention.NextState {
	case packets.NextStateStatus:
		return s.setState(protocol.StateStatus)
	case packets.NextStateLogin:
		s.tryParseBungeeHostname()
		return s.setState(protocol.StateLogin)
	case packets.NextStateTransfer:
		s.tryParseBungeeHostname()
		s.resumed = true
		return s.setState(protocol.StateTransfer)
	default:
		return protocol.NewProtocolError(s.state, "illegal next_state value")
	}
}

// tryParseBungeeHostname attempts BungeeCord-legacy hostname parsing right
// after the handshake, before a username is even known, matching spec.md
// 4.8 ("hostname is parsed ... already recorded"). The username is filled
// in once hello arrives; ParseHostname only needs it for truncation, so a
// placeholder is harmless here and corrected in handleHello.
func (s *Session) tryParseBungeeHostname() {
	if s.shared.BungeeGuard == nil || !s.shared.Config.Forwarding.BungeeCord.Enabled {
		return
	}
	profile, ok, err := s.shared.BungeeGuard.ParseHostname(s.forwardedAddr, "")
	if err != nil || !ok {
		return
	}
	s.profile = profile
	s.profileSet = true
}

// --- Status ---

func (s *Session) handleStatus(name string, raw []byte) error {
	switch resourceName(name) {
	case "minecraft:status_request":
		body, err := s.buildStatusJSON()
		if err != nil {
			return err
		}
		return s.send(&packets.StatusResponse{JSON: wire.String(body)})
	case "minecraft:ping_request":
		p, err := protocol.ReadPacket[packets.PingRequest](raw, s.protocolVersion)
		if err != nil {
			return err
		}
		if err := s.send(&packets.PongResponse{Timestamp: p.Timestamp}); err != nil {
			return err
		}
		s.close()
		return nil
	default:
		return protocol.NewProtocolError(s.state, "unexpected packet in status: "+name)
	}
}

// --- Login ---

func (s *Session) handleLogin(name string, raw []byte) error {
	switch resourceName(name) {
	case "minecraft:hello":
		return s.handleHello(raw)
	case "minecraft:custom_query_answer":
		return s.handleLoginPluginResponse(raw)
	case "minecraft:login_acknowledged":
		if _, err := protocol.ReadPacket[packets.LoginAcknowledged](raw, s.protocolVersion); err != nil {
			return err
		}
		if err := s.setState(protocol.StateConfiguration); err != nil {
			return err
		}
		return s.enterConfiguration()
	default:
		return protocol.NewProtocolError(s.state, "unexpected packet in login: "+name)
	}
}

func (s *Session) handleHello(raw []byte) error {
	hello, err := protocol.ReadPacket[packets.Hello](raw, s.protocolVersion)
	if err != nil {
		return err
	}

	if s.shared.Config.Forwarding.Velocity.Enabled {
		mid := forwarding.NewMessageID()
		s.pendingMessageID = wire.VarInt(mid)
		return s.send(&packets.LoginPluginRequest{
			MessageID: s.pendingMessageID,
			Channel:   forwarding.VelocityChannel,
			Data:      nil,
		})
	}

	if s.profileSet {
		// Already resolved from the BungeeCord-forwarded hostname in
		// handleHandshake; just fix the truncated username up.
		s.profile = identity.NewProfile(string(hello.Username), s.profile.UUID, s.profile.Properties)
	} else if hasLoginUUID(s.protocolVersion) && !hello.PlayerUUID.IsNil() {
		s.profile = identity.NewProfile(string(hello.Username), uuid.UUID(hello.PlayerUUID), nil)
	} else {
		s.profile = identity.NewOfflineProfile(string(hello.Username))
	}
	s.profileSet = true
	return s.finishLogin()
}

func (s *Session) handleLoginPluginResponse(raw []byte) error {
	resp, err := protocol.ReadPacket[packets.LoginPluginResponse](raw, s.protocolVersion)
	if err != nil {
		return err
	}
	if resp.MessageID != s.pendingMessageID {
		return protocol.NewProtocolError(s.state, "login plugin response for unknown message id")
	}
	if !resp.Successful {
		return protocol.NewForwardingError("Invalid proxy forwarding", errForwardingRefused{})
	}
	profile, addr, err := s.shared.Velocity.Validate(resp.Data)
	if err != nil {
		return err
	}
	s.profile = profile
	s.profileSet = true
	s.forwardedAddr = addr
	return s.finishLogin()
}

type errForwardingRefused struct{}

func (errForwardingRefused) Error() string { return "client reported unsuccessful plugin response" }

// finishLogin sends compression negotiation (if configured) and the
// version-appropriate login-success packet, then — for pre-1.20.2 clients
// that skip Configuration entirely — starts Play directly (spec.md 4.8).
func (s *Session) finishLogin() error {
	if threshold := s.shared.Config.CompressionThreshold; threshold >= 0 {
		if err := s.send(&packets.SetCompression{Threshold: wire.VarInt(threshold)}); err != nil {
			return err
		}
		s.compressionThreshold = threshold
	}

	success := &packets.LoginSuccess{Profile: s.profile.ToWire()}
	if err := s.send(success); err != nil {
		return err
	}

	if s.protocolVersion < 764 {
		if err := s.setState(protocol.StatePlay); err != nil {
			return err
		}
		return s.enterPlay()
	}
	return nil
}

func hasLoginUUID(version int32) bool { return version >= 759 }

// --- Configuration ---

func (s *Session) handleConfiguration(name string, raw []byte) error {
	switch resourceName(name) {
	case "minecraft:finish_configuration":
		if _, err := protocol.ReadPacket[packets.FinishConfigurationServerbound](raw, s.protocolVersion); err != nil {
			return err
		}
		if err := s.setState(protocol.StatePlay); err != nil {
			return err
		}
		return s.enterPlay()
	case "minecraft:client_information", "minecraft:custom_payload", "minecraft:select_known_packs":
		// presence is enough (spec.md 4.8)
		return nil
	default:
		return protocol.NewProtocolError(s.state, "unexpected packet in configuration: "+name)
	}
}

// enterConfiguration sends the fixed opening sequence (brand, known
// packs, registries) right after login_acknowledged (spec.md 4.8).
func (s *Session) enterConfiguration() error {
	if err := s.send(packets.NewBrandMessage(s.shared.Brand)); err != nil {
		return err
	}
	if s.protocolVersion >= 766 {
		known := &packets.ClientBoundKnownPacks{Packs: []packets.KnownPack{
			{Namespace: "minecraft", ID: "core", Version: wire.String(s.shared.GameVersionName)},
		}}
		if err := s.send(known); err != nil {
			return err
		}
	}
	return s.sendRegistries()
}

// --- Play ---

func (s *Session) handlePlay(name string, raw []byte) error {
	switch resourceName(name) {
	case "minecraft:accept_teleportation":
		_, err := protocol.ReadPacket[packets.AcceptTeleportation](raw, s.protocolVersion)
		return err
	case "minecraft:move_player_pos":
		p, err := protocol.ReadPacket[packets.MovePlayerPos](raw, s.protocolVersion)
		if err != nil {
			return err
		}
		return s.checkMinY(float64(p.FeetY))
	case "minecraft:keep_alive":
		p, err := protocol.ReadPacket[packets.KeepAliveServerbound](raw, s.protocolVersion)
		if err != nil {
			return err
		}
		return s.handleKeepAlivePong(int64(p.ID))
	default:
		// A wide range of serverbound Play packets (chat, interactions,
		// animation, ...) carry no state this server tracks; accepting
		// and ignoring them keeps a real client connected instead of
		// tripping a ProtocolError on every button press.
		return nil
	}
}

func (s *Session) checkMinY(feetY float64) error {
	minY := s.shared.Config.MinY
	if minY == nil || feetY >= float64(*minY) {
		return nil
	}
	if err := s.sendSpawnTeleport(); err != nil {
		return err
	}
	if s.shared.Config.MinYMessage == "" {
		return nil
	}
	return s.send(&packets.SystemChatMessage{Content: wire.TextComponent{Text: s.shared.Config.MinYMessage}})
}

func (s *Session) sendSpawnTeleport() error {
	return s.send(&packets.SynchronizePlayerPosition{
		X: 0, Y: float64(defaultSpawnHeight(s.protocolVersion)), Z: 0,
		Yaw: 0, Pitch: 0, Flags: 0, TeleportID: 0,
	})
}

func (s *Session) handleKeepAlivePong(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.keepAliveWaiting || id != s.keepAliveID {
		return nil
	}
	s.keepAliveWaiting = false
	return nil
}

// keepAliveLoop runs for the lifetime of a Play session, sending a
// keep_alive every interval and disconnecting a client that doesn't echo
// it within timeout (spec.md 4.8).
func (s *Session) keepAliveLoop() {
	interval := time.Duration(s.shared.Config.KeepAliveIntervalSecs) * time.Second
	timeout := time.Duration(s.shared.Config.KeepAliveTimeoutSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopKeepAlive:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.keepAliveWaiting && time.Since(s.keepAliveSentAt) > timeout {
				s.mu.Unlock()
				s.disconnect("Timed out")
				return
			}
			s.keepAliveID++
			id := s.keepAliveID
			s.keepAliveWaiting = true
			s.keepAliveSentAt = time.Now()
			s.mu.Unlock()

			if err := s.send(&packets.KeepAliveClientbound{ID: wire.Int64(id)}); err != nil {
				return
			}
		}
	}
}
