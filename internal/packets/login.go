package packets

import (
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// Hello is the serverbound login-start packet. Its wire shape is one of the
// more version-sensitive in the whole state machine (spec.md 4.8): the
// player UUID field, and the now-removed chat-session-signature block, both
// come and go across a handful of protocol releases.
type Hello struct {
	Username wire.String
	// PlayerUUID is present from protocol 759 (1.19) onward.
	PlayerUUID wire.UUID
	// HasSigData / signature fields only ever appeared between 759 and 761
	// (1.19 .. 1.19.3) before Mojang dropped client-side chat signing.
	HasSigData   wire.Boolean
	SigTimestamp wire.Int64
	SigPublicKey wire.ByteArray
	SigSignature wire.ByteArray
}

func (*Hello) Name() string          { return "login/serverbound/minecraft:hello" }
func (*Hello) State() protocol.State { return protocol.StateLogin }
func (*Hello) Bound() protocol.Bound { return protocol.C2S }

func hasSigDataRange(version int32) bool { return version >= 759 && version <= 761 }
func hasLoginUUID(version int32) bool    { return version >= 759 }

func (p *Hello) Read(buf *wire.PacketBuffer, version int32) error {
	var err error
	if p.Username, err = buf.ReadString(16); err != nil {
		return err
	}
	if hasSigDataRange(version) {
		if p.HasSigData, err = buf.ReadBool(); err != nil {
			return err
		}
		if p.HasSigData {
			if p.SigTimestamp, err = buf.ReadInt64(); err != nil {
				return err
			}
			if p.SigPublicKey, err = buf.ReadByteArray(512); err != nil {
				return err
			}
			if p.SigSignature, err = buf.ReadByteArray(4096); err != nil {
				return err
			}
		}
	}
	if hasLoginUUID(version) {
		p.PlayerUUID, err = buf.ReadUUID()
	}
	return err
}

func (p *Hello) Write(buf *wire.PacketBuffer, version int32) error {
	if err := buf.WriteString(p.Username); err != nil {
		return err
	}
	if hasSigDataRange(version) {
		if err := buf.WriteBool(p.HasSigData); err != nil {
			return err
		}
		if p.HasSigData {
			if err := buf.WriteInt64(p.SigTimestamp); err != nil {
				return err
			}
			if err := buf.WriteByteArray(p.SigPublicKey); err != nil {
				return err
			}
			if err := buf.WriteByteArray(p.SigSignature); err != nil {
				return err
			}
		}
	}
	if hasLoginUUID(version) {
		return buf.WriteUUID(p.PlayerUUID)
	}
	return nil
}

// LoginPluginResponse is the client's answer to a server-issued
// LoginPluginRequest, used by the Velocity-modern forwarding handshake
// (internal/forwarding) to carry the HMAC-signed player info payload.
// Data carries the Velocity forwarding payload when Successful is true:
// [signature:32 bytes][payload bytes], sized implicitly from the packet's
// own length rather than an inner VarInt prefix (spec.md 4.11).
type LoginPluginResponse struct {
	MessageID  wire.VarInt
	Successful wire.Boolean
	Data       wire.ByteArray
}

func (*LoginPluginResponse) Name() string          { return "login/serverbound/minecraft:custom_query_answer" }
func (*LoginPluginResponse) State() protocol.State { return protocol.StateLogin }
func (*LoginPluginResponse) Bound() protocol.Bound { return protocol.C2S }

func (p *LoginPluginResponse) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Successful, err = buf.ReadBool(); err != nil {
		return err
	}
	if !p.Successful {
		return nil
	}
	p.Data, err = buf.ReadRemaining()
	return err
}

func (p *LoginPluginResponse) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.Successful); err != nil {
		return err
	}
	if !p.Successful {
		return nil
	}
	return buf.WriteFixedByteArray(p.Data)
}

// LoginAcknowledged has no fields; it is the client's ack of LoginSuccess
// and the trigger to move to Configuration (protocol >= 764).
type LoginAcknowledged struct{}

func (*LoginAcknowledged) Name() string                              { return "login/serverbound/minecraft:login_acknowledged" }
func (*LoginAcknowledged) State() protocol.State                     { return protocol.StateLogin }
func (*LoginAcknowledged) Bound() protocol.Bound                     { return protocol.C2S }
func (*LoginAcknowledged) Read(_ *wire.PacketBuffer, _ int32) error  { return nil }
func (*LoginAcknowledged) Write(_ *wire.PacketBuffer, _ int32) error { return nil }

// LoginDisconnect terminates a session still in the login state. Below
// protocol 765 the reason is plain JSON text; from 765 onward it is NBT
// (spec.md 4.3's "alternative field types under different version ranges").
type LoginDisconnect struct {
	Reason wire.TextComponent
}

func (*LoginDisconnect) Name() string          { return "login/clientbound/minecraft:login_disconnect" }
func (*LoginDisconnect) State() protocol.State { return protocol.StateLogin }
func (*LoginDisconnect) Bound() protocol.Bound { return protocol.S2C }

func (p *LoginDisconnect) Read(buf *wire.PacketBuffer, version int32) error {
	if protocol.UsesStringDisconnectReason(version) {
		s, err := buf.ReadString(0)
		if err != nil {
			return err
		}
		p.Reason = wire.TextComponent{Text: string(s)}
		return nil
	}
	var err error
	p.Reason, err = buf.ReadTextComponent()
	return err
}

func (p *LoginDisconnect) Write(buf *wire.PacketBuffer, version int32) error {
	if protocol.UsesStringDisconnectReason(version) {
		return buf.WriteString(wire.String(reasonToJSON(p.Reason)))
	}
	return buf.WriteTextComponent(p.Reason)
}

// reasonToJSON renders a TextComponent as the legacy plain-JSON disconnect
// string format pre-1.20.3 clients expect.
func reasonToJSON(tc wire.TextComponent) string {
	if tc.Text != "" || (tc.Translate == "" && len(tc.Extra) == 0) {
		return `{"text":"` + jsonEscape(tc.Text) + `"}`
	}
	return `{"translate":"` + jsonEscape(tc.Translate) + `"}`
}

func jsonEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// SetCompression negotiates zlib packet compression (spec.md section 5):
// a threshold of N means "only compress bodies >= N bytes".
type SetCompression struct {
	Threshold wire.VarInt
}

func (*SetCompression) Name() string          { return "login/clientbound/minecraft:login_compression" }
func (*SetCompression) State() protocol.State { return protocol.StateLogin }
func (*SetCompression) Bound() protocol.Bound { return protocol.S2C }

func (p *SetCompression) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.Threshold, err = buf.ReadVarInt()
	return err
}

func (p *SetCompression) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteVarInt(p.Threshold)
}

// LoginPluginRequest is used to open the Velocity-modern forwarding
// handshake: a fresh MessageID and the well-known "velocity:player_info"
// channel, with an empty data payload.
type LoginPluginRequest struct {
	MessageID wire.VarInt
	Channel   wire.Identifier
	Data      wire.ByteArray
}

func (*LoginPluginRequest) Name() string          { return "login/clientbound/minecraft:custom_query" }
func (*LoginPluginRequest) State() protocol.State { return protocol.StateLogin }
func (*LoginPluginRequest) Bound() protocol.Bound { return protocol.S2C }

func (p *LoginPluginRequest) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = buf.ReadRemaining()
	return err
}

func (p *LoginPluginRequest) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	return buf.WriteFixedByteArray(p.Data)
}

// LoginSuccess is the packet named `game_profile` (1.20.2-1.21.1),
// `login_finished` (1.21.2+), or the bare legacy login-success form
// (pre-1.20.2, where it also directly transitions the session to Play
// instead of Configuration — see internal/server). One struct models all
// three since the wire shape is identical except for the trailing
// strict-error-handling flag.
type LoginSuccess struct {
	Profile             wire.GameProfile
	StrictErrorHandling wire.Boolean
}

func (*LoginSuccess) Name() string          { return "login/clientbound/minecraft:login_success" }
func (*LoginSuccess) State() protocol.State { return protocol.StateLogin }
func (*LoginSuccess) Bound() protocol.Bound { return protocol.S2C }

func hasStrictErrorHandling(version int32) bool { return version >= 764 && version <= 767 }

func (p *LoginSuccess) Read(buf *wire.PacketBuffer, version int32) error {
	if err := p.Profile.Decode(buf); err != nil {
		return err
	}
	if hasStrictErrorHandling(version) {
		var err error
		p.StrictErrorHandling, err = buf.ReadBool()
		return err
	}
	return nil
}

func (p *LoginSuccess) Write(buf *wire.PacketBuffer, version int32) error {
	if err := p.Profile.Encode(buf); err != nil {
		return err
	}
	if hasStrictErrorHandling(version) {
		return buf.WriteBool(p.StrictErrorHandling)
	}
	return nil
}

// The login-state cookie packets have no type here: this server never
// issues a cookie request, and the dispatcher's login handler rejects an
// inbound cookie_response as an unexpected packet.
