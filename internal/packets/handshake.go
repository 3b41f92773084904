// Package packets declares every typed packet exchanged across the
// handshake/status/login/configuration/play state machine. Each type
// implements protocol.Packet: a canonical name, its state and bound, and a
// pair of Read/Write methods that apply the field's version range inline,
// mirroring the teacher's straightforward sequential packet_codec.go decode
// style with version guards added per spec.md section 4.3.
package packets

import (
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// Next-state values carried by the Intention (handshake) packet.
const (
	NextStateStatus   wire.VarInt = 1
	NextStateLogin    wire.VarInt = 2
	NextStateTransfer wire.VarInt = 3
)

// Intention is the single handshake-state serverbound packet. It carries
// the client's announced protocol version, the address it dialed (used for
// BungeeCord legacy forwarding, see internal/forwarding), and which state
// to transition into next.
type Intention struct {
	ProtocolVersion wire.VarInt
	ServerAddress   wire.String
	ServerPort      wire.Uint16
	NextState       wire.VarInt
}

func (*Intention) Name() string          { return "handshake/serverbound/minecraft:intention" }
func (*Intention) State() protocol.State { return protocol.StateHandshake }
func (*Intention) Bound() protocol.Bound { return protocol.C2S }

func (p *Intention) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.ProtocolVersion, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ServerAddress, err = buf.ReadString(255); err != nil {
		return err
	}
	if p.ServerPort, err = buf.ReadUint16(); err != nil {
		return err
	}
	p.NextState, err = buf.ReadVarInt()
	return err
}

func (p *Intention) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(p.ProtocolVersion); err != nil {
		return err
	}
	if err := buf.WriteString(p.ServerAddress); err != nil {
		return err
	}
	if err := buf.WriteUint16(p.ServerPort); err != nil {
		return err
	}
	return buf.WriteVarInt(p.NextState)
}
