package packets

import (
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// StatusRequest carries no fields; its presence is the whole message.
type StatusRequest struct{}

func (*StatusRequest) Name() string                                { return "status/serverbound/minecraft:status_request" }
func (*StatusRequest) State() protocol.State                       { return protocol.StateStatus }
func (*StatusRequest) Bound() protocol.Bound                       { return protocol.C2S }
func (*StatusRequest) Read(_ *wire.PacketBuffer, _ int32) error    { return nil }
func (*StatusRequest) Write(_ *wire.PacketBuffer, _ int32) error   { return nil }

// PingRequest (status state) carries an opaque timestamp the server must
// echo back verbatim in PongResponse.
type PingRequest struct {
	Timestamp wire.Int64
}

func (*PingRequest) Name() string          { return "status/serverbound/minecraft:ping_request" }
func (*PingRequest) State() protocol.State { return protocol.StateStatus }
func (*PingRequest) Bound() protocol.Bound { return protocol.C2S }

func (p *PingRequest) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.Timestamp, err = buf.ReadInt64()
	return err
}

func (p *PingRequest) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteInt64(p.Timestamp)
}

// StatusResponse carries the server-list-ping JSON payload built by
// internal/server's status responder (C12).
type StatusResponse struct {
	JSON wire.String
}

func (*StatusResponse) Name() string          { return "status/clientbound/minecraft:status_response" }
func (*StatusResponse) State() protocol.State { return protocol.StateStatus }
func (*StatusResponse) Bound() protocol.Bound { return protocol.S2C }

func (p *StatusResponse) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.JSON, err = buf.ReadString(0)
	return err
}

func (p *StatusResponse) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteString(p.JSON)
}

// PongResponse echoes PingRequest.Timestamp.
type PongResponse struct {
	Timestamp wire.Int64
}

func (*PongResponse) Name() string          { return "status/clientbound/minecraft:pong_response" }
func (*PongResponse) State() protocol.State { return protocol.StateStatus }
func (*PongResponse) Bound() protocol.Bound { return protocol.S2C }

func (p *PongResponse) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.Timestamp, err = buf.ReadInt64()
	return err
}

func (p *PongResponse) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteInt64(p.Timestamp)
}
