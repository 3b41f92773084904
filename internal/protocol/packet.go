package protocol

import wire "github.com/go-mclib/limbo/internal/protocol/wire"

// Packet is implemented by every typed packet in the system. Unlike the
// teacher library, packets do not carry a fixed numeric id: the same
// logical packet can sit at a different id in every protocol version, so
// identity is the canonical name (see Name), and the numeric id is resolved
// per-version through a PacketIDTable.
type Packet interface {
	// Name is the canonical, version-stable identifier for this packet,
	// e.g. "login/serverbound/minecraft:hello".
	Name() string
	// State is the protocol state this packet belongs to.
	State() State
	// Bound is the direction this packet travels.
	Bound() Bound
	// Read deserializes the packet body for the given protocol version.
	Read(buf *wire.PacketBuffer, version int32) error
	// Write serializes the packet body for the given protocol version.
	Write(buf *wire.PacketBuffer, version int32) error
}

// ReadPacket deserializes raw into a new instance of T using T's Read
// method. T must be a pointer-receiver Packet implementation.
func ReadPacket[T any, PT interface {
	*T
	Packet
}](raw []byte, version int32) (PT, error) {
	p := new(T)
	pt := PT(p)
	buf := wire.NewReader(raw)
	if err := pt.Read(buf, version); err != nil {
		return nil, NewCodecError("read "+pt.Name(), err)
	}
	return pt, nil
}

// EncodePacketBody serializes a packet's body (without id framing) for the
// given protocol version.
func EncodePacketBody(p Packet, version int32) ([]byte, error) {
	buf := wire.NewWriter()
	if err := p.Write(buf, version); err != nil {
		return nil, NewCodecError("write "+p.Name(), err)
	}
	return buf.Bytes(), nil
}
