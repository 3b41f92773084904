package protocol

// Packet format:
//
// > Packets cannot be larger than (2^21) − 1 or 2 097 151 bytes (the maximum
// that can be sent in a 3-byte VarInt). Moreover, the length field must not
// be longer than 3 bytes, even if the encoded value is within the limit.
// Unnecessarily long encodings at 3 bytes or below are still allowed. For
// compressed packets, this applies to the Packet Length field, i.e. the
// compressed length.
//
// See https://minecraft.wiki/w/Java_Edition_protocol/Packets

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// WirePacket is a packet as it appears framed on the wire: an id plus raw
// body bytes, with no knowledge of what the id or body mean.
type WirePacket struct {
	PacketID wire.VarInt
	Data     []byte
}

// ReadWirePacketFrom reads one framed packet from r. Pass a negative
// compressionThreshold to disable compression.
func ReadWirePacketFrom(r io.Reader, compressionThreshold int) (*WirePacket, error) {
	packetLength, err := wire.DecodeVarInt(r)
	if err != nil {
		return nil, NewCodecError("read packet length", err)
	}

	data := make([]byte, packetLength)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, NewIOError("read packet body", err)
	}

	reader := bytes.NewReader(data)
	if compressionThreshold >= 0 {
		return readCompressedPacket(reader)
	}
	return readUncompressedPacket(reader)
}

func readUncompressedPacket(r *bytes.Reader) (*WirePacket, error) {
	packetID, err := wire.DecodeVarInt(r)
	if err != nil {
		return nil, NewCodecError("read packet id", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewIOError("read packet data", err)
	}
	return &WirePacket{PacketID: packetID, Data: data}, nil
}

func readCompressedPacket(r *bytes.Reader) (*WirePacket, error) {
	dataLength, err := wire.DecodeVarInt(r)
	if err != nil {
		return nil, NewCodecError("read data length", err)
	}

	// dataLength == 0 means "sent uncompressed despite compression being
	// negotiated" — the payload was below the configured threshold.
	if dataLength == 0 {
		return readUncompressedPacket(r)
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, NewIOError("read compressed data", err)
	}
	uncompressed, err := decompressZlib(compressed)
	if err != nil {
		return nil, NewCodecError("decompress packet", err)
	}

	inner := bytes.NewReader(uncompressed)
	packetID, err := wire.DecodeVarInt(inner)
	if err != nil {
		return nil, NewCodecError("read packet id", err)
	}
	data, err := io.ReadAll(inner)
	if err != nil {
		return nil, NewIOError("read packet data", err)
	}
	return &WirePacket{PacketID: packetID, Data: data}, nil
}

// WriteTo writes the WirePacket to w, framed and compressed according to
// compressionThreshold (negative disables compression).
func (w *WirePacket) WriteTo(writer io.Writer, compressionThreshold int) error {
	var data []byte
	var err error
	if compressionThreshold >= 0 {
		data, err = w.toBytesCompressed(compressionThreshold)
	} else {
		data, err = w.toBytesUncompressed()
	}
	if err != nil {
		return NewCodecError("serialize packet", err)
	}
	if _, err := writer.Write(data); err != nil {
		return NewIOError("write packet", err)
	}
	return nil
}

// toBytesCompressed implements the "with compression" framing:
//
//	if (size >= threshold)
//	    packetLength = len(dataLength) + len(compressed(packetID+data))
//	    dataLength   = len(uncompressed(packetID+data))
//	    body         = compressed(packetID+data)
//	else
//	    packetLength = len(dataLength) + len(packetID+data)
//	    dataLength   = 0
//	    body         = packetID+data (uncompressed)
func (w *WirePacket) toBytesCompressed(threshold int) ([]byte, error) {
	idBytes, err := w.PacketID.ToBytes()
	if err != nil {
		return nil, err
	}
	payload := append(idBytes, w.Data...)

	if len(payload) >= threshold {
		compressed := compressZlib(payload)
		dataLenBytes, err := wire.VarInt(len(payload)).ToBytes()
		if err != nil {
			return nil, err
		}
		body := append(dataLenBytes, compressed...)
		lenBytes, err := wire.VarInt(len(body)).ToBytes()
		if err != nil {
			return nil, err
		}
		return append(lenBytes, body...), nil
	}

	zeroBytes, err := wire.VarInt(0).ToBytes()
	if err != nil {
		return nil, err
	}
	body := append(zeroBytes, payload...)
	lenBytes, err := wire.VarInt(len(body)).ToBytes()
	if err != nil {
		return nil, err
	}
	return append(lenBytes, body...), nil
}

// toBytesUncompressed implements the "without compression" framing:
// packetLength = len(packetID+data), body = packetID+data.
func (w *WirePacket) toBytesUncompressed() ([]byte, error) {
	idBytes, err := w.PacketID.ToBytes()
	if err != nil {
		return nil, err
	}
	payload := append(idBytes, w.Data...)
	lenBytes, err := wire.VarInt(len(payload)).ToBytes()
	if err != nil {
		return nil, err
	}
	return append(lenBytes, payload...), nil
}

func compressZlib(data []byte) []byte {
	buf := &bytes.Buffer{}
	writer := zlib.NewWriter(buf)
	_, _ = writer.Write(data)
	_ = writer.Close()
	return buf.Bytes()
}

func decompressZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
