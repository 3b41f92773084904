// Package forwarding implements the two proxy-to-server identity
// propagation schemes a limbo server sits behind: Velocity's modern
// HMAC-signed login-plugin exchange and BungeeCord's legacy host-string
// token (spec.md 4.11/C10).
package forwarding

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/go-mclib/limbo/internal/identity"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// VelocityChannel is the login-plugin-message channel Velocity's forwarding
// handshake answers on.
const VelocityChannel = "velocity:player_info"

const velocitySignatureLen = 32

// VelocitySupportedVersions are the forwarding payload versions this
// server can parse, oldest first.
var VelocitySupportedVersions = []int32{1, 2, 3, 4}

// Velocity validates and decodes a Velocity-modern forwarding response
// against a shared secret (spec.md 4.11).
type Velocity struct {
	Secret []byte
}

// NewMessageID returns a fresh, unpredictable login-plugin message id. Any
// VarInt works on the wire; randomizing it just avoids a predictable
// sequence an observer could correlate across connections.
func NewMessageID() int32 {
	return int32(rand.Uint32() & 0x7fffffff)
}

// errHMACMismatch and errEmptyPayload are wrapped into ForwardingErrors by
// Validate itself so the disconnect reason stays a single constant
// string regardless of which check failed (spec.md 4.11: "Invalid proxy
// forwarding").
var (
	errHMACMismatch = fmt.Errorf("hmac signature mismatch")
	errEmptyPayload = fmt.Errorf("empty forwarding payload")
)

// Validate checks data (the raw LoginPluginResponse.Data field) against
// v.Secret and, on success, decodes the forwarded profile and the
// client-visible remote address it carries.
func (v *Velocity) Validate(data []byte) (identity.Profile, string, error) {
	if len(data) < velocitySignatureLen {
		return identity.Profile{}, "", protocol.NewForwardingError("Invalid proxy forwarding", errEmptyPayload)
	}
	signature := data[:velocitySignatureLen]
	payload := data[velocitySignatureLen:]
	if len(payload) == 0 {
		return identity.Profile{}, "", protocol.NewForwardingError("Invalid proxy forwarding", errEmptyPayload)
	}

	mac := hmac.New(sha256.New, v.Secret)
	mac.Write(payload)
	expected := mac.Sum(nil)
	if !hmac.Equal(expected, signature) {
		return identity.Profile{}, "", protocol.NewForwardingError("Invalid proxy forwarding", errHMACMismatch)
	}

	profile, addr, err := decodeVelocityPayload(payload)
	if err != nil {
		return identity.Profile{}, "", protocol.NewForwardingError("Invalid proxy forwarding", err)
	}
	return profile, addr, nil
}

func decodeVelocityPayload(payload []byte) (identity.Profile, string, error) {
	buf := wire.NewReader(payload)

	version, err := buf.ReadVarInt()
	if err != nil {
		return identity.Profile{}, "", fmt.Errorf("read version: %w", err)
	}
	if !isSupportedVelocityVersion(int32(version)) {
		return identity.Profile{}, "", fmt.Errorf("unsupported forwarding version %d", version)
	}

	addr, err := buf.ReadString(255)
	if err != nil {
		return identity.Profile{}, "", fmt.Errorf("read address: %w", err)
	}

	rawUUID, err := buf.ReadUUID()
	if err != nil {
		return identity.Profile{}, "", fmt.Errorf("read uuid: %w", err)
	}

	username, err := buf.ReadString(16)
	if err != nil {
		return identity.Profile{}, "", fmt.Errorf("read username: %w", err)
	}

	propCount, err := buf.ReadVarInt()
	if err != nil {
		return identity.Profile{}, "", fmt.Errorf("read property count: %w", err)
	}
	props := make([]identity.Property, propCount)
	for i := range props {
		name, err := buf.ReadString(32767)
		if err != nil {
			return identity.Profile{}, "", fmt.Errorf("read property %d name: %w", i, err)
		}
		value, err := buf.ReadString(32767)
		if err != nil {
			return identity.Profile{}, "", fmt.Errorf("read property %d value: %w", i, err)
		}
		hasSig, err := buf.ReadBool()
		if err != nil {
			return identity.Profile{}, "", fmt.Errorf("read property %d signature flag: %w", i, err)
		}
		var sig string
		if hasSig {
			s, err := buf.ReadString(1024)
			if err != nil {
				return identity.Profile{}, "", fmt.Errorf("read property %d signature: %w", i, err)
			}
			sig = string(s)
		}
		props[i] = identity.Property{Name: string(name), Value: string(value), Signature: sig, Signed: bool(hasSig)}
	}

	id := uuid.UUID(rawUUID)
	return identity.NewProfile(string(username), id, props), string(addr), nil
}

func isSupportedVelocityVersion(v int32) bool {
	for _, supported := range VelocitySupportedVersions {
		if v == supported {
			return true
		}
	}
	return false
}
