package forwarding

import (
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-mclib/limbo/internal/protocol/wire"
)

func buildVelocityPayload(t *testing.T, version int32, addr, username string, id uuid.UUID) []byte {
	t.Helper()
	buf := wire.NewWriter()
	require.NoError(t, buf.WriteVarInt(wire.VarInt(version)))
	require.NoError(t, buf.WriteString(wire.String(addr)))
	require.NoError(t, buf.WriteUUID(wire.UUID(id)))
	require.NoError(t, buf.WriteString(wire.String(username)))
	require.NoError(t, buf.WriteVarInt(0)) // no properties
	return buf.Bytes()
}

func signedVelocityMessage(t *testing.T, secret, payload []byte) []byte {
	t.Helper()
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	sig := mac.Sum(nil)
	return append(sig, payload...)
}

func TestVelocityValidateAccepts(t *testing.T) {
	secret := []byte("shared-secret")
	id := uuid.New()
	payload := buildVelocityPayload(t, 1, "203.0.113.5", "Steve", id)
	data := signedVelocityMessage(t, secret, payload)

	v := &Velocity{Secret: secret}
	profile, addr, err := v.Validate(data)
	require.NoError(t, err)
	require.Equal(t, "203.0.113.5", addr)
	require.Equal(t, "Steve", profile.Username)
	require.Equal(t, id, profile.UUID)
}

func TestVelocityValidateRejectsBitFlippedSignature(t *testing.T) {
	secret := []byte("shared-secret")
	payload := buildVelocityPayload(t, 1, "203.0.113.5", "Steve", uuid.New())
	data := signedVelocityMessage(t, secret, payload)

	data[0] ^= 0x01 // flip a single bit in the HMAC, payload untouched

	v := &Velocity{Secret: secret}
	_, _, err := v.Validate(data)
	require.Error(t, err)
}

func TestVelocityValidateRejectsBitFlippedPayload(t *testing.T) {
	secret := []byte("shared-secret")
	payload := buildVelocityPayload(t, 1, "203.0.113.5", "Steve", uuid.New())
	data := signedVelocityMessage(t, secret, payload)

	data[len(data)-1] ^= 0x01 // flip a bit in the signed payload, signature untouched

	v := &Velocity{Secret: secret}
	_, _, err := v.Validate(data)
	require.Error(t, err)
}

func TestVelocityValidateRejectsWrongSecret(t *testing.T) {
	payload := buildVelocityPayload(t, 1, "203.0.113.5", "Steve", uuid.New())
	data := signedVelocityMessage(t, []byte("real-secret"), payload)

	v := &Velocity{Secret: []byte("wrong-secret")}
	_, _, err := v.Validate(data)
	require.Error(t, err)
}

func TestVelocityValidateRejectsEmptyPayload(t *testing.T) {
	secret := []byte("shared-secret")
	// a correctly-signed, zero-length payload: signature of empty bytes with nothing after it.
	data := signedVelocityMessage(t, secret, nil)

	v := &Velocity{Secret: secret}
	_, _, err := v.Validate(data)
	require.Error(t, err)
}

func TestVelocityValidateRejectsShortData(t *testing.T) {
	v := &Velocity{Secret: []byte("shared-secret")}
	_, _, err := v.Validate([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}
