// Package identity resolves the game profile (username, UUID, signed
// textures) a connecting client is assigned, by whichever of the three
// means spec.md 4.7/4.11 describes: a Velocity-forwarded profile, a
// BungeeCord-forwarded profile, or an offline UUID derived from the
// username alone.
package identity

import (
	"crypto/md5"

	"github.com/google/uuid"

	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// Property is a single signed or unsigned game-profile property (textures
// being the one this server ever cares about).
type Property struct {
	Name      string
	Value     string
	Signature string
	Signed    bool
}

// Profile is the resolved identity of a connected player: a truncated
// username, a UUID, and zero or more profile properties.
type Profile struct {
	Username   string
	UUID       uuid.UUID
	Properties []Property
}

// maxUsernameLen is the wire limit on a Java Edition username.
const maxUsernameLen = 16

// NewOfflineProfile derives a profile for username using no forwarding:
// the UUID is UUIDv3 (MD5) of "OfflinePlayer:<username>", matching the
// vanilla server's own `UUID.nameUUIDFromBytes` fallback (spec.md 4.7).
func NewOfflineProfile(username string) Profile {
	username = truncate(username)
	h := md5.Sum([]byte("OfflinePlayer:" + username))
	h[6] = (h[6] & 0x0f) | 0x30
	h[8] = (h[8] & 0x3f) | 0x80
	id := uuid.UUID(h)
	return Profile{Username: username, UUID: id}
}

// NewProfile builds a profile from an already-known UUID (the client
// supplied one in Hello, or a forwarding scheme resolved one).
func NewProfile(username string, id uuid.UUID, props []Property) Profile {
	return Profile{Username: truncate(username), UUID: id, Properties: props}
}

func truncate(username string) string {
	if len(username) > maxUsernameLen {
		return username[:maxUsernameLen]
	}
	return username
}

// ToWire converts the profile to the wire.GameProfile shape LoginSuccess
// (and login_finished/game_profile) carries.
func (p Profile) ToWire() wire.GameProfile {
	// google/uuid.UUID and wire.UUID are both plain [16]byte arrays in the
	// same big-endian byte order, so this never fails.
	wireUUID, _ := wire.UUIDFromBytes(p.UUID[:])
	props := make(wire.PrefixedArray[wire.ProfileProperty], len(p.Properties))
	for i, prop := range p.Properties {
		var sig wire.PrefixedOptional[wire.String]
		if prop.Signed {
			sig = wire.Some(wire.String(prop.Signature))
		} else {
			sig = wire.None[wire.String]()
		}
		props[i] = wire.ProfileProperty{
			Name:      wire.String(prop.Name),
			Value:     wire.String(prop.Value),
			Signature: sig,
		}
	}
	return wire.GameProfile{
		UUID:       wireUUID,
		Username:   wire.String(p.Username),
		Properties: props,
	}
}

// TexturesProperty returns the "textures" property if present.
func (p Profile) TexturesProperty() (Property, bool) {
	for _, prop := range p.Properties {
		if prop.Name == "textures" {
			return prop, true
		}
	}
	return Property{}, false
}
