package forwarding

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/go-mclib/limbo/internal/identity"
	protocol "github.com/go-mclib/limbo/internal/protocol"
)

// BungeeCord validates and decodes a BungeeCord legacy-forwarded hostname
// (spec.md 4.11).
type BungeeCord struct {
	GuardEnabled bool
	Tokens       []string
}

type bungeeProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParseHostname splits the handshake's hostname field on NUL, recognizing
// the forwarded form `host\0forwardedIp\0uuidNoDashes\0propertiesJson`. It
// returns ok=false if hostname does not look forwarded (plain `host` or
// `host\0ip`, the un-proxied shapes), in which case the caller should fall
// back to offline UUID derivation.
func (b *BungeeCord) ParseHostname(hostname, username string) (profile identity.Profile, ok bool, err error) {
	parts := strings.Split(hostname, "\x00")
	if len(parts) != 3 && len(parts) != 4 {
		return identity.Profile{}, false, nil
	}

	rawUUID := parts[2]
	if !looksLikeHexUUID(rawUUID) {
		return identity.Profile{}, false, nil
	}
	id, err := uuid.Parse(insertUUIDDashes(rawUUID))
	if err != nil {
		return identity.Profile{}, false, protocol.NewForwardingError("Invalid forwarded identity", fmt.Errorf("parse forwarded uuid: %w", err))
	}

	var props []bungeeProperty
	if len(parts) == 4 && parts[3] != "" {
		if err := json.Unmarshal([]byte(parts[3]), &props); err != nil {
			return identity.Profile{}, false, protocol.NewForwardingError("Invalid forwarded identity", fmt.Errorf("parse forwarded properties: %w", err))
		}
	}

	if b.GuardEnabled {
		if !b.hasValidGuardToken(props) {
			return identity.Profile{}, false, protocol.NewForwardingError("Invalid BungeeGuard token", fmt.Errorf("missing or disallowed bungeeguard-token"))
		}
	}

	identProps := make([]identity.Property, 0, len(props))
	for _, p := range props {
		identProps = append(identProps, identity.Property{Name: p.Name, Value: p.Value})
	}

	return identity.NewProfile(username, id, identProps), true, nil
}

func (b *BungeeCord) hasValidGuardToken(props []bungeeProperty) bool {
	for _, p := range props {
		if p.Name != "bungeeguard-token" {
			continue
		}
		for _, allowed := range b.Tokens {
			if p.Value == allowed {
				return true
			}
		}
	}
	return false
}

func looksLikeHexUUID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}

func insertUUIDDashes(s string) string {
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}
