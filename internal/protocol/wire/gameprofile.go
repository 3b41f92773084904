package wire

import "fmt"

// ProfileProperty is a single signed key/value pair under a game profile,
// usually the "textures" entry carrying a player's skin/cape URLs.
type ProfileProperty struct {
	Name      String
	Value     String
	Signature PrefixedOptional[String]
}

func decodeOptionalString(maxLen int) ElementDecoder[String] {
	return func(b *PacketBuffer) (String, error) { return b.ReadString(maxLen) }
}

func encodeOptionalString(b *PacketBuffer, v String) error { return b.WriteString(v) }

// Decode reads a ProfileProperty from the buffer.
func (p *ProfileProperty) Decode(buf *PacketBuffer) error {
	var err error
	p.Name, err = buf.ReadString(64)
	if err != nil {
		return fmt.Errorf("failed to read property name: %w", err)
	}
	p.Value, err = buf.ReadString(32767)
	if err != nil {
		return fmt.Errorf("failed to read property value: %w", err)
	}
	if err := p.Signature.DecodeWith(buf, decodeOptionalString(1024)); err != nil {
		return fmt.Errorf("failed to read property signature: %w", err)
	}
	return nil
}

// Encode writes a ProfileProperty to the buffer.
func (p *ProfileProperty) Encode(buf *PacketBuffer) error {
	if err := buf.WriteString(p.Name); err != nil {
		return fmt.Errorf("failed to write property name: %w", err)
	}
	if err := buf.WriteString(p.Value); err != nil {
		return fmt.Errorf("failed to write property value: %w", err)
	}
	if err := p.Signature.EncodeWith(buf, encodeOptionalString); err != nil {
		return fmt.Errorf("failed to write property signature: %w", err)
	}
	return nil
}

// GameProfile is a player's identity as carried by LoginSuccess and by
// ResolvableProfile's "complete" variant: a UUID, a username, and whatever
// signed properties (skin, cape) the session's identity resolver attached.
type GameProfile struct {
	UUID       UUID
	Username   String
	Properties PrefixedArray[ProfileProperty]
}

func decodeProfileProperty(b *PacketBuffer) (ProfileProperty, error) {
	var prop ProfileProperty
	err := prop.Decode(b)
	return prop, err
}

func encodeProfileProperty(b *PacketBuffer, v ProfileProperty) error { return v.Encode(b) }

// Decode reads a GameProfile from the buffer.
func (p *GameProfile) Decode(buf *PacketBuffer) error {
	var err error
	p.UUID, err = buf.ReadUUID()
	if err != nil {
		return fmt.Errorf("failed to read profile uuid: %w", err)
	}
	p.Username, err = buf.ReadString(16)
	if err != nil {
		return fmt.Errorf("failed to read profile username: %w", err)
	}
	if err := p.Properties.DecodeWith(buf, decodeProfileProperty); err != nil {
		return fmt.Errorf("failed to read profile properties: %w", err)
	}
	return nil
}

// Encode writes a GameProfile to the buffer.
func (p *GameProfile) Encode(buf *PacketBuffer) error {
	if err := buf.WriteUUID(p.UUID); err != nil {
		return fmt.Errorf("failed to write profile uuid: %w", err)
	}
	if err := buf.WriteString(p.Username); err != nil {
		return fmt.Errorf("failed to write profile username: %w", err)
	}
	if err := p.Properties.EncodeWith(buf, encodeProfileProperty); err != nil {
		return fmt.Errorf("failed to write profile properties: %w", err)
	}
	return nil
}

// ReadGameProfile reads a GameProfile from the buffer.
func (pb *PacketBuffer) ReadGameProfile() (GameProfile, error) {
	var p GameProfile
	err := p.Decode(pb)
	return p, err
}

// WriteGameProfile writes a GameProfile to the buffer.
func (pb *PacketBuffer) WriteGameProfile(p GameProfile) error {
	return p.Encode(pb)
}

// ResolvableProfileKind distinguishes the two shapes a ResolvableProfile
// can carry on the wire.
type ResolvableProfileKind VarInt

const (
	ProfilePartial  ResolvableProfileKind = 0
	ProfileComplete ResolvableProfileKind = 1
)

// ResolvableProfile is a player profile reference that chat/player-info
// packets can send either fully resolved (a GameProfile plus cosmetic
// model overrides) or as a partial stub the client is expected to resolve
// itself against its own session cache.
type ResolvableProfile struct {
	Kind ResolvableProfileKind

	PartialUsername   PrefixedOptional[String]
	PartialUUID       PrefixedOptional[UUID]
	PartialProperties PrefixedOptional[PrefixedArray[ProfileProperty]]
	PartialSignature  PrefixedOptional[String]

	CompleteProfile GameProfile
	BodyModel       PrefixedOptional[Identifier]
	CapeModel       PrefixedOptional[Identifier]
	ElytraModel     PrefixedOptional[Identifier]
	SkinModel       PrefixedOptional[VarInt] // enum: 0=wide, 1=slim
}

// NewPartialProfile creates a partial resolvable profile.
func NewPartialProfile() *ResolvableProfile {
	return &ResolvableProfile{Kind: ProfilePartial}
}

// NewCompleteProfile creates a complete resolvable profile from a game profile.
func NewCompleteProfile(profile GameProfile) *ResolvableProfile {
	return &ResolvableProfile{
		Kind:            ProfileComplete,
		CompleteProfile: profile,
	}
}

func decodeUUID(b *PacketBuffer) (UUID, error)             { return b.ReadUUID() }
func encodeUUID(b *PacketBuffer, v UUID) error              { return b.WriteUUID(v) }
func decodeIdentifier(b *PacketBuffer) (Identifier, error) { return b.ReadIdentifier() }
func encodeIdentifier(b *PacketBuffer, v Identifier) error { return b.WriteIdentifier(v) }
func decodeVarInt(b *PacketBuffer) (VarInt, error)         { return b.ReadVarInt() }
func encodeVarInt(b *PacketBuffer, v VarInt) error         { return b.WriteVarInt(v) }

func decodePropertyArray(b *PacketBuffer) (PrefixedArray[ProfileProperty], error) {
	var props PrefixedArray[ProfileProperty]
	err := props.DecodeWith(b, decodeProfileProperty)
	return props, err
}

func encodePropertyArray(b *PacketBuffer, v PrefixedArray[ProfileProperty]) error {
	return v.EncodeWith(b, encodeProfileProperty)
}

// Decode reads a ResolvableProfile from the buffer.
func (p *ResolvableProfile) Decode(buf *PacketBuffer) error {
	kind, err := buf.ReadVarInt()
	if err != nil {
		return fmt.Errorf("failed to read resolvable profile kind: %w", err)
	}
	p.Kind = ResolvableProfileKind(kind)

	switch p.Kind {
	case ProfilePartial:
		if err := p.PartialUsername.DecodeWith(buf, decodeOptionalString(16)); err != nil {
			return fmt.Errorf("failed to read partial username: %w", err)
		}
		if err := p.PartialUUID.DecodeWith(buf, decodeUUID); err != nil {
			return fmt.Errorf("failed to read partial uuid: %w", err)
		}
		if err := p.PartialProperties.DecodeWith(buf, decodePropertyArray); err != nil {
			return fmt.Errorf("failed to read partial properties: %w", err)
		}
		if err := p.PartialSignature.DecodeWith(buf, decodeOptionalString(1024)); err != nil {
			return fmt.Errorf("failed to read partial signature: %w", err)
		}

	case ProfileComplete:
		if err := p.CompleteProfile.Decode(buf); err != nil {
			return fmt.Errorf("failed to read complete profile: %w", err)
		}
		if err := p.BodyModel.DecodeWith(buf, decodeIdentifier); err != nil {
			return fmt.Errorf("failed to read body model: %w", err)
		}
		if err := p.CapeModel.DecodeWith(buf, decodeIdentifier); err != nil {
			return fmt.Errorf("failed to read cape model: %w", err)
		}
		if err := p.ElytraModel.DecodeWith(buf, decodeIdentifier); err != nil {
			return fmt.Errorf("failed to read elytra model: %w", err)
		}
		if err := p.SkinModel.DecodeWith(buf, decodeVarInt); err != nil {
			return fmt.Errorf("failed to read skin model: %w", err)
		}

	default:
		return fmt.Errorf("unknown resolvable profile kind: %d", p.Kind)
	}
	return nil
}

// Encode writes a ResolvableProfile to the buffer.
func (p *ResolvableProfile) Encode(buf *PacketBuffer) error {
	if err := buf.WriteVarInt(VarInt(p.Kind)); err != nil {
		return fmt.Errorf("failed to write resolvable profile kind: %w", err)
	}

	switch p.Kind {
	case ProfilePartial:
		if err := p.PartialUsername.EncodeWith(buf, encodeOptionalString); err != nil {
			return fmt.Errorf("failed to write partial username: %w", err)
		}
		if err := p.PartialUUID.EncodeWith(buf, encodeUUID); err != nil {
			return fmt.Errorf("failed to write partial uuid: %w", err)
		}
		if err := p.PartialProperties.EncodeWith(buf, encodePropertyArray); err != nil {
			return fmt.Errorf("failed to write partial properties: %w", err)
		}
		if err := p.PartialSignature.EncodeWith(buf, encodeOptionalString); err != nil {
			return fmt.Errorf("failed to write partial signature: %w", err)
		}

	case ProfileComplete:
		if err := p.CompleteProfile.Encode(buf); err != nil {
			return fmt.Errorf("failed to write complete profile: %w", err)
		}
		if err := p.BodyModel.EncodeWith(buf, encodeIdentifier); err != nil {
			return fmt.Errorf("failed to write body model: %w", err)
		}
		if err := p.CapeModel.EncodeWith(buf, encodeIdentifier); err != nil {
			return fmt.Errorf("failed to write cape model: %w", err)
		}
		if err := p.ElytraModel.EncodeWith(buf, encodeIdentifier); err != nil {
			return fmt.Errorf("failed to write elytra model: %w", err)
		}
		if err := p.SkinModel.EncodeWith(buf, encodeVarInt); err != nil {
			return fmt.Errorf("failed to write skin model: %w", err)
		}

	default:
		return fmt.Errorf("unknown resolvable profile kind: %d", p.Kind)
	}
	return nil
}

// ReadResolvableProfile reads a ResolvableProfile from the buffer.
func (pb *PacketBuffer) ReadResolvableProfile() (ResolvableProfile, error) {
	var p ResolvableProfile
	err := p.Decode(pb)
	return p, err
}

// WriteResolvableProfile writes a ResolvableProfile to the buffer.
func (pb *PacketBuffer) WriteResolvableProfile(p ResolvableProfile) error {
	return p.Encode(pb)
}
