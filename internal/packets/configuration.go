package packets

import (
	"github.com/go-mclib/limbo/internal/nbt"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// PluginMessage (clientbound, configuration state) is used once at the top
// of Configuration to announce the server's brand, matching the teacher's
// own plugin-message framing (channel + raw payload bytes).
type PluginMessageConfiguration struct {
	Channel wire.Identifier
	Data    wire.ByteArray
}

func (*PluginMessageConfiguration) Name() string          { return "configuration/clientbound/minecraft:custom_payload" }
func (*PluginMessageConfiguration) State() protocol.State { return protocol.StateConfiguration }
func (*PluginMessageConfiguration) Bound() protocol.Bound { return protocol.S2C }

func (p *PluginMessageConfiguration) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = buf.ReadRemaining()
	return err
}

func (p *PluginMessageConfiguration) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	return buf.WriteFixedByteArray(p.Data)
}

// NewBrandMessage builds the "minecraft:brand" plugin message every session
// receives right after entering Configuration.
func NewBrandMessage(brand string) *PluginMessageConfiguration {
	return &PluginMessageConfiguration{
		Channel: "minecraft:brand",
		Data:    wire.ByteArray(mustEncodeBrand(brand)),
	}
}

func mustEncodeBrand(brand string) []byte {
	buf := wire.NewWriter()
	_ = buf.WriteString(wire.String(brand))
	return buf.Bytes()
}

// KnownPack is one entry of the known-resource-packs handshake (1.20.5+):
// server and client exchange the set of data packs each already has, so
// the server can skip re-sending registry entries the client already
// knows. This limbo server always claims just "minecraft:core".
type KnownPack struct {
	Namespace wire.String
	ID        wire.String
	Version   wire.String
}

func (k *KnownPack) decode(buf *wire.PacketBuffer) error {
	var err error
	if k.Namespace, err = buf.ReadString(32767); err != nil {
		return err
	}
	if k.ID, err = buf.ReadString(32767); err != nil {
		return err
	}
	k.Version, err = buf.ReadString(32767)
	return err
}

func (k *KnownPack) encode(buf *wire.PacketBuffer) error {
	if err := buf.WriteString(k.Namespace); err != nil {
		return err
	}
	if err := buf.WriteString(k.ID); err != nil {
		return err
	}
	return buf.WriteString(k.Version)
}

// ClientBoundKnownPacks is sent by the server listing the packs it has.
type ClientBoundKnownPacks struct {
	Packs []KnownPack
}

func (*ClientBoundKnownPacks) Name() string          { return "configuration/clientbound/minecraft:select_known_packs" }
func (*ClientBoundKnownPacks) State() protocol.State { return protocol.StateConfiguration }
func (*ClientBoundKnownPacks) Bound() protocol.Bound { return protocol.S2C }

func (p *ClientBoundKnownPacks) Read(buf *wire.PacketBuffer, _ int32) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Packs = make([]KnownPack, n)
	for i := range p.Packs {
		if err := p.Packs[i].decode(buf); err != nil {
			return err
		}
	}
	return nil
}

func (p *ClientBoundKnownPacks) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(wire.VarInt(len(p.Packs))); err != nil {
		return err
	}
	for i := range p.Packs {
		if err := p.Packs[i].encode(buf); err != nil {
			return err
		}
	}
	return nil
}

// ServerBoundKnownPacks is the client's answering list. The server accepts
// and ignores its contents (spec.md 4.8: "presence is enough").
type ServerBoundKnownPacks struct {
	Packs []KnownPack
}

func (*ServerBoundKnownPacks) Name() string          { return "configuration/serverbound/minecraft:select_known_packs" }
func (*ServerBoundKnownPacks) State() protocol.State { return protocol.StateConfiguration }
func (*ServerBoundKnownPacks) Bound() protocol.Bound { return protocol.C2S }

func (p *ServerBoundKnownPacks) Read(buf *wire.PacketBuffer, _ int32) error {
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Packs = make([]KnownPack, n)
	for i := range p.Packs {
		if err := p.Packs[i].decode(buf); err != nil {
			return err
		}
	}
	return nil
}

func (p *ServerBoundKnownPacks) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(wire.VarInt(len(p.Packs))); err != nil {
		return err
	}
	for i := range p.Packs {
		if err := p.Packs[i].encode(buf); err != nil {
			return err
		}
	}
	return nil
}

// RegistryEntry is one named NBT blob within a registry, or an entry with
// no data at all (the client is expected to already know its contents from
// a known pack).
type RegistryEntry struct {
	ID      wire.Identifier
	HasData bool
	Data    nbt.Tag
}

// RegistryData is the clientbound packet that seeds a single registry's
// entries into the client (protocol >= 766, "per-registry" form per
// spec.md 4.3/4.8). Before 766 the whole registry codec is sent as one
// monolithic NBT blob instead; see MonolithicRegistryData below.
type RegistryData struct {
	RegistryID wire.Identifier
	Entries    []RegistryEntry
}

func (*RegistryData) Name() string          { return "configuration/clientbound/minecraft:registry_data" }
func (*RegistryData) State() protocol.State { return protocol.StateConfiguration }
func (*RegistryData) Bound() protocol.Bound { return protocol.S2C }

func (p *RegistryData) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.RegistryID, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Entries = make([]RegistryEntry, n)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.ID, err = buf.ReadIdentifier(); err != nil {
			return err
		}
		hasData, err := buf.ReadBool()
		if err != nil {
			return err
		}
		e.HasData = bool(hasData)
		if e.HasData {
			if e.Data, err = buf.ReadNBT(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RegistryData) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteIdentifier(p.RegistryID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(wire.VarInt(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := buf.WriteIdentifier(e.ID); err != nil {
			return err
		}
		if err := buf.WriteBool(wire.Boolean(e.HasData)); err != nil {
			return err
		}
		if e.HasData {
			if err := buf.WriteNBT(e.Data); err != nil {
				return err
			}
		}
	}
	return nil
}

// MonolithicRegistryData is the pre-766 single-packet form of the whole
// registry codec, carried as one NBT compound keyed by registry name.
type MonolithicRegistryData struct {
	Codec nbt.Tag
}

func (*MonolithicRegistryData) Name() string          { return "configuration/clientbound/minecraft:registry_data" }
func (*MonolithicRegistryData) State() protocol.State { return protocol.StateConfiguration }
func (*MonolithicRegistryData) Bound() protocol.Bound { return protocol.S2C }

func (p *MonolithicRegistryData) Read(buf *wire.PacketBuffer, _ int32) error {
	tag, err := buf.ReadNBT()
	p.Codec = tag
	return err
}

func (p *MonolithicRegistryData) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteNBT(p.Codec)
}

// FinishConfiguration (both directions) has no fields; sent by the server
// to announce it's done, echoed by the client to confirm the Play
// transition.
type FinishConfigurationClientbound struct{}

func (*FinishConfigurationClientbound) Name() string          { return "configuration/clientbound/minecraft:finish_configuration" }
func (*FinishConfigurationClientbound) State() protocol.State { return protocol.StateConfiguration }
func (*FinishConfigurationClientbound) Bound() protocol.Bound { return protocol.S2C }
func (*FinishConfigurationClientbound) Read(_ *wire.PacketBuffer, _ int32) error  { return nil }
func (*FinishConfigurationClientbound) Write(_ *wire.PacketBuffer, _ int32) error { return nil }

type FinishConfigurationServerbound struct{}

func (*FinishConfigurationServerbound) Name() string          { return "configuration/serverbound/minecraft:finish_configuration" }
func (*FinishConfigurationServerbound) State() protocol.State { return protocol.StateConfiguration }
func (*FinishConfigurationServerbound) Bound() protocol.Bound { return protocol.C2S }
func (*FinishConfigurationServerbound) Read(_ *wire.PacketBuffer, _ int32) error  { return nil }
func (*FinishConfigurationServerbound) Write(_ *wire.PacketBuffer, _ int32) error { return nil }

// DisconnectConfiguration carries the same String-vs-NBT reason split as
// LoginDisconnect/DisconnectPlay, but in the Configuration state (spec.md
// 4.7: "sends the appropriate state-specific disconnect packet").
type DisconnectConfiguration struct {
	Reason wire.TextComponent
}

func (*DisconnectConfiguration) Name() string          { return "configuration/clientbound/minecraft:disconnect" }
func (*DisconnectConfiguration) State() protocol.State { return protocol.StateConfiguration }
func (*DisconnectConfiguration) Bound() protocol.Bound { return protocol.S2C }

func (p *DisconnectConfiguration) Read(buf *wire.PacketBuffer, version int32) error {
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

func (p *DisconnectConfiguration) Write(buf *wire.PacketBuffer, version int32) error {
	if protocol.UsesStringDisconnectReason(version) {
		return buf.WriteString(wire.String(reasonToJSON(p.Reason)))
	}
	return buf.WriteTextComponent(p.Reason)
}

// ClientInformation is accepted and ignored; the server has no client
// settings (locale, view distance, skin parts, …) to react to.
type ClientInformation struct {
	Raw wire.ByteArray
}

func (*ClientInformation) Name() string          { return "configuration/serverbound/minecraft:client_information" }
func (*ClientInformation) State() protocol.State { return protocol.StateConfiguration }
func (*ClientInformation) Bound() protocol.Bound { return protocol.C2S }

func (p *ClientInformation) Read(buf *wire.PacketBuffer, _ int32) error {
	raw, err := buf.ReadRemaining()
	p.Raw = raw
	return err
}

func (p *ClientInformation) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteFixedByteArray(p.Raw)
}

// PluginMessageServerbound (configuration state) is accepted and ignored.
type PluginMessageServerbound struct {
	Channel wire.Identifier
	Data    wire.ByteArray
}

func (*PluginMessageServerbound) Name() string          { return "configuration/serverbound/minecraft:custom_payload" }
func (*PluginMessageServerbound) State() protocol.State { return protocol.StateConfiguration }
func (*PluginMessageServerbound) Bound() protocol.Bound { return protocol.C2S }

func (p *PluginMessageServerbound) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = buf.ReadRemaining()
	return err
}

func (p *PluginMessageServerbound) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	return buf.WriteFixedByteArray(p.Data)
}

// RegistryNames lists every registry a limbo session needs seeded during
// Configuration, in the order the teacher's asset pipeline emits them
// (spec.md 4.8's per-registry enumeration).
var RegistryNames = []string{
	"dimension_type",
	"worldgen/biome",
	"wolf_variant",
	"painting_variant",
	"damage_type",
	"chat_type",
	"trim_pattern",
	"trim_material",
}

// BuildRegistryEntries converts one registry's loaded NBT asset (a
// TAG_Compound with a "value" TAG_List of {name, element} compounds,
// matching vanilla's data-generator registry dump) into the RegistryEntry
// slice RegistryData.Entries expects.
func BuildRegistryEntries(tag nbt.Tag) ([]RegistryEntry, error) {
	root, ok := tag.(nbt.Compound)
	if !ok {
		return nil, protocol.NewAssetError("registry data", errRegistryShape{"root is not a compound"})
	}
	list, ok := root["value"].(nbt.List)
	if !ok {
		return nil, protocol.NewAssetError("registry data", errRegistryShape{"missing value list"})
	}
	entries := make([]RegistryEntry, 0, len(list.Elements))
	for _, el := range list.Elements {
		entryCompound, ok := el.(nbt.Compound)
		if !ok {
			continue
		}
		name, _ := entryCompound["name"].(nbt.String)
		element, hasElement := entryCompound["element"].(nbt.Compound)
		entries = append(entries, RegistryEntry{
			ID:      wire.Identifier(name),
			HasData: hasElement,
			Data:    element,
		})
	}
	return entries, nil
}

// BuildMonolithicCodec merges every named registry's entries into the
// single compound pre-766 clients expect as one RegistryDataPacket body,
// keyed by full registry identifier ("minecraft:dimension_type", ...).
func BuildMonolithicCodec(perRegistry map[string]nbt.Tag) nbt.Compound {
	codec := make(nbt.Compound, len(perRegistry))
	for name, tag := range perRegistry {
		codec["minecraft:"+name] = tag
	}
	return codec
}

type errRegistryShape struct{ what string }

func (e errRegistryShape) Error() string { return e.what }
