package packets

import (
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// JoinGame is the clientbound "Login (play)" packet that formally enters
// the client into the world. Nearly every field past EntityID was added in
// some later release (spec.md 4.8); each is gated by the protocol range it
// was introduced in.
type JoinGame struct {
	EntityID            wire.Int32
	IsHardcore          wire.Boolean
	DimensionNames      []wire.Identifier
	MaxPlayers          wire.VarInt
	ViewDistance        wire.VarInt
	SimulationDistance  wire.VarInt // >= 757 (1.18)
	ReducedDebugInfo    wire.Boolean
	EnableRespawnScreen wire.Boolean // >= 573 (1.15)
	LimitedCrafting     wire.Boolean // >= 764 (1.20.2)
	DimensionType       wire.Identifier
	DimensionName       wire.Identifier
	HashedSeed          wire.Int64 // >= 573 (1.15)
	GameMode            wire.Uint8
	PreviousGameMode    wire.Int8 // >= 735 (1.16)
	IsDebug             wire.Boolean
	IsFlat              wire.Boolean
	HasDeathLocation    wire.Boolean // >= 759 (1.19)
	DeathLocation       wire.GlobalPos
	PortalCooldown      wire.VarInt // >= 763 (1.20)
	SeaLevel            wire.VarInt // >= 766 (1.20.5)
	EnforcesSecureChat  wire.Boolean // >= 768 (1.21.2)
}

func (*JoinGame) Name() string          { return "play/clientbound/minecraft:login" }
func (*JoinGame) State() protocol.State { return protocol.StatePlay }
func (*JoinGame) Bound() protocol.Bound { return protocol.S2C }

func (p *JoinGame) Read(buf *wire.PacketBuffer, version int32) error {
	var err error
	if p.EntityID, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.IsHardcore, err = buf.ReadBool(); err != nil {
		return err
	}
	n, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.DimensionNames = make([]wire.Identifier, n)
	for i := range p.DimensionNames {
		if p.DimensionNames[i], err = buf.ReadIdentifier(); err != nil {
			return err
		}
	}
	if p.MaxPlayers, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if version >= 757 {
		if p.SimulationDistance, err = buf.ReadVarInt(); err != nil {
			return err
		}
	}
	if p.ReducedDebugInfo, err = buf.ReadBool(); err != nil {
		return err
	}
	if version >= 573 {
		if p.EnableRespawnScreen, err = buf.ReadBool(); err != nil {
			return err
		}
	}
	if version >= 764 {
		if p.LimitedCrafting, err = buf.ReadBool(); err != nil {
			return err
		}
	}
	if p.DimensionType, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	if p.DimensionName, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	if version >= 573 {
		if p.HashedSeed, err = buf.ReadInt64(); err != nil {
			return err
		}
	}
	if p.GameMode, err = buf.ReadUint8(); err != nil {
		return err
	}
	if version >= 735 {
		if p.PreviousGameMode, err = buf.ReadInt8(); err != nil {
			return err
		}
	}
	if p.IsDebug, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsFlat, err = buf.ReadBool(); err != nil {
		return err
	}
	if version >= 759 {
		if p.HasDeathLocation, err = buf.ReadBool(); err != nil {
			return err
		}
		if p.HasDeathLocation {
			if p.DeathLocation, err = wire.DecodeGlobalPos(buf.Reader()); err != nil {
				return err
			}
		}
	}
	if version >= 763 {
		if p.PortalCooldown, err = buf.ReadVarInt(); err != nil {
			return err
		}
	}
	if version >= 766 {
		if p.SeaLevel, err = buf.ReadVarInt(); err != nil {
			return err
		}
	}
	if version >= 768 {
		if p.EnforcesSecureChat, err = buf.ReadBool(); err != nil {
			return err
		}
	}
	return nil
}

func (p *JoinGame) Write(buf *wire.PacketBuffer, version int32) error {
	if err := buf.WriteInt32(p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsHardcore); err != nil {
		return err
	}
	if err := buf.WriteVarInt(wire.VarInt(len(p.DimensionNames))); err != nil {
		return err
	}
	for _, d := range p.DimensionNames {
		if err := buf.WriteIdentifier(d); err != nil {
			return err
		}
	}
	if err := buf.WriteVarInt(p.MaxPlayers); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ViewDistance); err != nil {
		return err
	}
	if version >= 757 {
		if err := buf.WriteVarInt(p.SimulationDistance); err != nil {
			return err
		}
	}
	if err := buf.WriteBool(p.ReducedDebugInfo); err != nil {
		return err
	}
	if version >= 573 {
		if err := buf.WriteBool(p.EnableRespawnScreen); err != nil {
			return err
		}
	}
	if version >= 764 {
		if err := buf.WriteBool(p.LimitedCrafting); err != nil {
			return err
		}
	}
	if err := buf.WriteIdentifier(p.DimensionType); err != nil {
		return err
	}
	if err := buf.WriteIdentifier(p.DimensionName); err != nil {
		return err
	}
	if version >= 573 {
		if err := buf.WriteInt64(p.HashedSeed); err != nil {
			return err
		}
	}
	if err := buf.WriteUint8(p.GameMode); err != nil {
		return err
	}
	if version >= 735 {
		if err := buf.WriteInt8(p.PreviousGameMode); err != nil {
			return err
		}
	}
	if err := buf.WriteBool(p.IsDebug); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsFlat); err != nil {
		return err
	}
	if version >= 759 {
		if err := buf.WriteBool(p.HasDeathLocation); err != nil {
			return err
		}
		if p.HasDeathLocation {
			if err := p.DeathLocation.Encode(buf.Writer()); err != nil {
				return err
			}
		}
	}
	if version >= 763 {
		if err := buf.WriteVarInt(p.PortalCooldown); err != nil {
			return err
		}
	}
	if version >= 766 {
		if err := buf.WriteVarInt(p.SeaLevel); err != nil {
			return err
		}
	}
	if version >= 768 {
		if err := buf.WriteBool(p.EnforcesSecureChat); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaultSpawnPosition announces the world's spawn point and angle.
type SetDefaultSpawnPosition struct {
	Location wire.Position
	Angle    wire.Float32
}

func (*SetDefaultSpawnPosition) Name() string          { return "play/clientbound/minecraft:set_default_spawn_position" }
func (*SetDefaultSpawnPosition) State() protocol.State { return protocol.StatePlay }
func (*SetDefaultSpawnPosition) Bound() protocol.Bound { return protocol.S2C }

func (p *SetDefaultSpawnPosition) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Location, err = buf.ReadPosition(); err != nil {
		return err
	}
	p.Angle, err = buf.ReadFloat32()
	return err
}

func (p *SetDefaultSpawnPosition) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WritePosition(p.Location); err != nil {
		return err
	}
	return buf.WriteFloat32(p.Angle)
}

// LevelChunkWithLight bundles a chunk's block/biome data with its lighting,
// exactly as internal/world's chunk emitter (C9) produces it.
type LevelChunkWithLight struct {
	ChunkX int32
	ChunkZ int32
	Chunk  wire.ChunkData
	Light  wire.LightData
}

func (*LevelChunkWithLight) Name() string          { return "play/clientbound/minecraft:level_chunk_with_light" }
func (*LevelChunkWithLight) State() protocol.State { return protocol.StatePlay }
func (*LevelChunkWithLight) Bound() protocol.Bound { return protocol.S2C }

func (p *LevelChunkWithLight) Read(buf *wire.PacketBuffer, _ int32) error {
	x, err := buf.ReadInt32()
	if err != nil {
		return err
	}
	z, err := buf.ReadInt32()
	if err != nil {
		return err
	}
	p.ChunkX, p.ChunkZ = int32(x), int32(z)
	if p.Chunk, err = buf.ReadChunkData(); err != nil {
		return err
	}
	p.Light, err = buf.ReadLightData()
	return err
}

func (p *LevelChunkWithLight) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteInt32(wire.Int32(p.ChunkX)); err != nil {
		return err
	}
	if err := buf.WriteInt32(wire.Int32(p.ChunkZ)); err != nil {
		return err
	}
	if err := buf.WriteChunkData(p.Chunk); err != nil {
		return err
	}
	return buf.WriteLightData(p.Light)
}

// Game event IDs the server cares about. Full list is much larger; limbo
// only ever sends StartWaitingForChunks.
const GameEventStartWaitingForChunks wire.Uint8 = 13

// GameEvent (1.20.3+, protocol >= 765) tells the client the initial chunk
// batch finished sending, grounded on PicoLimbo's game_event_packet.rs
// (spec.md section 12 supplement).
type GameEvent struct {
	Event wire.Uint8
	Value wire.Float32
}

func (*GameEvent) Name() string          { return "play/clientbound/minecraft:game_event" }
func (*GameEvent) State() protocol.State { return protocol.StatePlay }
func (*GameEvent) Bound() protocol.Bound { return protocol.S2C }

func (p *GameEvent) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Event, err = buf.ReadUint8(); err != nil {
		return err
	}
	p.Value, err = buf.ReadFloat32()
	return err
}

func (p *GameEvent) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteUint8(p.Event); err != nil {
		return err
	}
	return buf.WriteFloat32(p.Value)
}

// SynchronizePlayerPosition snaps the client to an absolute position; the
// session re-sends this whenever a reported Y drops below config.MinY
// (spec.md 4.8, scenario 5) and once as part of the initial join sequence.
type SynchronizePlayerPosition struct {
	X, Y, Z       wire.Float64
	Yaw, Pitch    wire.Float32
	Flags         wire.Uint8
	TeleportID    wire.VarInt
}

func (*SynchronizePlayerPosition) Name() string          { return "play/clientbound/minecraft:player_position" }
func (*SynchronizePlayerPosition) State() protocol.State { return protocol.StatePlay }
func (*SynchronizePlayerPosition) Bound() protocol.Bound { return protocol.S2C }

func (p *SynchronizePlayerPosition) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Yaw, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Pitch, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Flags, err = buf.ReadUint8(); err != nil {
		return err
	}
	p.TeleportID, err = buf.ReadVarInt()
	return err
}

func (p *SynchronizePlayerPosition) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Pitch); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.Flags); err != nil {
		return err
	}
	return buf.WriteVarInt(p.TeleportID)
}

// AcceptTeleportation is the client's ack of a teleport id; the dispatcher
// records it but otherwise no-ops (spec.md 4.8).
type AcceptTeleportation struct {
	TeleportID wire.VarInt
}

func (*AcceptTeleportation) Name() string          { return "play/serverbound/minecraft:accept_teleportation" }
func (*AcceptTeleportation) State() protocol.State { return protocol.StatePlay }
func (*AcceptTeleportation) Bound() protocol.Bound { return protocol.C2S }

func (p *AcceptTeleportation) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.TeleportID, err = buf.ReadVarInt()
	return err
}

func (p *AcceptTeleportation) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteVarInt(p.TeleportID)
}

// MovePlayerPos is the subset of the various "Set Player Position[...]"
// serverbound packets the dispatcher actually inspects: just feet Y, to
// drive the min_y safety teleport (spec.md 4.8, scenario 5). Real clients
// send X/Z/yaw/pitch too; those are decoded to keep the frame aligned but
// otherwise unused by a server that never simulates movement.
type MovePlayerPos struct {
	X, FeetY, Z wire.Float64
	OnGround    wire.Boolean
}

func (*MovePlayerPos) Name() string          { return "play/serverbound/minecraft:move_player_pos" }
func (*MovePlayerPos) State() protocol.State { return protocol.StatePlay }
func (*MovePlayerPos) Bound() protocol.Bound { return protocol.C2S }

func (p *MovePlayerPos) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.FeetY, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *MovePlayerPos) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.FeetY); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	return buf.WriteBool(p.OnGround)
}

// KeepAliveClientbound/KeepAliveServerbound carry a monotonic counter the
// client must echo within the configured timeout (spec.md 4.8).
type KeepAliveClientbound struct {
	ID wire.Int64
}

func (*KeepAliveClientbound) Name() string          { return "play/clientbound/minecraft:keep_alive" }
func (*KeepAliveClientbound) State() protocol.State { return protocol.StatePlay }
func (*KeepAliveClientbound) Bound() protocol.Bound { return protocol.S2C }

func (p *KeepAliveClientbound) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.ID, err = buf.ReadInt64()
	return err
}

func (p *KeepAliveClientbound) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteInt64(p.ID)
}

type KeepAliveServerbound struct {
	ID wire.Int64
}

func (*KeepAliveServerbound) Name() string          { return "play/serverbound/minecraft:keep_alive" }
func (*KeepAliveServerbound) State() protocol.State { return protocol.StatePlay }
func (*KeepAliveServerbound) Bound() protocol.Bound { return protocol.C2S }

func (p *KeepAliveServerbound) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	p.ID, err = buf.ReadInt64()
	return err
}

func (p *KeepAliveServerbound) Write(buf *wire.PacketBuffer, _ int32) error {
	return buf.WriteInt64(p.ID)
}

// DisconnectPlay carries the same String-vs-NBT reason split as
// LoginDisconnect, but in the Play state (spec.md section 12 supplement,
// grounded on PicoLimbo's disconnect_packet.rs).
type DisconnectPlay struct {
	Reason wire.TextComponent
}

func (*DisconnectPlay) Name() string          { return "play/clientbound/minecraft:disconnect" }
func (*DisconnectPlay) State() protocol.State { return protocol.StatePlay }
func (*DisconnectPlay) Bound() protocol.Bound { return protocol.S2C }

func (p *DisconnectPlay) Read(buf *wire.PacketBuffer, version int32) error {
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

func (p *DisconnectPlay) Write(buf *wire.PacketBuffer, version int32) error {
	if protocol.UsesStringDisconnectReason(version) {
		return buf.WriteString(wire.String(reasonToJSON(p.Reason)))
	}
	return buf.WriteTextComponent(p.Reason)
}

// SystemChatMessage is used for the optional min_y warning message
// (spec.md 4.8, scenario 5).
type SystemChatMessage struct {
	Content  wire.TextComponent
	Overlay  wire.Boolean
}

func (*SystemChatMessage) Name() string          { return "play/clientbound/minecraft:system_chat" }
func (*SystemChatMessage) State() protocol.State { return protocol.StatePlay }
func (*SystemChatMessage) Bound() protocol.Bound { return protocol.S2C }

func (p *SystemChatMessage) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Content, err = buf.ReadTextComponent(); err != nil {
		return err
	}
	p.Overlay, err = buf.ReadBool()
	return err
}

func (p *SystemChatMessage) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteTextComponent(p.Content); err != nil {
		return err
	}
	return buf.WriteBool(p.Overlay)
}

// TabList sets the player-list header/footer text (spec.md section 12
// supplement, grounded on PicoLimbo's tab_list_packet.rs).
type TabList struct {
	Header wire.TextComponent
	Footer wire.TextComponent
}

func (*TabList) Name() string          { return "play/clientbound/minecraft:tab_list" }
func (*TabList) State() protocol.State { return protocol.StatePlay }
func (*TabList) Bound() protocol.Bound { return protocol.S2C }

func (p *TabList) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.Header, err = buf.ReadTextComponent(); err != nil {
		return err
	}
	p.Footer, err = buf.ReadTextComponent()
	return err
}

func (p *TabList) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteTextComponent(p.Header); err != nil {
		return err
	}
	return buf.WriteTextComponent(p.Footer)
}

// SetChunkCacheCenter tells the client which chunk the view-distance square
// is centered on (always the origin for this server).
type SetChunkCacheCenter struct {
	ChunkX, ChunkZ wire.VarInt
}

func (*SetChunkCacheCenter) Name() string          { return "play/clientbound/minecraft:set_chunk_cache_center" }
func (*SetChunkCacheCenter) State() protocol.State { return protocol.StatePlay }
func (*SetChunkCacheCenter) Bound() protocol.Bound { return protocol.S2C }

func (p *SetChunkCacheCenter) Read(buf *wire.PacketBuffer, _ int32) error {
	var err error
	if p.ChunkX, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.ChunkZ, err = buf.ReadVarInt()
	return err
}

func (p *SetChunkCacheCenter) Write(buf *wire.PacketBuffer, _ int32) error {
	if err := buf.WriteVarInt(p.ChunkX); err != nil {
		return err
	}
	return buf.WriteVarInt(p.ChunkZ)
}
