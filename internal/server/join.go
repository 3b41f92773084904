package server

import (
	"sync/atomic"

	"github.com/go-mclib/limbo/internal/blocks"
	"github.com/go-mclib/limbo/internal/packets"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// sendRegistries emits the Configuration-state registry payload for this
// session's protocol version: one RegistryDataPacket per registry from
// 1.20.5 onward, or a single monolithic codec packet before it (spec.md
// 4.3/4.8).
func (s *Session) sendRegistries() error {
	perRegistry, ok := s.shared.RegistryData[s.protocolVersion]
	if !ok {
		return protocol.NewAssetError("registry data", errNoAssetForVersion(s.protocolVersion))
	}

	if protocol.UsesPerRegistryData(s.protocolVersion) {
		for _, name := range packets.RegistryNames {
			entries, err := packets.BuildRegistryEntries(perRegistry[name])
			if err != nil {
				return err
			}
			pkt := &packets.RegistryData{RegistryID: wire.Identifier("minecraft:" + name), Entries: entries}
			if err := s.send(pkt); err != nil {
				return err
			}
		}
		return nil
	}

	codec := packets.BuildMonolithicCodec(perRegistry)
	return s.send(&packets.MonolithicRegistryData{Codec: codec})
}

type errNoAssetForVersion int32

func (e errNoAssetForVersion) Error() string { return "no asset loaded for this protocol version" }

// enterPlay sends the fixed Play-state join sequence (spec.md 4.8): the
// Login(play) packet, spawn position, the view-distance chunk grid, the
// start-waiting-for-chunks game event, the initial teleport, and optional
// tab-list text. It then starts the keep-alive loop that runs for the rest
// of the session's life.
func (s *Session) enterPlay() error {
	cfg := s.shared.Config
	mapping, ok := s.shared.Mappings[s.protocolVersion]
	if !ok {
		return protocol.NewAssetError("block mapping", errNoAssetForVersion(s.protocolVersion))
	}

	dim := cfg.DimensionIdentifier()
	join := &packets.JoinGame{
		EntityID:            1,
		IsHardcore:          false,
		DimensionNames:      []wire.Identifier{wire.Identifier(dim)},
		MaxPlayers:          wire.VarInt(cfg.Status.MaxPlayers),
		ViewDistance:        wire.VarInt(cfg.ViewDistance),
		SimulationDistance:  wire.VarInt(cfg.ViewDistance),
		ReducedDebugInfo:    false,
		EnableRespawnScreen: true,
		DimensionType:       wire.Identifier(dim),
		DimensionName:       wire.Identifier(dim),
		HashedSeed:          0,
		GameMode:            wire.Uint8(cfg.GameModeID()),
		PreviousGameMode:    -1,
		IsDebug:             false,
		IsFlat:              true,
	}
	if err := s.send(join); err != nil {
		return err
	}

	spawnY := defaultSpawnHeight(s.protocolVersion)
	spawnPos := &packets.SetDefaultSpawnPosition{Location: wire.NewPosition(0, int(spawnY), 0), Angle: 0}
	if err := s.send(spawnPos); err != nil {
		return err
	}

	if err := s.sendInitialChunks(mapping); err != nil {
		return err
	}

	if s.protocolVersion >= 765 {
		if err := s.send(&packets.GameEvent{Event: packets.GameEventStartWaitingForChunks, Value: 0}); err != nil {
			return err
		}
	}

	if err := s.send(&packets.SynchronizePlayerPosition{
		X: 0, Y: float64(spawnY), Z: 0, Yaw: 0, Pitch: 0, Flags: 0, TeleportID: 0,
	}); err != nil {
		return err
	}

	if cfg.TabList.Enabled {
		tl := &packets.TabList{
			Header: wire.TextComponent{Text: cfg.TabList.Header},
			Footer: wire.TextComponent{Text: cfg.TabList.Footer},
		}
		if err := s.send(tl); err != nil {
			return err
		}
	}

	atomic.AddInt64(&s.shared.OnlinePlayers, 1)
	s.countedOnline = true

	go s.keepAliveLoop()
	return nil
}

// sendInitialChunks streams the view-distance square of chunks centered on
// the origin (spec.md 4.9/C9): every session shares the same World, but
// each gets its own per-version block-id remap via mapping.
func (s *Session) sendInitialChunks(mapping *blocks.ReportMapping) error {
	vd := int32(s.shared.Config.ViewDistance)
	if err := s.send(&packets.SetChunkCacheCenter{ChunkX: 0, ChunkZ: 0}); err != nil {
		return err
	}
	for x := -vd; x <= vd; x++ {
		for z := -vd; z <= vd; z++ {
			chunk, light, err := s.shared.World.EmitChunk(x, z, s.protocolVersion, mapping)
			if err != nil {
				return err
			}
			pkt := &packets.LevelChunkWithLight{ChunkX: x, ChunkZ: z, Chunk: chunk, Light: light}
			if err := s.send(pkt); err != nil {
				return err
			}
		}
	}
	return nil
}

// defaultSpawnHeight picks a comfortable spawn height above an empty void
// dimension's floor; both world heights this server supports (-64..320 and
// 0..256) comfortably fit a fixed height above the lowest section.
func defaultSpawnHeight(_ int32) float64 {
	return defaultSpawnY
}
