package server

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-mclib/limbo/internal/assets"
	"github.com/go-mclib/limbo/internal/blocks"
	"github.com/go-mclib/limbo/internal/config"
	"github.com/go-mclib/limbo/internal/forwarding"
	"github.com/go-mclib/limbo/internal/nbt"
	"github.com/go-mclib/limbo/internal/packets"
	protocol "github.com/go-mclib/limbo/internal/protocol"
	"github.com/go-mclib/limbo/internal/registry"
	"github.com/go-mclib/limbo/internal/world"
)

// brand is the plugin-message payload advertised to every client right
// after Configuration starts (spec.md 4.8).
const brand = "limbo"

// NewSharedState loads every startup asset this server needs (spec.md
// section 6) and assembles the read-only Shared value every accepted
// session is handed: the packet-id tables and block registry for every
// supported protocol version, the parsed registry NBT for Configuration,
// the world/schematic, and the two forwarding validators. Everything here
// is built once and never mutated afterward, except the OnlinePlayers
// counter, which sessions update atomically (spec.md 5).
func NewSharedState(cfg *config.Config, loader *assets.Loader, logger *zap.Logger) (*Shared, error) {
	tables := registry.NewVersionedTables()
	reg := blocks.NewRegistry()
	mappings := make(map[int32]*blocks.ReportMapping, len(protocol.All()))
	registryData := make(map[int32]map[string]nbt.Tag, len(protocol.All()))

	for _, v := range protocol.All() {
		reportBytes, err := loader.PacketReport(v.Number)
		if err != nil {
			return nil, err
		}
		table, err := registry.ParsePacketReport(reportBytes)
		if err != nil {
			return nil, err
		}
		tables.Add(v.Number, table)

		blocksBytes, err := loader.BlocksReport(v.Number)
		if err != nil {
			return nil, err
		}
		names, err := blocks.ParseBlocksReport(blocksBytes)
		if err != nil {
			return nil, err
		}
		mappings[v.Number] = blocks.NewReportMapping(reg, names)

		perRegistry := make(map[string]nbt.Tag, len(packets.RegistryNames))
		for _, name := range packets.RegistryNames {
			raw, err := loader.RegistryData(v.Number, name)
			if err != nil {
				return nil, err
			}
			tag, _, err := nbt.Decode(raw, false)
			if err != nil {
				return nil, protocol.NewAssetError(fmt.Sprintf("registries/%d/%s.nbt", v.Number, name), err)
			}
			perRegistry[name] = tag
		}
		registryData[v.Number] = perRegistry
	}

	w := world.NewWorld(reg, defaultBiomeID)
	if cfg.World.SchematicFile != "" {
		raw, err := loader.Schematic(cfg.World.SchematicFile)
		if err != nil {
			return nil, err
		}
		schem, err := world.ParseSchematic(raw, reg)
		if err != nil {
			return nil, err
		}
		w.Paste = &world.Paste{Schematic: schem}
	}

	var velocity *forwarding.Velocity
	if cfg.Forwarding.Velocity.Enabled {
		velocity = &forwarding.Velocity{Secret: []byte(cfg.Forwarding.Velocity.Secret)}
	}
	var bungee *forwarding.BungeeCord
	if cfg.Forwarding.BungeeCord.Enabled {
		bungee = &forwarding.BungeeCord{
			GuardEnabled: cfg.Forwarding.BungeeCord.BungeeGuard,
			Tokens:       cfg.Forwarding.BungeeCord.Tokens,
		}
	}

	return &Shared{
		Config:          cfg,
		Packets:         tables,
		Registry:        reg,
		Mappings:        mappings,
		RegistryData:    registryData,
		World:           w,
		Velocity:        velocity,
		BungeeGuard:     bungee,
		Brand:           brand,
		GameVersionName: protocol.Latest().Name,
		Logger:          logger,
	}, nil
}

// defaultBiomeID is the biome internal id reserved for plains in the
// registry's own seeding order; a void limbo dimension shows this biome in
// the F3 debug screen but never renders anything from it.
const defaultBiomeID int32 = 0
