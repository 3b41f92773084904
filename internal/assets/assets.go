// Package assets loads the bundled per-version data files the server
// needs before it can accept a connection: packet-id reports, block-state
// reports, dimension/biome registry NBT, the internal block-id mapping,
// and world schematics (spec.md section 6, C5/C6/C9).
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	protocol "github.com/go-mclib/limbo/internal/protocol"
)

const defaultDataDir = "./assets"

// Loader resolves asset paths under a data directory, defaulting to
// defaultDataDir but overridable via the DATA_DIR environment variable or
// an explicit constructor argument (the CLI's --data-dir flag).
type Loader struct {
	root string
}

// NewLoader returns a Loader rooted at dir. An empty dir falls back to the
// DATA_DIR environment variable, then defaultDataDir.
func NewLoader(dir string) *Loader {
	if dir == "" {
		dir = os.Getenv("DATA_DIR")
	}
	if dir == "" {
		dir = defaultDataDir
	}
	return &Loader{root: dir}
}

func (l *Loader) path(parts ...string) string {
	return filepath.Join(append([]string{l.root}, parts...)...)
}

func (l *Loader) readFile(relPath string) ([]byte, error) {
	data, err := os.ReadFile(relPath)
	if err != nil {
		return nil, protocol.NewAssetError(relPath, err)
	}
	return data, nil
}

// PacketReport loads the packets-report JSON for a single protocol number
// (packets/<protocol>.json), consumed by internal/registry.
func (l *Loader) PacketReport(protocolNumber int32) ([]byte, error) {
	return l.readFile(l.path("packets", fmt.Sprintf("%d.json", protocolNumber)))
}

// BlocksReport loads the block-state report for a single protocol number
// (blocks/<protocol>.json), consumed by internal/blocks to build a
// ReportMapping.
func (l *Loader) BlocksReport(protocolNumber int32) ([]byte, error) {
	return l.readFile(l.path("blocks", fmt.Sprintf("%d.json", protocolNumber)))
}

// RegistryData loads one named registry's network NBT blob for a protocol
// number (registries/<protocol>/<name>.nbt), e.g. "worldgen/biome" or
// "dimension_type", consumed by internal/packets.RegistryData.
func (l *Loader) RegistryData(protocolNumber int32, registryName string) ([]byte, error) {
	return l.readFile(l.path("registries", fmt.Sprintf("%d", protocolNumber), registryName+".nbt"))
}

// InternalMapping loads the version-independent internal block-id mapping
// table (internal_mapping.bin) used to seed internal/blocks.Registry.
func (l *Loader) InternalMapping() ([]byte, error) {
	return l.readFile(l.path("internal_mapping.bin"))
}

// Schematic loads and gzip-decompresses a Sponge-format schematic file
// (schematic/<name>.schem), returning its raw NBT bytes for
// internal/world to parse.
func (l *Loader) Schematic(name string) ([]byte, error) {
	relPath := l.path("schematic", name)
	f, err := os.Open(relPath)
	if err != nil {
		return nil, protocol.NewAssetError(relPath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, protocol.NewAssetError(relPath, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, protocol.NewAssetError(relPath, err)
	}
	return data, nil
}
