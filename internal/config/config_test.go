package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:25565", cfg.Address)
	require.Equal(t, "end", cfg.SpawnDimension)
	require.Equal(t, "spectator", cfg.GameMode)
	require.Equal(t, 256, cfg.CompressionThreshold)
	require.Equal(t, 20, cfg.Status.MaxPlayers)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limbo.toml")
	contents := `
address = "127.0.0.1:25566"
spawn_dimension = "overworld"
game_mode = "creative"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:25566", cfg.Address)
	require.Equal(t, "overworld", cfg.SpawnDimension)
	require.Equal(t, "creative", cfg.GameMode)
}

func TestLoadRejectsUnknownSpawnDimension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limbo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`spawn_dimension = "moon"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownGameMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limbo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`game_mode = "hardcore"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRequiresVelocitySecretWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limbo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[forwarding.velocity]
enabled = true
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRequiresBungeeGuardTokensWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limbo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[forwarding.bungee_cord]
enabled = true
bungee_guard = true
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDimensionIdentifier(t *testing.T) {
	cfg := &Config{SpawnDimension: "nether"}
	require.Equal(t, "minecraft:nether", cfg.DimensionIdentifier())
}

func TestGameModeID(t *testing.T) {
	cases := map[string]uint8{
		"survival":  0,
		"creative":  1,
		"adventure": 2,
		"spectator": 3,
	}
	for mode, want := range cases {
		cfg := &Config{GameMode: mode}
		require.Equal(t, want, cfg.GameModeID())
	}
}
