// Package config loads the server's TOML configuration file (spec.md
// section 6), the "external collaborator" config layer the core protocol
// crate is handed a pre-parsed struct from. Grounded on the
// viper.SetDefault/ReadInConfig/Unmarshal pattern used throughout
// orbas1-Synnergy's CLI commands.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	protocol "github.com/go-mclib/limbo/internal/protocol"
)

// Velocity holds the modern proxy-forwarding settings (spec.md 4.11).
type Velocity struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
}

// BungeeCord holds the legacy proxy-forwarding settings (spec.md 4.11).
type BungeeCord struct {
	Enabled     bool     `mapstructure:"enabled"`
	BungeeGuard bool     `mapstructure:"bungee_guard"`
	Tokens      []string `mapstructure:"tokens"`
}

// Forwarding groups the two proxy-identity-forwarding schemes. At most one
// should be enabled; Velocity takes priority if both are (spec.md 4.8).
type Forwarding struct {
	Velocity   Velocity   `mapstructure:"velocity"`
	BungeeCord BungeeCord `mapstructure:"bungee_cord"`
}

// Status configures the server-list-ping response (C12).
type Status struct {
	MaxPlayers      int    `mapstructure:"max_players"`
	MOTD            string `mapstructure:"motd"`
	ShowOnlineCount bool   `mapstructure:"show_online_count"`
	ServerIcon      string `mapstructure:"server_icon"`
}

// TabList configures the player-list header/footer (spec.md section 12
// supplement).
type TabList struct {
	Enabled bool   `mapstructure:"enabled"`
	Header  string `mapstructure:"header"`
	Footer  string `mapstructure:"footer"`
}

// World configures the optional schematic paste and lock-time behavior.
type World struct {
	SchematicFile string `mapstructure:"schematic_file"`
	LockTime      bool   `mapstructure:"lock_time"`
}

// Config is the whole of the server's recognized configuration surface
// (spec.md section 6).
type Config struct {
	Address                string     `mapstructure:"address"`
	SpawnDimension         string     `mapstructure:"spawn_dimension"`
	GameMode               string     `mapstructure:"game_mode"`
	ViewDistance           int        `mapstructure:"view_distance"`
	KeepAliveIntervalSecs  int        `mapstructure:"keep_alive_interval_secs"`
	KeepAliveTimeoutSecs   int        `mapstructure:"keep_alive_timeout_secs"`
	MinY                   *int32     `mapstructure:"min_y"`
	MinYMessage            string     `mapstructure:"min_y_message"`
	CompressionThreshold   int        `mapstructure:"compression_threshold"`
	DataDir                string     `mapstructure:"data_dir"`
	Forwarding             Forwarding `mapstructure:"forwarding"`
	Status                 Status     `mapstructure:"status"`
	TabList                TabList    `mapstructure:"tab_list"`
	World                  World      `mapstructure:"world"`
}

// setDefaults seeds every recognized key with the value spec.md section 6
// documents, so a config file that omits a section still behaves per spec.
func setDefaults(v *viper.Viper) {
	v.SetDefault("address", "0.0.0.0:25565")
	v.SetDefault("spawn_dimension", "end")
	v.SetDefault("game_mode", "spectator")
	v.SetDefault("view_distance", 2)
	v.SetDefault("keep_alive_interval_secs", 10)
	v.SetDefault("keep_alive_timeout_secs", 30)
	v.SetDefault("compression_threshold", 256)
	v.SetDefault("forwarding.velocity.enabled", false)
	v.SetDefault("forwarding.bungee_cord.enabled", false)
	v.SetDefault("forwarding.bungee_cord.bungee_guard", false)
	v.SetDefault("status.max_players", 20)
	v.SetDefault("status.motd", "A PicoLimbo-style waiting room")
	v.SetDefault("status.show_online_count", true)
	v.SetDefault("tab_list.enabled", false)
	v.SetDefault("world.lock_time", false)
}

// Load reads and validates the TOML file at path, applying spec.md
// section 6's defaults for anything the file omits. An empty path still
// applies defaults with no file read, matching a limbo server's
// hand-it-a-struct contract when run purely from the CLI's flags.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, protocol.NewConfigError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, protocol.NewConfigError(path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validSpawnDimensions = map[string]bool{"overworld": true, "nether": true, "end": true}
var validGameModes = map[string]bool{"survival": true, "creative": true, "adventure": true, "spectator": true}

func (c *Config) validate() error {
	if !validSpawnDimensions[c.SpawnDimension] {
		return protocol.NewConfigError("spawn_dimension", fmt.Errorf("unrecognized dimension %q", c.SpawnDimension))
	}
	if !validGameModes[c.GameMode] {
		return protocol.NewConfigError("game_mode", fmt.Errorf("unrecognized game mode %q", c.GameMode))
	}
	if c.Forwarding.Velocity.Enabled && c.Forwarding.Velocity.Secret == "" {
		return protocol.NewConfigError("forwarding.velocity.secret", fmt.Errorf("required when forwarding.velocity.enabled is true"))
	}
	if c.Forwarding.BungeeCord.BungeeGuard && len(c.Forwarding.BungeeCord.Tokens) == 0 {
		return protocol.NewConfigError("forwarding.bungee_cord.tokens", fmt.Errorf("required when bungee_guard is true"))
	}
	return nil
}

// DimensionIdentifier maps the config's spawn_dimension key to its full
// resource-location form, as used in JoinGame/registry lookups.
func (c *Config) DimensionIdentifier() string {
	return "minecraft:" + c.SpawnDimension
}

// GameModeID maps the config's game_mode key to the numeric id the wire
// protocol uses (JoinGame.GameMode and friends).
func (c *Config) GameModeID() uint8 {
	switch c.GameMode {
	case "survival":
		return 0
	case "creative":
		return 1
	case "adventure":
		return 2
	case "spectator":
		return 3
	default:
		return 3
	}
}
