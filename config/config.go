// Package config loads the bugsnake configuration: built-in defaults, an optional TOML
// file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/bugsnake/constants"
)

var (
	ErrUnknownKeys = errors.New("unknown configuration keys")
	ErrInvalid     = errors.New("invalid configuration")
)

// Environment overrides
const (
	EnvPort         = "PORT"
	EnvAudioEnabled = "BUGSNAKE_AUDIO_ENABLED"
	EnvMasterVolume = "BUGSNAKE_MASTER_VOLUME" // 0-100
	EnvDataPath     = "BUGSNAKE_DATA"
)

// Duration is a time.Duration decoded from TOML strings such as "150ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full application configuration
type Config struct {
	Server   ServerConfig  `toml:"server"`
	Game     GameConfig    `toml:"game"`
	Audio    AudioConfig   `toml:"audio"`
	Storage  StorageConfig `toml:"storage"`
	Projects []Project     `toml:"projects"`
}

// ServerConfig configures the site server
type ServerConfig struct {
	Addr string `toml:"addr"`
	// Root is the site directory; empty serves the embedded site
	Root            string   `toml:"root"`
	AllowedOrigins  []string `toml:"allowed_origins"` // Empty allows same-host only
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// GameConfig configures board geometry and pacing
type GameConfig struct {
	CellSize         int      `toml:"cell_size"`
	CanvasWidth      int      `toml:"canvas_width"`
	CanvasHeight     int      `toml:"canvas_height"`
	MobileBreakpoint int      `toml:"mobile_breakpoint"`
	MobileMaxWidth   int      `toml:"mobile_max_width"`
	TickInterval     Duration `toml:"tick_interval"`
}

// AudioConfig configures synthesized sound effects
type AudioConfig struct {
	Enabled        bool    `toml:"enabled"`
	MasterVolume   float64 `toml:"master_volume"` // 0.0-1.0
	EatVolume      float64 `toml:"eat_volume"`
	GameOverVolume float64 `toml:"gameover_volume"`
	SampleRate     int     `toml:"sample_rate"`
}

// StorageConfig configures best-score persistence
type StorageConfig struct {
	// Path of the TOML key-value file; empty keeps scores in memory
	Path string `toml:"path"`
	Key  string `toml:"key"`
	// MaxClients caps persisted per-client best scores; zero keeps them all in memory
	MaxClients int `toml:"max_clients"`
}

// Project is one portfolio card
type Project struct {
	Title       string `toml:"title" json:"title"`
	Description string `toml:"description" json:"description"`
	Image       string `toml:"image" json:"image,omitempty"`
	Video       string `toml:"video" json:"video,omitempty"`
	GitHub      string `toml:"github" json:"github,omitempty"`
	Details     string `toml:"details" json:"details,omitempty"`
}

// Default returns the production defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: Duration{5 * time.Second},
		},
		Game: GameConfig{
			CellSize:         constants.CellSize,
			CanvasWidth:      constants.CanvasWidth,
			CanvasHeight:     constants.CanvasHeight,
			MobileBreakpoint: constants.MobileBreakpoint,
			MobileMaxWidth:   constants.MobileMaxWidth,
			TickInterval:     Duration{constants.TickInterval},
		},
		Audio: AudioConfig{
			Enabled:        true,
			MasterVolume:   1.0,
			EatVolume:      constants.EatSoundVolume,
			GameOverVolume: constants.GameOverSoundVolume,
			SampleRate:     constants.DefaultSampleRate,
		},
		Storage: StorageConfig{
			Key:        constants.BestScoreKey,
			MaxClients: constants.MaxClientScores,
		},
	}
}

// Load reads path over the defaults (an empty path skips the file), applies environment
// overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			slices.Sort(keys)
			return nil, fmt.Errorf("%w in %s: %s", ErrUnknownKeys, path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides using lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if port, ok := lookup(EnvPort); ok && port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("%w: %s=%q is not a port", ErrInvalid, EnvPort, port)
		}
		c.Server.Addr = ":" + port
	}

	if enabled, ok := lookup(EnvAudioEnabled); ok && enabled != "" {
		val, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvAudioEnabled, enabled, err)
		}
		c.Audio.Enabled = val
	}

	// Master volume is given as 0-100 and clamped
	if volume, ok := lookup(EnvMasterVolume); ok && volume != "" {
		val, err := strconv.Atoi(volume)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvMasterVolume, volume, err)
		}
		c.Audio.MasterVolume = min(max(float64(val)/100.0, 0), 1)
	}

	if data, ok := lookup(EnvDataPath); ok && data != "" {
		c.Storage.Path = data
	}
	return nil
}

// Validate rejects configurations the game cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Game.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("game.cell_size must be positive, got %d", c.Game.CellSize))
	}
	if c.Game.CanvasWidth < c.Game.CellSize || c.Game.CanvasHeight < c.Game.CellSize {
		errs = append(errs, fmt.Errorf("game canvas %dx%d smaller than one cell", c.Game.CanvasWidth, c.Game.CanvasHeight))
	}
	if c.Game.MobileMaxWidth < c.Game.CellSize {
		errs = append(errs, fmt.Errorf("game.mobile_max_width must hold one cell, got %d", c.Game.MobileMaxWidth))
	}
	if c.Game.TickInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval.Duration))
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		errs = append(errs, fmt.Errorf("audio.master_volume must be within [0,1], got %g", c.Audio.MasterVolume))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}
	if c.Storage.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("storage.max_clients must not be negative, got %d", c.Storage.MaxClients))
	}
	for i, p := range c.Projects {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d] has no title", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
