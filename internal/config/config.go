// Package config loads the LocalSketch settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"LocalSketch/internal/state"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

type Canvas struct {
	TileSize    float32 `toml:"tile_size"`
	TileOriginX float32 `toml:"tile_origin_x"`
	TileOriginY float32 `toml:"tile_origin_y"`
	GridCells   int     `toml:"grid_cells"`
}

type History struct {
	Capacity int `toml:"capacity"`
}

type Pen struct {
	Width    float32 `toml:"width"`
	Color    string  `toml:"color"`
	Pressure bool    `toml:"pressure"`
}

type Radius struct {
	Radius float32 `toml:"radius"`
}

type Zoom struct {
	Min float32 `toml:"min"`
	Max float32 `toml:"max"`
}

type Mirror struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// Config is the whole settings file.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	History History `toml:"history"`
	Pen     Pen     `toml:"pen"`
	Eraser  Radius  `toml:"eraser"`
	Select  Radius  `toml:"select"`
	Zoom    Zoom    `toml:"zoom"`
	Mirror  Mirror  `toml:"mirror"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Canvas:  Canvas{TileSize: 3000, TileOriginX: -1500, TileOriginY: -1500, GridCells: 30},
		History: History{Capacity: 100},
		Pen:     Pen{Width: 2, Color: "#000000"},
		Eraser:  Radius{Radius: 5},
		Select:  Radius{Radius: 8},
		Zoom:    Zoom{Min: 0.1, Max: 20},
		Mirror:  Mirror{Port: 8888, Advertise: true},
	}
}

// DefaultPath is config.toml under the user's config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "localsketch", configFile)
}

// Load reads the file at path over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate checks the values Board cannot repair by itself.
func (c Config) Validate() error {
	if _, err := state.ParseColor(c.Pen.Color); err != nil {
		return err
	}
	if c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min {
		return fmt.Errorf("zoom range [%v, %v] is empty", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Mirror.Port < 0 || c.Mirror.Port > 65535 {
		return fmt.Errorf("mirror port %d out of range", c.Mirror.Port)
	}
	return nil
}

// BoardOptions converts the settings into Board options.
func (c Config) BoardOptions() state.Options {
	pen, err := state.ParseColor(c.Pen.Color)
	if err != nil {
		pen = state.DefaultOptions().PenColor
	}
	return state.Options{
		TileSize:        c.Canvas.TileSize,
		TileOriginX:     c.Canvas.TileOriginX,
		TileOriginY:     c.Canvas.TileOriginY,
		GridCells:       c.Canvas.GridCells,
		HistoryCapacity: c.History.Capacity,
		PenWidth:        c.Pen.Width,
		PenColor:        pen,
		Pressure:        c.Pen.Pressure,
		EraserRadius:    c.Eraser.Radius,
		SelectRadius:    c.Select.Radius,
		MinZoom:         c.Zoom.Min,
		MaxZoom:         c.Zoom.Max,
	}
}
