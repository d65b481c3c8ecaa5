package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

const (
	EnvListenAddr  = "LOCALSKETCH_LISTEN"
	EnvAdvertise   = "LOCALSKETCH_ADVERTISE"
	EnvStrokeWidth = "LOCALSKETCH_STROKE_WIDTH"
	EnvEraserWidth = "LOCALSKETCH_ERASER_WIDTH"
	EnvColor       = "LOCALSKETCH_COLOR"
	EnvMaxSurface  = "LOCALSKETCH_MAX_SURFACE_SIDE"

	DefaultListenAddr    = ":8888"
	DefaultFrameInterval = 33 * time.Millisecond
)

// Config collects the settings shared by the desktop and browser front ends.
type Config struct {
	// Serve runs the browser front end instead of opening a window.
	Serve      bool
	ListenAddr string
	// Advertise publishes the browser front end over mDNS.
	Advertise bool

	Tools          state.ToolState
	ViewportScale  float64
	// MaxSurfaceSide bounds each drawing surface dimension in pixels.
	MaxSurfaceSide int
	FrameInterval  time.Duration
}

func Default() Config {
	return Config{
		ListenAddr:     DefaultListenAddr,
		Tools:          state.DefaultTools(),
		ViewportScale:  state.DefaultViewportScale,
		MaxSurfaceSide: state.DefaultMaxSurfaceSide,
		FrameInterval:  DefaultFrameInterval,
	}
}

// FromEnv returns the defaults overridden by any LOCALSKETCH_* variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if raw, ok := lookup(EnvListenAddr); ok && raw != "" {
		cfg.ListenAddr = raw
	}
	if raw, ok := lookup(EnvAdvertise); ok && raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvAdvertise, raw, err)
		}
		cfg.Advertise = parsed
	}

	var err error
	if cfg.Tools.StrokeWidth, err = intFrom(lookup, EnvStrokeWidth, cfg.Tools.StrokeWidth, state.MinStrokeWidth, state.MaxStrokeWidth); err != nil {
		return Config{}, err
	}
	if cfg.Tools.EraserWidth, err = intFrom(lookup, EnvEraserWidth, cfg.Tools.EraserWidth, state.MinEraserWidth, state.MaxEraserWidth); err != nil {
		return Config{}, err
	}
	if cfg.MaxSurfaceSide, err = intFrom(lookup, EnvMaxSurface, cfg.MaxSurfaceSide, 1, surface.MaxSide); err != nil {
		return Config{}, err
	}

	if raw, ok := lookup(EnvColor); ok && raw != "" {
		c, err := state.ParseHexColor(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvColor, err)
		}
		cfg.Tools.StrokeColor = c
	}
	return cfg, nil
}

// intFrom reads an integer in [lo, hi], keeping def when key is unset.
func intFrom(lookup func(string) (string, bool), key string, def, lo, hi int) (int, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q): %w", key, raw, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d (got %d)", key, lo, hi, v)
	}
	return v, nil
}
