// Package config holds the runner settings: defaults, PITCHSTAFF_*
// environment overrides and validation.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/whyrusleeping/pitchstaff/note"
	"github.com/whyrusleeping/pitchstaff/pitch"
	"github.com/whyrusleeping/pitchstaff/surface"
)

const envPrefix = "PITCHSTAFF_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Backend string

const (
	BackendSDL  Backend = "sdl"
	BackendTerm Backend = "term"
)

type Config struct {
	Width, Height int
	FPS           int

	SampleRate int
	// BlockSize defaults to one frame of audio. Blocks under
	// 2*(SampleRate/80+1) samples cannot search down to 80Hz.
	BlockSize  int

	History       int
	ThresholdBase float64
	ThresholdSpan float64

	Backend    Backend
	MIDIDevice int // -1 for none
	LogLevel   string

	Knobs [surface.KnobCount]float64
}

func Default() *Config {
	return &Config{
		Width:         1280,
		Height:        720,
		FPS:           30,
		SampleRate:    44100,
		BlockSize:     1470,
		History:       note.DefaultHistory,
		ThresholdBase: pitch.DefaultThresholdBase,
		ThresholdSpan: pitch.DefaultThresholdSpan,
		Backend:       BackendSDL,
		MIDIDevice:    -1,
		LogLevel:      "info",
		Knobs:         [surface.KnobCount]float64{0.5, 0.5, 0.5, 1, 0},
	}
}

// Load returns the defaults with any PITCHSTAFF_* variables applied.
// Values that do not parse are ignored.
func Load() *Config {
	cfg := Default()

	envInt("WIDTH", &cfg.Width)
	envInt("HEIGHT", &cfg.Height)
	envInt("FPS", &cfg.FPS)
	envInt("SAMPLE_RATE", &cfg.SampleRate)
	envInt("BLOCK_SIZE", &cfg.BlockSize)
	envInt("HISTORY", &cfg.History)
	envInt("MIDI_DEVICE", &cfg.MIDIDevice)
	envFloat("THRESHOLD_BASE", &cfg.ThresholdBase)
	envFloat("THRESHOLD_SPAN", &cfg.ThresholdSpan)

	if v := os.Getenv(envPrefix + "BACKEND"); v != "" {
		cfg.Backend = Backend(strings.ToLower(v))
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Knobs as a JSON array, clamped into [0,1]
	if v := os.Getenv(envPrefix + "KNOBS"); v != "" {
		var knobs []float64
		if err := json.Unmarshal([]byte(v), &knobs); err == nil && len(knobs) == surface.KnobCount {
			for i, k := range knobs {
				cfg.Knobs[i] = Clamp(k)
			}
		}
	}

	return cfg
}

func envInt(key string, dst *int) {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Clamp limits a knob value to [0,1].
func Clamp(k float64) float64 {
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}

func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SampleRate)
	case c.BlockSize < pitch.MinBlock:
		return fmt.Errorf("%w: block size %d is below %d", ErrInvalid, c.BlockSize, pitch.MinBlock)
	case c.History <= 0:
		return fmt.Errorf("%w: history %d", ErrInvalid, c.History)
	case c.ThresholdBase < 0 || c.ThresholdSpan < 0 || c.ThresholdBase+c.ThresholdSpan > 1:
		return fmt.Errorf("%w: threshold %.2f + %.2f", ErrInvalid, c.ThresholdBase, c.ThresholdSpan)
	}

	if c.Backend != BackendSDL && c.Backend != BackendTerm {
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	for i, k := range c.Knobs {
		if k < 0 || k > 1 {
			return fmt.Errorf("%w: knob%d = %f", ErrInvalid, i+1, k)
		}
	}
	return nil
}
