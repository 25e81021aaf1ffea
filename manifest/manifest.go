// SPDX-License-Identifier: EPL-2.0

// Package manifest parses the TOML bulk-registration format: a mapping of
// alias to source locator plus optional per-asset settings and sprites.
//
//	[sounds.explosion]
//	src = "sfx/explosion.ogg"
//	volume = 0.8
//
//	[sounds.voice]
//	src = "vo/intro.mp3"
//
//	[sounds.voice.sprites.hello]
//	start = 0.0
//	end = 2.5
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrNoSounds  = errors.New("manifest: no sounds defined")
	ErrNoSrc     = errors.New("manifest: entry missing src")
	ErrBadSprite = errors.New("manifest: invalid sprite window")
)

// Sprite is a named sub-range of an asset in seconds, with an optional speed
// override (0 means inherit).
type Sprite struct {
	Start float64 `toml:"start"`
	End   float64 `toml:"end"`
	Speed float64 `toml:"speed,omitempty"`
}

// Entry describes one asset to register.
type Entry struct {
	Src            string            `toml:"src"`
	Volume         *float64          `toml:"volume,omitempty"`
	Speed          *float64          `toml:"speed,omitempty"`
	Loop           bool              `toml:"loop,omitempty"`
	AutoPlay       bool              `toml:"autoplay,omitempty"`
	Preload        bool              `toml:"preload,omitempty"`
	SingleInstance bool              `toml:"single_instance,omitempty"`
	Block          bool              `toml:"block,omitempty"`
	Sprites        map[string]Sprite `toml:"sprites,omitempty"`
}

// Manifest is a set of asset entries keyed by alias.
type Manifest struct {
	Sounds map[string]Entry `toml:"sounds"`
}

// Parse decodes and validates a TOML manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile reads and parses a manifest from disk.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}

func (m *Manifest) validate() error {
	if len(m.Sounds) == 0 {
		return ErrNoSounds
	}
	for alias, e := range m.Sounds {
		if e.Src == "" {
			return fmt.Errorf("%w: %q", ErrNoSrc, alias)
		}
		for name, sp := range e.Sprites {
			if sp.Start < 0 || sp.End <= sp.Start {
				return fmt.Errorf("%w: %q/%q", ErrBadSprite, alias, name)
			}
		}
	}
	return nil
}
