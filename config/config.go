// Package config loads render options from a TOML file. Every field has a
// working zero-configuration default; a config file only overrides what it
// names.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/wudi/rmrender/style"
)

// Options are the host-tunable rendering knobs.
type Options struct {
	// TemplateAlpha attenuates template backgrounds; 1 matches the device's
	// on-screen strength, lower values keep printed annotations readable.
	TemplateAlpha float64 `toml:"template_alpha"`
	// WidthReduction scales device-native stroke widths to output widths.
	WidthReduction float64 `toml:"width_reduction"`
	// TemplateDir is where template SVG/PNG assets live.
	TemplateDir string `toml:"template_dir"`
	// StyleScript is an optional JavaScript style-override hook file.
	StyleScript string `toml:"style_script"`
	// PencilJitter toggles the pencil texture approximation.
	PencilJitter bool `toml:"pencil_jitter"`
}

// Default returns the options used when no config file is present.
func Default() Options {
	return Options{
		TemplateAlpha:  0.8,
		WidthReduction: style.DefaultWidthReduction,
		PencilJitter:   true,
	}
}

// Load reads a TOML options file over the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if opts.TemplateAlpha < 0 || opts.TemplateAlpha > 1 {
		return Options{}, fmt.Errorf("load config %s: template_alpha %g outside [0,1]", path, opts.TemplateAlpha)
	}
	if opts.WidthReduction <= 0 {
		return Options{}, fmt.Errorf("load config %s: width_reduction must be positive", path)
	}
	return opts, nil
}
