package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// maxConfigSize caps how much YAML LoadConfig will read.
const maxConfigSize = 1 << 20

// RunConfig holds every knob for one amplification run. Optional fields are
// pointers so an absent value and an explicit zero stay distinguishable;
// everything else gets its default from DefaultRunConfig and YAML or flags
// override on top.
type RunConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	LowHz        float64 `yaml:"lowhz"`
	HighHz       float64 `yaml:"highhz"`
	Alpha        float64 `yaml:"alpha"`
	Order        int     `yaml:"order"`
	ChunkSeconds float64 `yaml:"chunkseconds"`
	Mode         string  `yaml:"mode"`

	InputFPS  *float64 `yaml:"inputfps"`
	OutputFPS *float64 `yaml:"outputfps"`

	Format  string `yaml:"format"`
	Quality string `yaml:"quality"`

	Overlay OverlayConfig `yaml:"overlay"`
	Enhance EnhanceConfig `yaml:"enhance"`

	ReadAhead    int    `yaml:"readahead"`
	Record       bool   `yaml:"record"`
	ResponsePlot string `yaml:"responseplot"`
}

// DefaultRunConfig returns the documented defaults: band 0.5-2 Hz, alpha 15,
// order 2, 2 s chunks, gray mode, mp4 at medium quality, overlay on.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		LowHz:        0.5,
		HighHz:       2.0,
		Alpha:        15,
		Order:        2,
		ChunkSeconds: 2,
		Mode:         ModeGray.String(),
		Format:       "mp4",
		Quality:      "medium",
		Overlay:      DefaultOverlayConfig(),
		Enhance:      DefaultEnhanceConfig(),
	}
}

// LoadConfig reads a YAML run configuration layered over the defaults, so
// keys absent from the file keep their default value. The result is not
// validated here: command-line flags may still override fields, and Run
// validates the merged configuration.
func LoadConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
		return cfg, fmt.Errorf("config must be a .yaml or .yml file, got %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return cfg, err
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %s is %d bytes, limit is %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %v", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, suitable for reloading with LoadConfig.
func SaveConfig(path string, cfg RunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every range the configuration can check without probing
// the input. Band ordering violations carry ErrInvalidFilterBand; the
// rate-dependent Nyquist check stays with DesignBandpass.
func (c RunConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path must be set")
	}
	if !(c.LowHz > 0 && c.LowHz < c.HighHz) {
		return fmt.Errorf("%w: frequencies must satisfy 0 < low < high, got low=%g Hz high=%g Hz",
			ErrInvalidFilterBand, c.LowHz, c.HighHz)
	}
	if c.Alpha < 0 {
		return fmt.Errorf("alpha must be non-negative, got %g", c.Alpha)
	}
	if c.Order < 1 {
		return fmt.Errorf("order must be at least 1, got %d", c.Order)
	}
	if c.ChunkSeconds <= 0 {
		return fmt.Errorf("chunkseconds must be positive, got %g", c.ChunkSeconds)
	}
	if _, err := ParseColorMode(c.Mode); err != nil {
		return err
	}
	if c.InputFPS != nil && *c.InputFPS <= 0 {
		return fmt.Errorf("inputfps must be positive, got %g", *c.InputFPS)
	}
	if c.OutputFPS != nil && *c.OutputFPS <= 0 {
		return fmt.Errorf("outputfps must be positive, got %g", *c.OutputFPS)
	}
	if c.Format != "mp4" && c.Format != "avi" {
		return fmt.Errorf("format must be mp4 or avi, got %q", c.Format)
	}
	validQuality := false
	for _, q := range QualityPresets() {
		if c.Quality == q {
			validQuality = true
			break
		}
	}
	if !validQuality {
		return fmt.Errorf("quality must be one of %s, got %q",
			strings.Join(QualityPresets(), "|"), c.Quality)
	}
	if err := c.Overlay.Validate(); err != nil {
		return err
	}
	if err := c.Enhance.Validate(); err != nil {
		return err
	}
	if c.ReadAhead < 0 {
		return fmt.Errorf("readahead must be non-negative, got %d", c.ReadAhead)
	}
	return nil
}

// Validate checks overlay geometry parameters.
func (oc OverlayConfig) Validate() error {
	if oc.FontScale <= 0 {
		return fmt.Errorf("overlay fontscale must be positive, got %g", oc.FontScale)
	}
	switch oc.Position {
	case PositionTop, PositionBottom, PositionCenter:
	default:
		return fmt.Errorf("overlay position must be top, bottom or center, got %q", oc.Position)
	}
	if oc.BgAlpha < 0 || oc.BgAlpha > 1 {
		return fmt.Errorf("overlay bgalpha must be in [0, 1], got %g", oc.BgAlpha)
	}
	if oc.Margin < 0 {
		return fmt.Errorf("overlay margin must be non-negative, got %d", oc.Margin)
	}
	return nil
}
