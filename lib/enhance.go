package lib

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// EnhanceConfig describes the optional post-amplification image chain,
// applied to reconstructed frames just before they reach the sink. A zero
// value leaves a stage off; stages run in the order blur, sharpen,
// saturation, brightness, contrast.
type EnhanceConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Blur       float64 `yaml:"blur"`       // gaussian sigma
	Sharpen    float64 `yaml:"sharpen"`    // unsharp sigma
	Saturation float64 `yaml:"saturation"` // percent shift, -100..500
	Brightness float64 `yaml:"brightness"` // -1..1
	Contrast   float64 `yaml:"contrast"`   // -1..1
}

func DefaultEnhanceConfig() EnhanceConfig {
	return EnhanceConfig{}
}

// Validate checks stage parameter ranges.
func (ec EnhanceConfig) Validate() error {
	if ec.Blur < 0 {
		return fmt.Errorf("enhance blur must be non-negative, got %g", ec.Blur)
	}
	if ec.Sharpen < 0 {
		return fmt.Errorf("enhance sharpen must be non-negative, got %g", ec.Sharpen)
	}
	if ec.Saturation < -100 || ec.Saturation > 500 {
		return fmt.Errorf("enhance saturation must be in [-100, 500], got %g", ec.Saturation)
	}
	if ec.Brightness < -1 || ec.Brightness > 1 {
		return fmt.Errorf("enhance brightness must be in [-1, 1], got %g", ec.Brightness)
	}
	if ec.Contrast < -1 || ec.Contrast > 1 {
		return fmt.Errorf("enhance contrast must be in [-1, 1], got %g", ec.Contrast)
	}
	return nil
}

// Active reports whether the chain would change any pixels.
func (ec EnhanceConfig) Active() bool {
	if !ec.Enabled {
		return false
	}
	return ec.Blur > 0 || ec.Sharpen > 0 || ec.Saturation != 0 ||
		ec.Brightness != 0 || ec.Contrast != 0
}

func (img *Image) processImage(processFunc func(*image.NRGBA) image.Image) {
	nrgba := img.AsNRGBA()
	processed := processFunc(nrgba)
	out := fromImage(processed)
	img.Bytes = out.Bytes
}

func (img *Image) GaussianBlur(sigma float64) {
	img.processImage(func(nrgba *image.NRGBA) image.Image {
		return imaging.Blur(nrgba, sigma)
	})
}

func (img *Image) Sharpen(sigma float64) {
	img.processImage(func(nrgba *image.NRGBA) image.Image {
		return imaging.Sharpen(nrgba, sigma)
	})
}

func (img *Image) Saturation(percent float64) {
	img.processImage(func(nrgba *image.NRGBA) image.Image {
		return imaging.AdjustSaturation(nrgba, percent)
	})
}

func (img *Image) Brightness(change float64) {
	img.processImage(func(nrgba *image.NRGBA) image.Image {
		return adjust.Brightness(nrgba, change)
	})
}

func (img *Image) Contrast(change float64) {
	img.processImage(func(nrgba *image.NRGBA) image.Image {
		return adjust.Contrast(nrgba, change)
	})
}

// EnhanceImage applies the configured chain to one frame in place.
func EnhanceImage(im *Image, ec EnhanceConfig) {
	if !ec.Active() {
		return
	}
	if ec.Blur > 0 {
		im.GaussianBlur(ec.Blur)
	}
	if ec.Sharpen > 0 {
		im.Sharpen(ec.Sharpen)
	}
	if ec.Saturation != 0 {
		im.Saturation(ec.Saturation)
	}
	if ec.Brightness != 0 {
		im.Brightness(ec.Brightness)
	}
	if ec.Contrast != 0 {
		im.Contrast(ec.Contrast)
	}
}
