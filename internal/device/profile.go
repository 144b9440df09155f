// Package device describes the light hardware present on a board.
//
// A Profile replaces per-device build flags: it is resolved once at startup
// (by name, from a TOML file, or by matching the device-tree model) and is
// read-only afterwards.
package device

import (
	"errors"
	"fmt"

	"github.com/smazurov/lightnode/internal/battery"
)

const defaultLEDRoot = "/sys/class/leds"

// Profile is the capability descriptor for one board family.
type Profile struct {
	Name      string          `toml:"name"`
	Match     []string        `toml:"match"`
	LEDRoot   string          `toml:"led_root"`
	Backlight BacklightConfig `toml:"backlight"`
	RGB       RGBConfig       `toml:"rgb"`
	Breath    BreathConfig    `toml:"breath"`
	AW22XX    AW22XXConfig    `toml:"aw22xx"`
	Nubia     NubiaConfig     `toml:"nubia"`
	Battery   BatteryConfig   `toml:"battery"`

	// Root is prepended to every absolute path. Not read from TOML.
	Root string `toml:"-"`
}

// BacklightConfig describes the panel backlight node.
type BacklightConfig struct {
	Node string `toml:"node"`
	// MaxBrightness of 0 means read max_brightness next to Node.
	MaxBrightness int `toml:"max_brightness"`
	// LogMax is the maximum for which the logarithmic curve applies.
	LogMax int `toml:"log_max"`
}

// RGBConfig names the per-channel LED class directories.
type RGBConfig struct {
	Red   string `toml:"red"`
	Green string `toml:"green"`
	Blue  string `toml:"blue"`
}

// BreathConfig is the vendor breath register under the blue channel.
type BreathConfig struct {
	Node   string `toml:"node"`
	Off    string `toml:"off"`
	On     string `toml:"on"`
	Breath string `toml:"breath"`
}

// AW22XXConfig is the Awinic effect-index controller.
type AW22XXConfig struct {
	Dir          string `toml:"dir"`
	Off          string `toml:"off"`
	Notification string `toml:"notification"`
	Charging     string `toml:"charging"`
	Full         string `toml:"full"`
}

// NubiaConfig is the Nubia breathing-light controller.
type NubiaConfig struct {
	Dir        string `toml:"dir"`
	ColorRed   string `toml:"color_red"`
	ColorGreen string `toml:"color_green"`
	BlinkConst string `toml:"blink_const"`
	BlinkOn    string `toml:"blink_on"`
}

// BatteryConfig holds the power_supply attribute paths.
type BatteryConfig struct {
	Status   string `toml:"status"`
	Capacity string `toml:"capacity"`
}

// HasBacklight reports whether the board exposes a backlight node.
func (p *Profile) HasBacklight() bool {
	return p.Backlight.Node != ""
}

// HasRGB reports whether both the red and green channels exist.
func (p *Profile) HasRGB() bool {
	return p.RGB.Red != "" && p.RGB.Green != ""
}

// HasBreath reports whether the breath register is present.
func (p *Profile) HasBreath() bool {
	return p.Breath.Node != ""
}

// HasAW22XX reports whether the AW22xxx controller is present.
func (p *Profile) HasAW22XX() bool {
	return p.AW22XX.Dir != ""
}

// HasNubia reports whether the Nubia controller is present.
func (p *Profile) HasNubia() bool {
	return p.Nubia.Dir != ""
}

// applyDefaults fills optional fields.
func (p *Profile) applyDefaults() {
	if p.LEDRoot == "" {
		p.LEDRoot = defaultLEDRoot
	}
	if p.Battery.Status == "" {
		p.Battery.Status = battery.DefaultStatusPath
	}
	if p.Battery.Capacity == "" {
		p.Battery.Capacity = battery.DefaultCapacityPath
	}
}

// Validate checks that the profile describes a buildable hardware set.
func (p *Profile) Validate() error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	vendors := 0
	for _, present := range []bool{p.HasBreath(), p.HasAW22XX(), p.HasNubia()} {
		if present {
			vendors++
		}
	}
	if vendors > 1 {
		errs = append(errs, errors.New("at most one vendor LED controller (breath, aw22xx, nubia) may be declared"))
	}

	if p.HasBreath() && p.RGB.Blue == "" {
		errs = append(errs, errors.New("breath register requires rgb.blue"))
	}
	if p.Backlight.MaxBrightness < 0 || p.Backlight.LogMax < 0 {
		errs = append(errs, errors.New("backlight brightness limits must not be negative"))
	}

	if len(errs) > 0 {
		return NewError(ErrCodeInvalidProfile, fmt.Sprintf("profile %q", p.Name), errors.Join(errs...))
	}
	return nil
}
