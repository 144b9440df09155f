// Package lights implements the light dispatcher: it maps abstract light
// requests onto backlight and notification LED hardware.
package lights

import (
	"fmt"
	"strconv"
	"strings"
)

// LightType identifies a logical light. Values match android.hardware.light.
type LightType int

// Light types.
const (
	Backlight LightType = iota
	Keyboard
	Buttons
	Battery
	Notifications
	Attention
	Bluetooth
	Wifi
	Microphone
	Camera
)

var lightTypeNames = []string{
	"BACKLIGHT",
	"KEYBOARD",
	"BUTTONS",
	"BATTERY",
	"NOTIFICATIONS",
	"ATTENTION",
	"BLUETOOTH",
	"WIFI",
	"MICROPHONE",
	"CAMERA",
}

func (t LightType) String() string {
	if t < 0 || int(t) >= len(lightTypeNames) {
		return "UNKNOWN"
	}
	return lightTypeNames[t]
}

// ParseLightType accepts a type name (case-insensitive) or its number.
func ParseLightType(s string) (LightType, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return LightType(n), nil
	}
	for i, name := range lightTypeNames {
		if strings.EqualFold(s, name) {
			return LightType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

// FlashMode selects how a notification light blinks.
type FlashMode int

// Flash modes.
const (
	FlashNone FlashMode = iota
	FlashTimed
	FlashHardware
)

var flashModeNames = []string{"NONE", "TIMED", "HARDWARE"}

func (m FlashMode) String() string {
	if m < 0 || int(m) >= len(flashModeNames) {
		return "UNKNOWN"
	}
	return flashModeNames[m]
}

// ParseFlashMode accepts a mode name (case-insensitive) or its number.
func ParseFlashMode(s string) (FlashMode, error) {
	i, err := parseEnum(s, flashModeNames)
	if err != nil {
		return 0, fmt.Errorf("unknown flash mode %q", s)
	}
	return FlashMode(i), nil
}

// BrightnessMode is carried for API compatibility and otherwise ignored.
type BrightnessMode int

// Brightness modes.
const (
	BrightnessUser BrightnessMode = iota
	BrightnessSensor
	BrightnessLowPersistence
)

var brightnessModeNames = []string{"USER", "SENSOR", "LOW_PERSISTENCE"}

func (m BrightnessMode) String() string {
	if m < 0 || int(m) >= len(brightnessModeNames) {
		return "UNKNOWN"
	}
	return brightnessModeNames[m]
}

// ParseBrightnessMode accepts a mode name (case-insensitive) or its number.
func ParseBrightnessMode(s string) (BrightnessMode, error) {
	i, err := parseEnum(s, brightnessModeNames)
	if err != nil {
		return 0, fmt.Errorf("unknown brightness mode %q", s)
	}
	return BrightnessMode(i), nil
}

// parseEnum resolves s against names by name or by index in range.
func parseEnum(s string, names []string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(names) {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return n, nil
	}
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

// HwLightState is a single light request. Color is packed 0xAARRGGBB.
type HwLightState struct {
	Color          uint32
	FlashMode      FlashMode
	FlashOnMs      int
	FlashOffMs     int
	BrightnessMode BrightnessMode
}

// Validate rejects flash durations the LED timer trigger cannot take.
func (s HwLightState) Validate() error {
	if s.FlashOnMs < 0 || s.FlashOffMs < 0 {
		return fmt.Errorf("negative flash duration (on %d ms, off %d ms)", s.FlashOnMs, s.FlashOffMs)
	}
	return nil
}

// HwLight describes one supported light.
type HwLight struct {
	ID      int       `json:"id" example:"5" doc:"Light identifier"`
	Type    LightType `json:"type" example:"5" doc:"Light type"`
	Ordinal int       `json:"ordinal" example:"0" doc:"Position in importance order"`
}

// channels splits a packed color into alpha and alpha-scaled R, G, B.
func channels(color uint32) (alpha, red, green, blue uint32) {
	alpha = (color >> 24) & 0xFF
	red = (color >> 16) & 0xFF
	green = (color >> 8) & 0xFF
	blue = color & 0xFF

	if alpha != 0xFF {
		red = red * alpha / 0xFF
		green = green * alpha / 0xFF
		blue = blue * alpha / 0xFF
	}
	return alpha, red, green, blue
}
