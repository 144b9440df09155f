package led

import (
	"errors"
	"strings"

	"github.com/smazurov/lightnode/internal/battery"
	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/sysfs"
)

// breath drives the vendor breath register found on some logo LEDs.
type breath struct {
	node sysfs.Node
	cfg  device.BreathConfig
}

func (d *breath) Name() string { return "breath" }

func (d *breath) Blink(Color, int, int) error {
	return d.node.Write(d.cfg.Breath)
}

func (d *breath) Indicate(state battery.State, _ Color) error {
	switch state {
	case battery.Charging, battery.Low, battery.Full:
		return d.node.Write(d.cfg.On)
	case battery.Free:
		return d.node.Write(d.cfg.Off)
	default:
		return nil
	}
}

// aw22xx selects a canned effect on the Awinic controller.
type aw22xx struct {
	effect sysfs.Node
	cfg    device.AW22XXConfig
}

func (d *aw22xx) Name() string { return "aw22xx" }

func (d *aw22xx) Blink(Color, int, int) error {
	return d.effect.Write(d.cfg.Notification)
}

func (d *aw22xx) Indicate(state battery.State, _ Color) error {
	switch state {
	case battery.Charging, battery.Low:
		return d.effect.Write(d.cfg.Charging)
	case battery.Full:
		return d.effect.Write(d.cfg.Full)
	case battery.Free:
		return d.effect.Write(d.cfg.Off)
	default:
		return nil
	}
}

// Nubia controller attributes and fixed effect parameters.
const (
	nubiaColor      = "outn"
	nubiaFade       = "fade_parameter"
	nubiaGrade      = "grade_parameter"
	nubiaBlinkMode  = "blink_mode"
	nubiaBrightness = "brightness"

	nubiaBlinkFade  = "3 0 4"
	nubiaBlinkGrade = "0 100"
	nubiaConstFade  = "0 0 0"
	nubiaConstGrade = "100 255"
)

// nubia drives the Nubia breathing-light controller.
type nubia struct {
	dir sysfs.Node
	cfg device.NubiaConfig
}

func (d *nubia) Name() string { return "nubia" }

func (d *nubia) Blink(Color, int, int) error {
	return d.program(d.cfg.ColorGreen, nubiaBlinkFade, nubiaBlinkGrade, d.cfg.BlinkOn)
}

func (d *nubia) Indicate(state battery.State, _ Color) error {
	switch state {
	case battery.Charging, battery.Low:
		return d.program(d.cfg.ColorRed, nubiaConstFade, nubiaConstGrade, d.cfg.BlinkConst)
	case battery.Full:
		return d.program(d.cfg.ColorGreen, nubiaConstFade, nubiaConstGrade, d.cfg.BlinkConst)
	case battery.Free:
		return d.dir.Join(nubiaBrightness).WriteInt(0)
	default:
		return nil
	}
}

func (d *nubia) program(color, fade, grade, mode string) error {
	return errors.Join(
		d.dir.Join(nubiaColor).Write(color),
		d.dir.Join(nubiaFade).Write(fade),
		d.dir.Join(nubiaGrade).Write(grade),
		d.dir.Join(nubiaBlinkMode).Write(mode),
	)
}

// chain fans a request out to several drivers. Indicate writes channel
// brightness before any vendor effect register sharing that channel.
type chain struct {
	blink    []Driver
	indicate []Driver
}

func (c *chain) Name() string {
	names := make([]string, len(c.blink))
	for i, d := range c.blink {
		names[i] = d.Name()
	}
	return strings.Join(names, "+")
}

func (c *chain) Blink(col Color, onMs, offMs int) error {
	var errs []error
	for _, d := range c.blink {
		errs = append(errs, d.Blink(col, onMs, offMs))
	}
	return errors.Join(errs...)
}

func (c *chain) Indicate(state battery.State, col Color) error {
	var errs []error
	for _, d := range c.indicate {
		errs = append(errs, d.Indicate(state, col))
	}
	return errors.Join(errs...)
}
