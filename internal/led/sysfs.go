package led

import (
	"errors"

	"github.com/smazurov/lightnode/internal/battery"
	"github.com/smazurov/lightnode/internal/sysfs"
)

// LED class attribute names.
const (
	attrBrightness = "brightness"
	attrDelayOn    = "delay_on"
	attrDelayOff   = "delay_off"
)

// rgb implements Driver over three discrete LED class channels
type rgb struct {
	red   sysfs.Node
	green sysfs.Node
	blue  sysfs.Node // optional
}

// newRGB creates an RGB driver from per-channel LED class directories
func newRGB(red, green, blue sysfs.Node) *rgb {
	return &rgb{red: red, green: green, blue: blue}
}

func (d *rgb) Name() string {
	return "rgb"
}

// Blink sets delay_on on every lit channel and delay_off on every
// channel, lit or dark.
func (d *rgb) Blink(c Color, onMs, offMs int) error {
	var errs []error
	for _, ch := range d.channels(c) {
		if !ch.node.Valid() {
			continue
		}
		if ch.value != 0 {
			errs = append(errs, ch.node.Join(attrDelayOn).WriteInt(onMs))
		}
		errs = append(errs, ch.node.Join(attrDelayOff).WriteInt(offMs))
	}
	return errors.Join(errs...)
}

// Indicate lights red+blue while charging or low, green+blue when full
func (d *rgb) Indicate(state battery.State, c Color) error {
	var red, green, blue int

	switch state {
	case battery.Charging, battery.Low:
		red, green, blue = c.Red, 0, c.Blue
	case battery.Full:
		red, green, blue = 0, c.Green, c.Blue
	case battery.Free:
		red, green, blue = 0, 0, 0
	default:
		return nil
	}

	// Turn the unused channel off before lighting the others
	order := []channel{{d.red, red}, {d.green, green}, {d.blue, blue}}
	if state == battery.Charging || state == battery.Low {
		order = []channel{{d.green, green}, {d.red, red}, {d.blue, blue}}
	}

	var errs []error
	for _, ch := range order {
		if !ch.node.Valid() {
			continue
		}
		errs = append(errs, ch.node.Join(attrBrightness).WriteInt(ch.value))
	}
	return errors.Join(errs...)
}

type channel struct {
	node  sysfs.Node
	value int
}

func (d *rgb) channels(c Color) []channel {
	return []channel{{d.red, c.Red}, {d.green, c.Green}, {d.blue, c.Blue}}
}
