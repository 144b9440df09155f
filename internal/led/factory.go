package led

import (
	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/sysfs"
)

const aw22xxEffect = "effect"

// New builds the notification LED driver for a device profile.
// Falls back to a no-op driver when the profile declares no LED hardware.
//
// With several families present, Blink drives aw22xx, breath, rgb, nubia
// in that order and Indicate drives rgb, nubia, aw22xx, breath.
func New(p *device.Profile, logger logging.Logger) Driver {
	root := sysfs.NewNode(p.Root, p.LEDRoot, logger)

	var aw, br, rg, nb Driver

	if p.HasAW22XX() {
		aw = &aw22xx{
			effect: root.Join(p.AW22XX.Dir, aw22xxEffect),
			cfg:    p.AW22XX,
		}
	}

	if p.HasBreath() {
		br = &breath{
			node: root.Join(p.RGB.Blue, p.Breath.Node),
			cfg:  p.Breath,
		}
	}

	if p.HasRGB() {
		var blue sysfs.Node
		if p.RGB.Blue != "" {
			blue = root.Join(p.RGB.Blue)
		}
		rg = newRGB(root.Join(p.RGB.Red), root.Join(p.RGB.Green), blue)
	}

	if p.HasNubia() {
		nb = &nubia{
			dir: root.Join(p.Nubia.Dir),
			cfg: p.Nubia,
		}
	}

	c := &chain{
		blink:    present(aw, br, rg, nb),
		indicate: present(rg, nb, aw, br),
	}

	var d Driver
	switch len(c.blink) {
	case 0:
		d = newNoop(logger)
	case 1:
		d = c.blink[0]
	default:
		d = c
	}

	logger.Info("Notification LED driver selected", "driver", d.Name(), "profile", p.Name)
	return d
}

// present drops the families the profile does not declare.
func present(drivers ...Driver) []Driver {
	var out []Driver
	for _, d := range drivers {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
