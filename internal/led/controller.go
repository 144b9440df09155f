package led

import (
	"github.com/smazurov/lightnode/internal/battery"
)

// Color is a notification color with each channel already scaled by the
// request's alpha, so every channel is in 0..255.
type Color struct {
	Red   int
	Green int
	Blue  int
}

// Driver abstracts one family of notification LED hardware.
// Implementations write sysfs nodes and keep no state between calls.
type Driver interface {
	// Name identifies the hardware family (e.g., "rgb", "aw22xx").
	Name() string

	// Blink starts a timed or hardware-assisted notification blink.
	// onMs/offMs are the requested flash durations.
	Blink(c Color, onMs, offMs int) error

	// Indicate shows the charging status on the LED. Unknown is a no-op.
	Indicate(state battery.State, c Color) error
}
