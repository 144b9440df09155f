package led

import (
	"github.com/smazurov/lightnode/internal/battery"
	"github.com/smazurov/lightnode/internal/logging"
)

// noop implements Driver for boards without a notification LED
type noop struct {
	logger logging.Logger
}

// newNoop creates a new no-op LED driver
func newNoop(logger logging.Logger) *noop {
	return &noop{
		logger: logger,
	}
}

func (n *noop) Name() string {
	return "noop"
}

// Blink logs the request but performs no LED control
func (n *noop) Blink(c Color, onMs, offMs int) error {
	n.logger.Debug("Notification LED not available (no-op)",
		"red", c.Red,
		"green", c.Green,
		"blue", c.Blue,
		"on_ms", onMs,
		"off_ms", offMs)
	return nil
}

// Indicate logs the battery state but performs no LED control
func (n *noop) Indicate(state battery.State, _ Color) error {
	n.logger.Debug("Battery indicator not available (no-op)", "battery", state.String())
	return nil
}
