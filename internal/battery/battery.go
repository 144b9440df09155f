// Package battery reduces the kernel power_supply state to a charging indicator state.
package battery

import (
	"strings"

	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics"
	"github.com/smazurov/lightnode/internal/sysfs"
)

// Default power_supply attribute paths.
const (
	DefaultStatusPath   = "/sys/class/power_supply/battery/status"
	DefaultCapacityPath = "/sys/class/power_supply/battery/capacity"
)

const (
	statusFull        = "Full"
	statusDischarging = "Discharging"
	statusCharging    = "Charging"

	// The status attribute is a short token; anything past this is ignored.
	statusReadLimit = 16

	chargingFullThreshold = 90
	lowThreshold          = 10
)

// State is the classified battery state.
type State int

const (
	// Unknown means the status attribute could not be read.
	Unknown State = iota
	// Low means not charging and below the low threshold.
	Low
	// Free means discharging or idle with enough charge.
	Free
	// Charging means charging below the full threshold.
	Charging
	// Full means full, or charging above the full threshold.
	Full
)

func (s State) String() string {
	switch s {
	case Low:
		return "low"
	case Free:
		return "free"
	case Charging:
		return "charging"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Classifier reads the power_supply status and capacity on every call.
type Classifier struct {
	status   sysfs.Node
	capacity sysfs.Node
	logger   logging.Logger
}

// NewClassifier creates a classifier over the given status and capacity nodes.
func NewClassifier(status, capacity sysfs.Node, logger logging.Logger) *Classifier {
	return &Classifier{
		status:   status,
		capacity: capacity,
		logger:   logger,
	}
}

// Classify returns the current battery state. It never fails; read errors
// degrade to Unknown (status) or a capacity of zero.
func (c *Classifier) Classify() State {
	state := c.classify()
	metrics.RecordBatteryState(state.String())
	return state
}

func (c *Classifier) classify() State {
	status, err := c.status.ReadString(statusReadLimit)
	if err != nil {
		c.logger.Warn("Failed to read battery status", "error", err)
		return Unknown
	}

	capacity, err := c.capacity.ReadInt()
	if err != nil {
		capacity = 0
	}

	c.logger.Debug("Battery readings", "status", strings.TrimSpace(status), "capacity", capacity)

	switch {
	case strings.HasPrefix(status, statusFull):
		return Full
	case strings.HasPrefix(status, statusDischarging):
		return Free
	case strings.HasPrefix(status, statusCharging):
		if capacity < chargingFullThreshold {
			return Charging
		}
		return Full
	default:
		// Unrecognised status tokens ("Not charging", "Unknown", ...) are judged by capacity alone.
		if capacity < lowThreshold {
			return Low
		}
		return Free
	}
}
