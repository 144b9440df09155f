package events

// Event type constants for kelindar/event.
const (
	TypeLightStateChanged uint32 = iota + 1
	TypeBatteryState
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LightStateChangedEvent is published after a light request was accepted
// and its sysfs writes were issued.
type LightStateChangedEvent struct {
	LightID    int    `json:"light_id" example:"4" doc:"Light identifier"`
	LightType  string `json:"light_type" example:"NOTIFICATIONS" doc:"Light type name"`
	Color      string `json:"color" example:"0xff00ff00" doc:"Requested ARGB color"`
	FlashMode  string `json:"flash_mode" example:"TIMED" doc:"Requested flash mode"`
	FlashOnMs  int    `json:"flash_on_ms" example:"1000" doc:"Flash on duration in milliseconds"`
	FlashOffMs int    `json:"flash_off_ms" example:"3000" doc:"Flash off duration in milliseconds"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LightStateChangedEvent.
func (e LightStateChangedEvent) Type() uint32 { return TypeLightStateChanged }

// BatteryStateEvent is published each time the battery indicator
// classifies the power supply.
type BatteryStateEvent struct {
	State     string `json:"state" example:"charging" doc:"Battery state: unknown, low, free, charging, full"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for BatteryStateEvent.
func (e BatteryStateEvent) Type() uint32 { return TypeBatteryState }
