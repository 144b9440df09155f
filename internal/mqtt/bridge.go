package mqtt

import (
	"encoding/json"
	"errors"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/lights"
	"github.com/smazurov/lightnode/internal/logging"
)

// LightSetter applies light requests received from the broker.
type LightSetter interface {
	SetLightState(id int, state lights.HwLightState) error
}

// SetRequest is the JSON payload accepted on <prefix>/lights/<light>/set.
type SetRequest struct {
	Color      uint32 `json:"color"`
	FlashMode  string `json:"flash_mode,omitempty"`
	FlashOnMs  int    `json:"flash_on_ms,omitempty"`
	FlashOffMs int    `json:"flash_off_ms,omitempty"`

	BrightnessMode string `json:"brightness_mode,omitempty"`
}

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	Client      ClientAPI
	EventBus    *events.Bus
	Lights      LightSetter // nil disables the set topic
	TopicPrefix string
	Logger      logging.Logger
}

// Bridge publishes bus events as retained state and forwards set requests
// to the light service.
type Bridge struct {
	client       ClientAPI
	eventBus     *events.Bus
	lights       LightSetter
	prefix       string
	logger       logging.Logger
	unsubscribes []func()
}

// NewBridge creates a bridge. Call Start to begin forwarding.
func NewBridge(opts BridgeOptions) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger("mqtt")
	}
	return &Bridge{
		client:   opts.Client,
		eventBus: opts.EventBus,
		lights:   opts.Lights,
		prefix:   strings.TrimSuffix(opts.TopicPrefix, "/"),
		logger:   logger,
	}
}

// StatusTopic is the availability topic for prefix.
func StatusTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/status"
}

// Start subscribes to the event bus and, when a light setter is present,
// to the set topic.
func (b *Bridge) Start() error {
	if b.eventBus != nil {
		b.unsubscribes = append(b.unsubscribes,
			b.eventBus.Subscribe(b.onLightState),
			b.eventBus.Subscribe(b.onBatteryState),
		)
	}

	if b.lights != nil {
		topic := b.prefix + "/lights/+/set"
		if err := b.client.Subscribe(topic, b.onSet); err != nil {
			b.Stop()
			return err
		}
		b.unsubscribes = append(b.unsubscribes, func() {
			if err := b.client.Unsubscribe(topic); err != nil {
				b.logger.Warn("Failed to unsubscribe", "topic", topic, "error", err)
			}
		})
	}

	b.logger.Info("MQTT bridge started", "prefix", b.prefix)
	return nil
}

// Stop removes every subscription made by Start.
func (b *Bridge) Stop() {
	for _, unsub := range b.unsubscribes {
		unsub()
	}
	b.unsubscribes = nil
}

func (b *Bridge) onLightState(e events.LightStateChangedEvent) {
	b.publish(b.prefix+"/lights/"+strings.ToLower(e.LightType)+"/state", e)
}

func (b *Bridge) onBatteryState(e events.BatteryStateEvent) {
	b.publish(b.prefix+"/battery/state", e)
}

func (b *Bridge) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.logger.Warn("Failed to encode state", "topic", topic, "error", err)
		return
	}
	if err := b.client.PublishWith(topic, payload, true); err != nil {
		b.logger.Warn("Failed to publish state", "topic", topic, "error", err)
		return
	}
	b.logger.Debug("Published state", "topic", topic)
}

func (b *Bridge) onSet(_ paho.Client, msg Message) {
	topic := msg.Topic()

	id, state, err := parseSet(b.prefix, topic, msg.Payload())
	if err != nil {
		b.logger.Warn("Ignoring set request", "topic", topic, "error", err)
		return
	}

	if err := b.lights.SetLightState(int(id), state); err != nil {
		b.logger.Warn("Set request rejected", "topic", topic, "light", id.String(), "error", err)
	}
}

// parseSet extracts the light from <prefix>/lights/<light>/set and decodes
// the payload.
func parseSet(prefix, topic string, payload []byte) (lights.LightType, lights.HwLightState, error) {
	var state lights.HwLightState

	rest, ok := strings.CutPrefix(topic, prefix+"/lights/")
	if !ok {
		return 0, state, errors.New("unexpected topic")
	}
	name, ok := strings.CutSuffix(rest, "/set")
	if !ok || name == "" || strings.Contains(name, "/") {
		return 0, state, errors.New("unexpected topic")
	}

	id, err := lights.ParseLightType(name)
	if err != nil {
		return 0, state, err
	}

	var req SetRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return 0, state, err
	}

	state.Color = req.Color
	state.FlashOnMs = req.FlashOnMs
	state.FlashOffMs = req.FlashOffMs
	if req.FlashMode != "" {
		if state.FlashMode, err = lights.ParseFlashMode(req.FlashMode); err != nil {
			return 0, state, err
		}
	}
	if req.BrightnessMode != "" {
		if state.BrightnessMode, err = lights.ParseBrightnessMode(req.BrightnessMode); err != nil {
			return 0, state, err
		}
	}
	if err := state.Validate(); err != nil {
		return 0, state, err
	}
	return id, state, nil
}
