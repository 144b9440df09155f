package lights

import (
	"fmt"
	"slices"
	"time"

	"github.com/smazurov/lightnode/internal/battery"
	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/led"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics"
	"github.com/smazurov/lightnode/internal/sysfs"
)

// ServiceOptions holds the dependencies of a Service. Only Profile is
// required; Driver and Classifier are built from it when nil.
type ServiceOptions struct {
	Profile    *device.Profile
	Driver     led.Driver
	Classifier *battery.Classifier
	EventBus   *events.Bus
	Logger     logging.Logger
}

// Service dispatches light requests to the backlight and notification
// handlers. It keeps no per-request state; the light list is fixed at
// construction.
type Service struct {
	lights     []HwLight
	backlight  *backlight
	driver     led.Driver
	classifier *battery.Classifier
	eventBus   *events.Bus
	logger     logging.Logger
}

// New creates a light service for the given profile.
func New(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger("lights")
	}
	p := opts.Profile

	s := &Service{
		driver:     opts.Driver,
		classifier: opts.Classifier,
		eventBus:   opts.EventBus,
		logger:     logger,
	}

	if s.driver == nil {
		s.driver = led.New(p, logging.GetLogger("led"))
	}
	if s.classifier == nil {
		batteryLogger := logging.GetLogger("battery")
		s.classifier = battery.NewClassifier(
			sysfs.NewNode(p.Root, p.Battery.Status, batteryLogger),
			sysfs.NewNode(p.Root, p.Battery.Capacity, batteryLogger),
			batteryLogger,
		)
	}
	if p.HasBacklight() {
		s.backlight = newBacklight(p, logger)
	}

	s.lights = buildLights(p.HasBacklight())
	return s
}

// buildLights returns the supported lights in order of importance.
func buildLights(hasBacklight bool) []HwLight {
	types := []LightType{Attention}
	if hasBacklight {
		types = append(types, Backlight)
	}
	types = append(types, Battery, Notifications)

	lights := make([]HwLight, len(types))
	for i, t := range types {
		lights[i] = HwLight{ID: int(t), Type: t, Ordinal: i}
	}
	return lights
}

// GetLights returns the supported lights.
func (s *Service) GetLights() []HwLight {
	s.logger.Info("Lights reporting supported lights")
	return slices.Clone(s.lights)
}

// SetLightState applies state to the light with the given id. The only
// error is ErrUnsupportedOperation; hardware write failures are logged.
func (s *Service) SetLightState(id int, state HwLightState) error {
	s.logger.Info("Lights setting state", "id", id, "color", formatColor(state.Color))

	lightType := LightType(id)

	var err error
	switch lightType {
	case Attention, Battery, Notifications:
		err = s.handleNotification(state)
	case Backlight:
		if s.backlight == nil {
			return s.unsupported(lightType)
		}
		err = s.backlight.set(state)
	default:
		return s.unsupported(lightType)
	}

	if err != nil {
		s.logger.Warn("Light update incomplete", "id", id, "error", err)
	}
	metrics.RecordRequest(lightType.String(), true)

	s.publish(events.LightStateChangedEvent{
		LightID:    id,
		LightType:  lightType.String(),
		Color:      formatColor(state.Color),
		FlashMode:  state.FlashMode.String(),
		FlashOnMs:  state.FlashOnMs,
		FlashOffMs: state.FlashOffMs,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
	return nil
}

// BatteryState classifies the power supply and announces the result.
func (s *Service) BatteryState() battery.State {
	state := s.classifier.Classify()
	s.publish(events.BatteryStateEvent{
		State:     state.String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return state
}

// Driver returns the notification LED driver in use.
func (s *Service) Driver() led.Driver {
	return s.driver
}

func (s *Service) handleNotification(state HwLightState) error {
	_, red, green, blue := channels(state.Color)
	color := led.Color{Red: int(red), Green: int(green), Blue: int(blue)}

	switch state.FlashMode {
	case FlashTimed, FlashHardware:
		return s.driver.Blink(color, state.FlashOnMs, state.FlashOffMs)
	default:
		return s.driver.Indicate(s.BatteryState(), color)
	}
}

func (s *Service) unsupported(t LightType) error {
	metrics.RecordRequest(t.String(), false)
	return NewError(ErrCodeUnsupportedOperation, fmt.Sprintf("light %d (%s) is not supported", int(t), t), nil)
}

func (s *Service) publish(ev events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ev)
	}
}

func formatColor(c uint32) string {
	return fmt.Sprintf("0x%08x", c)
}
