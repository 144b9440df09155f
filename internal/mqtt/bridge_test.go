package mqtt

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/lights"
)

type published struct {
	topic   string
	payload []byte
	retain  bool
}

// fakeClient records publishes and keeps subscriptions so tests can
// deliver messages.
type fakeClient struct {
	mu        sync.Mutex
	published chan published
	handlers  map[string]Handler
	subErr    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		published: make(chan published, 10),
		handlers:  make(map[string]Handler),
	}
}

func (f *fakeClient) Subscribe(topic string, cb Handler) error {
	if f.subErr != nil {
		return f.subErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = cb
	return nil
}

func (f *fakeClient) Unsubscribe(topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, topic)
	return nil
}

func (f *fakeClient) PublishWith(topic string, payload []byte, retain bool) error {
	f.published <- published{topic: topic, payload: payload, retain: retain}
	return nil
}

func (f *fakeClient) Close() {}

func (f *fakeClient) deliver(t *testing.T, filter, topic, payload string) {
	t.Helper()
	f.mu.Lock()
	h, ok := f.handlers[filter]
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no subscription for %s", filter)
	}
	h(nil, &fakeMessage{topic: topic, payload: []byte(payload)})
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

type setCall struct {
	id    int
	state lights.HwLightState
}

type mockLights struct {
	calls []setCall
	err   error
}

func (m *mockLights) SetLightState(id int, state lights.HwLightState) error {
	m.calls = append(m.calls, setCall{id: id, state: state})
	return m.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitPublished(t *testing.T, f *fakeClient) published {
	t.Helper()
	select {
	case p := <-f.published:
		return p
	case <-time.After(time.Second):
		t.Fatal("nothing published")
		return published{}
	}
}

func TestBridgePublishesRetainedState(t *testing.T) {
	client := newFakeClient()
	bus := events.New()
	bridge := NewBridge(BridgeOptions{
		Client:      client,
		EventBus:    bus,
		TopicPrefix: "lightnode/",
		Logger:      newTestLogger(),
	})
	if err := bridge.Start(); err != nil {
		t.Fatal(err)
	}
	defer bridge.Stop()

	bus.Publish(events.LightStateChangedEvent{LightID: 4, LightType: "NOTIFICATIONS", Color: "0xff00ff00", FlashMode: "TIMED"})
	p := waitPublished(t, client)
	if p.topic != "lightnode/lights/notifications/state" || !p.retain {
		t.Errorf("published %s retain=%v", p.topic, p.retain)
	}
	var got events.LightStateChangedEvent
	if err := json.Unmarshal(p.payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.Color != "0xff00ff00" || got.FlashMode != "TIMED" {
		t.Errorf("payload = %+v", got)
	}

	bus.Publish(events.BatteryStateEvent{State: "charging"})
	p = waitPublished(t, client)
	if p.topic != "lightnode/battery/state" || string(p.payload) == "" {
		t.Errorf("published %s %s", p.topic, p.payload)
	}
}

func TestBridgeStopUnsubscribes(t *testing.T) {
	client := newFakeClient()
	bus := events.New()
	bridge := NewBridge(BridgeOptions{
		Client:      client,
		EventBus:    bus,
		Lights:      &mockLights{},
		TopicPrefix: "lightnode",
		Logger:      newTestLogger(),
	})
	if err := bridge.Start(); err != nil {
		t.Fatal(err)
	}
	bridge.Stop()

	if len(client.handlers) != 0 {
		t.Errorf("subscriptions left after Stop: %v", client.handlers)
	}

	bus.Publish(events.BatteryStateEvent{State: "full"})
	select {
	case p := <-client.published:
		t.Errorf("published after Stop: %s", p.topic)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBridgeStartSubscribeError(t *testing.T) {
	client := newFakeClient()
	client.subErr = errors.New("not connected")

	bridge := NewBridge(BridgeOptions{
		Client:      client,
		EventBus:    events.New(),
		Lights:      &mockLights{},
		TopicPrefix: "lightnode",
		Logger:      newTestLogger(),
	})
	if err := bridge.Start(); err == nil {
		t.Fatal("Start() should fail when subscribe fails")
	}
	if len(bridge.unsubscribes) != 0 {
		t.Error("failed Start should release bus subscriptions")
	}
}

func TestBridgeForwardsSetRequests(t *testing.T) {
	client := newFakeClient()
	svc := &mockLights{}
	bridge := NewBridge(BridgeOptions{
		Client:      client,
		Lights:      svc,
		TopicPrefix: "lightnode",
		Logger:      newTestLogger(),
	})
	if err := bridge.Start(); err != nil {
		t.Fatal(err)
	}
	defer bridge.Stop()

	client.deliver(t, "lightnode/lights/+/set", "lightnode/lights/attention/set",
		`{"color": 4294901760, "flash_mode": "timed", "flash_on_ms": 250, "flash_off_ms": 750}`)
	// Malformed requests never reach the service
	client.deliver(t, "lightnode/lights/+/set", "lightnode/lights/strobe/set", `{}`)
	client.deliver(t, "lightnode/lights/+/set", "lightnode/lights/5/set", `not json`)

	if len(svc.calls) != 1 {
		t.Fatalf("SetLightState called %d times, want 1", len(svc.calls))
	}
	want := setCall{
		id:    int(lights.Attention),
		state: lights.HwLightState{Color: 0xFFFF0000, FlashMode: lights.FlashTimed, FlashOnMs: 250, FlashOffMs: 750},
	}
	if svc.calls[0] != want {
		t.Errorf("call = %+v, want %+v", svc.calls[0], want)
	}
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		wantID  lights.LightType
		wantErr bool
	}{
		{"by name", "p/lights/backlight/set", `{"color": 1}`, lights.Backlight, false},
		{"by number", "p/lights/4/set", `{}`, lights.Notifications, false},
		{"unsupported ids still parse", "p/lights/9/set", `{}`, lights.Camera, false},
		{"wrong prefix", "q/lights/4/set", `{}`, 0, true},
		{"nested", "p/lights/a/b/set", `{}`, 0, true},
		{"state topic", "p/lights/4/state", `{}`, 0, true},
		{"bad flash mode", "p/lights/4/set", `{"flash_mode": "strobe"}`, 0, true},
		{"numeric flash mode", "p/lights/4/set", `{"flash_mode": "1"}`, lights.Notifications, false},
		{"flash mode out of range", "p/lights/4/set", `{"flash_mode": "7"}`, 0, true},
		{"negative on time", "p/lights/4/set", `{"flash_mode": "timed", "flash_on_ms": -5}`, 0, true},
		{"negative off time", "p/lights/4/set", `{"flash_off_ms": -1}`, 0, true},
		{"brightness mode", "p/lights/0/set", `{"brightness_mode": "SENSOR"}`, lights.Backlight, false},
		{"bad brightness mode", "p/lights/0/set", `{"brightness_mode": "dim"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, err := parseSet("p", tt.topic, []byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSet() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.wantID {
				t.Errorf("parseSet() id = %v, want %v", id, tt.wantID)
			}
		})
	}

	_, state, err := parseSet("p", "p/lights/4/set",
		[]byte(`{"color": 255, "flash_mode": "HARDWARE", "flash_on_ms": 100, "flash_off_ms": 200, "brightness_mode": "low_persistence"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := lights.HwLightState{
		Color:          255,
		FlashMode:      lights.FlashHardware,
		FlashOnMs:      100,
		FlashOffMs:     200,
		BrightnessMode: lights.BrightnessLowPersistence,
	}
	if state != want {
		t.Errorf("parseSet() state = %+v, want %+v", state, want)
	}

	if StatusTopic("lightnode/") != "lightnode/status" {
		t.Errorf("StatusTopic() = %q", StatusTopic("lightnode/"))
	}
}
