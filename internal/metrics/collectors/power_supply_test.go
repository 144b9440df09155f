package collectors

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smazurov/lightnode/internal/sysfs"
)

func newTestCollector(t *testing.T, status, capacity string) *PowerSupplyCollector {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	statusPath := filepath.Join(dir, "status")
	capacityPath := filepath.Join(dir, "capacity")
	if status != "" {
		if err := os.WriteFile(statusPath, []byte(status), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if capacity != "" {
		if err := os.WriteFile(capacityPath, []byte(capacity), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return NewPowerSupplyCollector(
		sysfs.NewNode("", statusPath, logger),
		sysfs.NewNode("", capacityPath, logger),
		time.Hour,
		logger,
	)
}

func TestPowerSupplySample(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		capacity     string
		wantStatus   string
		wantCapacity int
		wantErr      bool
	}{
		{"charging", "Charging\n", "57\n", "Charging", 57, false},
		{"two word status", "Not charging\n", "100\n", "Not charging", 100, false},
		{"empty status", "\n", "3", "Unknown", 3, false},
		{"missing capacity", "Discharging\n", "", "Discharging", -1, false},
		{"garbage capacity", "Full\n", "abc", "Full", -1, false},
		{"missing status", "", "50", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollector(t, tt.status, tt.capacity)
			status, capacity, err := c.sample()
			if (err != nil) != tt.wantErr {
				t.Fatalf("sample() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if capacity != tt.wantCapacity {
				t.Errorf("capacity = %d, want %d", capacity, tt.wantCapacity)
			}
		})
	}
}

func TestPowerSupplyCollectorLifecycle(t *testing.T) {
	c := newTestCollector(t, "Charging\n", "80\n")

	if err := c.Stop(); err != nil {
		t.Errorf("Stop() before Start() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}

	select {
	case <-c.ctx.Done():
	case <-time.After(time.Second):
		t.Error("collector context not cancelled after Stop()")
	}
}

func TestNewPowerSupplyCollectorDefaultInterval(t *testing.T) {
	c := NewPowerSupplyCollector(sysfs.Node{}, sysfs.Node{}, 0, slog.Default())
	if c.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", c.interval, DefaultInterval)
	}
}
