// Package collectors samples device state into Prometheus gauges.
package collectors

import (
	"context"
	"strings"
	"time"

	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics"
	"github.com/smazurov/lightnode/internal/sysfs"
)

// DefaultInterval is the power_supply sampling period.
const DefaultInterval = 30 * time.Second

// PowerSupplyCollector samples the raw power_supply status and capacity.
// It does not classify; the lights service does that per request.
type PowerSupplyCollector struct {
	logger   logging.Logger
	status   sysfs.Node
	capacity sysfs.Node
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPowerSupplyCollector creates a collector over the given attribute nodes.
func NewPowerSupplyCollector(status, capacity sysfs.Node, interval time.Duration, logger logging.Logger) *PowerSupplyCollector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PowerSupplyCollector{
		logger:   logger,
		status:   status,
		capacity: capacity,
		interval: interval,
	}
}

// Start begins sampling.
func (p *PowerSupplyCollector) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)
	go p.run()
	return nil
}

// Stop stops sampling.
func (p *PowerSupplyCollector) Stop() error {
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func (p *PowerSupplyCollector) run() {
	p.logger.Info("Starting power supply metrics collection", "status", p.status.Path(), "interval", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectMetrics()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.collectMetrics()
		}
	}
}

func (p *PowerSupplyCollector) collectMetrics() {
	status, capacity, err := p.sample()
	if err != nil {
		p.logger.Debug("Skipping power supply sample", "error", err)
		return
	}
	metrics.SetBatteryStatus(status)
	if capacity >= 0 {
		metrics.SetBatteryCapacity(capacity)
	}
}

// sample returns the status token and the capacity, or -1 when the
// capacity attribute is unreadable.
func (p *PowerSupplyCollector) sample() (string, int, error) {
	raw, err := p.status.ReadString(0)
	if err != nil {
		return "", 0, err
	}
	status := strings.TrimSpace(raw)
	if status == "" {
		status = "Unknown"
	}

	capacity, err := p.capacity.ReadInt()
	if err != nil {
		capacity = -1
	}
	return status, capacity, nil
}
