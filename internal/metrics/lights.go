// Package metrics provides Prometheus metrics for the lights service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sysfsWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightnode",
		Subsystem: "sysfs",
		Name:      "writes_total",
		Help:      "Sysfs node writes by result",
	}, []string{"result"})

	lightRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightnode",
		Subsystem: "lights",
		Name:      "requests_total",
		Help:      "SetLightState requests by light type and result",
	}, []string{"light", "result"})

	batteryClassifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightnode",
		Subsystem: "battery",
		Name:      "classifications_total",
		Help:      "Battery state classifications by resulting state",
	}, []string{"state"})

	batteryCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lightnode",
		Subsystem: "battery",
		Name:      "capacity_percent",
		Help:      "Last sampled power_supply capacity",
	})

	batteryStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lightnode",
		Subsystem: "battery",
		Name:      "status",
		Help:      "Last sampled power_supply status token, 1 for the current one",
	}, []string{"status"})

	backlightBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lightnode",
		Subsystem: "backlight",
		Name:      "brightness",
		Help:      "Last brightness value written to the backlight node",
	})
)

// RecordWrite counts a single sysfs write.
func RecordWrite(ok bool) {
	sysfsWrites.WithLabelValues(result(ok)).Inc()
}

// RecordRequest counts a SetLightState call.
func RecordRequest(light string, ok bool) {
	lightRequests.WithLabelValues(light, result(ok)).Inc()
}

// RecordBatteryState counts a classifier result.
func RecordBatteryState(state string) {
	batteryClassifications.WithLabelValues(state).Inc()
}

// SetBatteryCapacity records a sampled capacity percentage.
func SetBatteryCapacity(percent int) {
	batteryCapacity.Set(float64(percent))
}

// SetBatteryStatus marks status as the current power_supply status.
func SetBatteryStatus(status string) {
	batteryStatus.Reset()
	batteryStatus.WithLabelValues(status).Set(1)
}

// SetBacklightBrightness records the last backlight value.
func SetBacklightBrightness(v int) {
	backlightBrightness.Set(float64(v))
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
