package exporters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smazurov/lightnode/internal/metrics"
)

func TestHTTPHandler(t *testing.T) {
	handler := HTTPHandler()
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	// Touch each vector so the series exist
	metrics.RecordWrite(true)
	metrics.RecordRequest("NOTIFICATIONS", true)
	metrics.RecordBatteryState("full")
	metrics.SetBatteryStatus("Charging")
	metrics.SetBatteryCapacity(57)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, name := range []string{
		"lightnode_sysfs_writes_total",
		"lightnode_lights_requests_total",
		"lightnode_battery_classifications_total",
		`lightnode_battery_status{status="Charging"} 1`,
		"lightnode_battery_capacity_percent 57",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in response", name)
		}
	}
}
