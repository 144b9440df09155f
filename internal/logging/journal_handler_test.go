package logging

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func TestJournalFieldName(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"light_type"}, "LIGHT_TYPE"},
		{[]string{"request", "flash-mode"}, "REQUEST_FLASH_MODE"},
		{[]string{"_private"}, "PRIVATE"},
		{[]string{"2nd"}, "ND"},
		{[]string{"path.to"}, "PATH_TO"},
		{[]string{"---"}, ""},
	}

	for _, tt := range tests {
		if got := journalFieldName(tt.parts); got != tt.want {
			t.Errorf("journalFieldName(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestAddAttrToFields(t *testing.T) {
	fields := map[string]string{}
	attrs := []slog.Attr{
		slog.String("light_type", "NOTIFICATIONS"),
		slog.Int("on_ms", 250),
		slog.Bool("ok", true),
		slog.Float64("ratio", 0.5),
		slog.Duration("took", 1500*time.Millisecond),
		slog.Any("error", errors.New("write failed")),
		slog.Group("battery", slog.String("state", "low"), slog.Int("capacity", 5)),
		{},
	}
	for _, a := range attrs {
		addAttrToFields(fields, a, []string{"lights"})
	}

	want := map[string]string{
		"LIGHTS_LIGHT_TYPE":       "NOTIFICATIONS",
		"LIGHTS_ON_MS":            "250",
		"LIGHTS_OK":               "true",
		"LIGHTS_RATIO":            "0.5",
		"LIGHTS_TOOK":             "1.5s",
		"LIGHTS_ERROR":            "write failed",
		"LIGHTS_BATTERY_STATE":    "low",
		"LIGHTS_BATTERY_CAPACITY": "5",
	}
	if len(fields) != len(want) {
		t.Errorf("got %d fields, want %d: %v", len(fields), len(want), fields)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%s] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestJournalHandlerWithAttrs(t *testing.T) {
	h := NewJournalHandler(slog.LevelInfo)
	child := h.WithAttrs([]slog.Attr{slog.String("module", "sysfs")}).(*JournalHandler)

	if child.fields["MODULE"] != "sysfs" {
		t.Errorf("child fields = %v", child.fields)
	}
	if len(h.fields) != 0 {
		t.Errorf("parent fields modified: %v", h.fields)
	}
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the handler itself")
	}
	if grouped := child.WithGroup("req").(*JournalHandler); len(grouped.groups) != 1 || len(child.groups) != 0 {
		t.Errorf("WithGroup groups = %v, parent %v", grouped.groups, child.groups)
	}
}

func TestMapLevelToPriority(t *testing.T) {
	tests := map[slog.Level]journal.Priority{
		slog.LevelDebug:     journal.PriDebug,
		slog.LevelInfo:      journal.PriInfo,
		slog.LevelWarn:      journal.PriWarning,
		slog.LevelError:     journal.PriErr,
		slog.LevelError + 4: journal.PriErr,
	}
	for level, want := range tests {
		if got := mapLevelToPriority(level); got != want {
			t.Errorf("mapLevelToPriority(%v) = %v, want %v", level, got, want)
		}
	}
}
