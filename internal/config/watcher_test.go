package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/lightnode/internal/logging"
)

const testDebounce = 50 * time.Millisecond

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// startWatcher writes initial to config.toml in a temp dir and starts a
// logging config watcher on it.
func startWatcher(t *testing.T, initial string, opts ...WatcherOption[logging.Config]) (*Watcher[logging.Config], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, initial)

	opts = append([]WatcherOption[logging.Config]{WithDebounce[logging.Config](testDebounce)}, opts...)
	w := NewConfigWatcher(path, ReadLoggingConfig, newTestLogger(), opts...)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop() = %v", err)
		}
	})
	return w, path
}

func waitReload(t *testing.T, ch <-chan logging.Config) logging.Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
		return logging.Config{}
	}
}

func expectNoReload(t *testing.T, ch <-chan logging.Config) {
	t.Helper()
	select {
	case cfg := <-ch:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(6 * testDebounce):
	}
}

func TestWatcherReloadsLogLevels(t *testing.T) {
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	writeConfig(t, path, "[logging]\nlevel = \"debug\"\nsysfs = \"warn\"\n")

	cfg := waitReload(t, received)
	if cfg.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Level)
	}
	if cfg.Modules["sysfs"] != "warn" {
		t.Errorf("Modules[sysfs] = %q, want warn", cfg.Modules["sysfs"])
	}
}

func TestWatcherSeesRenameSave(t *testing.T) {
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	// Editors commonly write a sibling and rename it over the original
	tmp := filepath.Join(filepath.Dir(path), ".config.toml.swp")
	writeConfig(t, tmp, "[logging]\nlevel = \"error\"\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	if cfg := waitReload(t, received); cfg.Level != "error" {
		t.Errorf("Level = %q, want error", cfg.Level)
	}
}

func TestWatcherSkipsUnchangedConfig(t *testing.T) {
	const content = "[logging]\nlevel = \"info\"\nmqtt = \"debug\"\n"
	w, path := startWatcher(t, content)

	received := make(chan logging.Config, 2)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	writeConfig(t, path, content)
	expectNoReload(t, received)

	writeConfig(t, path, "[logging]\nlevel = \"info\"\nmqtt = \"warn\"\n")
	if cfg := waitReload(t, received); cfg.Modules["mqtt"] != "warn" {
		t.Errorf("Modules[mqtt] = %q, want warn", cfg.Modules["mqtt"])
	}
}

func TestWatcherParseErrorKeepsSettings(t *testing.T) {
	var errCount atomic.Int32
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n",
		WithErrorHandler[logging.Config](func(error) { errCount.Add(1) }))

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	writeConfig(t, path, "[logging\nlevel = ")
	expectNoReload(t, received)
	if errCount.Load() == 0 {
		t.Error("error handler not called for unparsable config")
	}

	// A fixed file still reloads
	writeConfig(t, path, "[logging]\nlevel = \"warn\"\n")
	if cfg := waitReload(t, received); cfg.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Level)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n")

	var calls atomic.Int32
	received := make(chan logging.Config, 5)
	w.OnReload(func(cfg logging.Config) {
		calls.Add(1)
		received <- cfg
	})

	for _, level := range []string{"debug", "warn", "error"} {
		writeConfig(t, path, "[logging]\nlevel = \""+level+"\"\n")
		time.Sleep(testDebounce / 5)
	}

	if cfg := waitReload(t, received); cfg.Level != "error" {
		t.Errorf("Level = %q, want the last written value", cfg.Level)
	}
	time.Sleep(4 * testDebounce)
	if n := calls.Load(); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	writeConfig(t, filepath.Join(filepath.Dir(path), "profile.toml"), "name = \"custom\"\n")
	expectNoReload(t, received)
}

func TestWatcherUnsubscribe(t *testing.T) {
	w, path := startWatcher(t, "[logging]\nlevel = \"info\"\n")

	var removedCalls atomic.Int32
	unsubscribe := w.OnReload(func(logging.Config) { removedCalls.Add(1) })

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	unsubscribe()
	writeConfig(t, path, "[logging]\nlevel = \"debug\"\n")

	waitReload(t, received)
	if n := removedCalls.Load(); n != 0 {
		t.Errorf("removed handler called %d times", n)
	}
}

func TestWatcherStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")

	w := NewConfigWatcher(path, ReadLoggingConfig, newTestLogger(), WithDebounce[logging.Config](testDebounce))
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() before Start() = %v", err)
	}

	w = NewConfigWatcher(path, ReadLoggingConfig, newTestLogger(), WithDebounce[logging.Config](testDebounce))
	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) { received <- cfg })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}

	writeConfig(t, path, "[logging]\nlevel = \"debug\"\n")
	expectNoReload(t, received)
}

func TestWatcherStartMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	w := NewConfigWatcher(path, ReadLoggingConfig, newTestLogger())
	if err := w.Start(); err == nil {
		_ = w.Stop()
		t.Fatal("Start() should fail when the config directory does not exist")
	}
}
