package systemd

import (
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"
)

func TestNotifierStates(t *testing.T) {
	var got []string
	n := &Notifier{
		notify: func(unset bool, state string) (bool, error) {
			if unset {
				t.Error("notifier must keep NOTIFY_SOCKET for later messages")
			}
			got = append(got, state)
			return true, nil
		},
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	n.Ready()
	n.Reloading()
	n.Ready()
	n.Stopping()

	want := []string{"READY=1", "RELOADING=1", "READY=1", "STOPPING=1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("states = %v, want %v", got, want)
	}
}

func TestNotifierErrorIsNotFatal(t *testing.T) {
	n := &Notifier{
		notify: func(bool, string) (bool, error) { return false, errors.New("socket gone") },
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
	n.Ready()
	n.Stopping()
}

func TestNewNotifierWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	NewNotifier(nil).Ready()
}
