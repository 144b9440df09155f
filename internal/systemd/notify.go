// Package systemd reports service lifecycle to systemd over sd_notify.
package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/lightnode/internal/logging"
)

// Notifier sends sd_notify state messages. Outside a Type=notify unit
// NOTIFY_SOCKET is unset and every call is a no-op.
type Notifier struct {
	notify func(unsetEnvironment bool, state string) (bool, error)
	logger logging.Logger
}

// NewNotifier creates a notifier backed by daemon.SdNotify.
func NewNotifier(logger logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.GetLogger("main")
	}
	return &Notifier{notify: daemon.SdNotify, logger: logger}
}

// Ready tells systemd startup has finished.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping tells systemd shutdown has begun.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Reloading tells systemd the configuration is being reloaded. Ready must
// follow once the reload completes.
func (n *Notifier) Reloading() {
	n.send(daemon.SdNotifyReloading)
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(false, state)
	switch {
	case err != nil:
		n.logger.Warn("Failed to notify systemd", "state", state, "error", err)
	case sent:
		n.logger.Debug("Notified systemd", "state", state)
	}
}
