// Package notify sends desktop notifications about provider switches.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xabinapal/ccswitch/internal/types"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifySwitch reports that a provider became active.
	NotifySwitch(app types.AppKind, provider string) error
	// NotifyFailure reports that switching to a provider failed.
	NotifyFailure(app types.AppKind, provider string, err error) error
}

// Backend delivers notifications to the desktop.
type Backend interface {
	// Notify sends a standard notification.
	Notify(title, message, iconPath string) error
	// Alert sends an alert notification.
	Alert(title, message, iconPath string) error
}

// beeepBackend implements Backend with beeep.
type beeepBackend struct{}

func (beeepBackend) Notify(title, message, iconPath string) error {
	return beeep.Notify(title, message, iconPath)
}

func (beeepBackend) Alert(title, message, iconPath string) error {
	return beeep.Alert(title, message, iconPath)
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// WithIcon sets the icon shown with each notification.
func WithIcon(path string) Option {
	return func(n *notifier) {
		n.icon = path
	}
}

type notifier struct {
	backend Backend
	icon    string
}

// New creates a desktop Notifier.
func New(opts ...Option) Notifier {
	n := &notifier{backend: beeepBackend{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *notifier) NotifySwitch(app types.AppKind, provider string) error {
	title := "ccswitch: " + app.DisplayName()
	message := fmt.Sprintf("Switched to '%s'.", provider)
	return n.backend.Notify(title, message, n.icon)
}

func (n *notifier) NotifyFailure(app types.AppKind, provider string, err error) error {
	title := "ccswitch: " + app.DisplayName() + " switch failed"
	message := fmt.Sprintf("Could not switch to '%s'.\nError: %v", provider, err)
	return n.backend.Alert(title, message, n.icon)
}

// Nop returns a Notifier that does nothing.
func Nop() Notifier {
	return nopNotifier{}
}

type nopNotifier struct{}

func (nopNotifier) NotifySwitch(types.AppKind, string) error { return nil }

func (nopNotifier) NotifyFailure(types.AppKind, string, error) error { return nil }
