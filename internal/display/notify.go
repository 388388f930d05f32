package display

import (
	"fmt"
	"log/slog"

	"github.com/claude/repclock/internal/engine"
	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = "org.freedesktop.Notifications.Notify"
)

// Notifier renders rest-timer state as desktop notifications over the
// session D-Bus. Each transition replaces the previous notification, so
// the surface shows a single updating countdown. Wrap it in an
// engine.CoalescingDisplay when the notification daemon should not be
// hit on every tick.
type Notifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	log  *slog.Logger

	// id of the last notification, reused so updates replace it
	id           uint32
	exerciseName string
	totalSeconds int
}

var _ engine.LiveDisplay = (*Notifier)(nil)

// NewNotifier connects to the session bus. Callers should fall back to
// engine.NopDisplay when this fails (headless hosts, no session bus).
func NewNotifier(log *slog.Logger) (*Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting session bus: %w", err)
	}
	return &Notifier{
		conn: conn,
		obj:  conn.Object(notifyService, dbus.ObjectPath(notifyPath)),
		log:  log,
	}, nil
}

func (n *Notifier) TimerStarted(exerciseName string, totalSeconds int) {
	n.exerciseName = exerciseName
	n.totalSeconds = totalSeconds
	n.id = 0 // new timer, new notification
	n.notify("Rest started", fmt.Sprintf("%s - %s rest", exerciseName, engine.FormatDuration(totalSeconds)))
}

func (n *Notifier) TimerUpdated(remainingSeconds int, paused bool) {
	body := fmt.Sprintf("%s - %s remaining", n.exerciseName, engine.FormatDuration(remainingSeconds))
	if paused {
		n.notify("Rest paused", body)
		return
	}
	n.notify("Resting", body)
}

func (n *Notifier) TimerEnded() {
	n.notify("Rest over", fmt.Sprintf("%s - back to work", n.exerciseName))
	n.id = 0
}

func (n *Notifier) notify(summary, body string) {
	call := n.obj.Call(notifyMethod, 0,
		"RepClock",    // app_name
		n.id,          // replaces_id
		"alarm-timer", // app_icon
		summary,
		body,
		[]string{}, // actions
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		int32(-1), // expire_timeout: server default
	)
	if call.Err != nil {
		n.log.Warn("notification failed", "error", call.Err)
		return
	}
	if err := call.Store(&n.id); err != nil {
		n.log.Warn("notification id decode failed", "error", err)
	}
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}
