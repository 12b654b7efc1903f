package dashboard

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a transient, human-readable message about an action.
type Notification struct {
	Level   Level
	Message string
}

// Notifier surfaces notifications to the user. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// WriterNotifier prints errors as "Error: <message>" and info as plain lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if note.Level == LevelError {
		fmt.Fprintf(n.w, "Error: %s\n", note.Message)
		return
	}
	fmt.Fprintln(n.w, note.Message)
}

// logNotifier records notifications in the log only.
type logNotifier struct{ logger *slog.Logger }

func (n logNotifier) Notify(note Notification) {
	if note.Level == LevelError {
		n.logger.Warn("notification", "message", note.Message)
		return
	}
	n.logger.Info("notification", "message", note.Message)
}

// failure formats the message shown when action fails.
func failure(action string, err error) Notification {
	return Notification{Level: LevelError, Message: fmt.Sprintf("failed to %s: %v", action, err)}
}
