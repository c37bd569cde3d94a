package notify

import (
	"fmt"
	"log/slog"
)

// Notifier delivers overdue notices to readers.
type Notifier interface {
	SendOverdueNotice(toEmail, readerName, bookTitle, dueDate string) error
}

// LogNotifier is a stub implementation that writes notices to the log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendOverdueNotice(toEmail, readerName, bookTitle, dueDate string) error {
	slog.Info("sending notification",
		"type", "email",
		"to", toEmail,
		"subject", fmt.Sprintf("Overdue reminder: %s", bookTitle),
		"body", fmt.Sprintf("Dear %s, the book '%s' was due on %s. Please return it to the library.", readerName, bookTitle, dueDate),
	)
	return nil
}
