package notification

import (
	"context"
	"log/slog"
)

// Kind classifies a notification.
type Kind string

const (
	// KindTransferSent confirms an outgoing transfer to the source wallet owner.
	KindTransferSent Kind = "transfer_sent"
	// KindTransferReceived tells a wallet owner that money arrived from another wallet.
	KindTransferReceived Kind = "transfer_received"
)

// Message is addressed to a single user.
type Message struct {
	Kind     Kind
	UserID   int64
	WalletID int64
	Body     string
}

// Notifier delivers notifications to downstream systems. Delivery is best
// effort: callers log failures and carry on.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier emits each message as a structured log line. It is the only
// delivery channel today.
type LoggerNotifier struct {
	logger *slog.Logger
}

func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "notification",
		slog.String("kind", string(message.Kind)),
		slog.Int64("user_id", message.UserID),
		slog.Int64("wallet_id", message.WalletID),
		slog.String("body", message.Body),
	)
	return nil
}
