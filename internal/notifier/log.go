package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the log when Telegram is not configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "report").Logger()}
}

func (l *LogNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	l.log.Info().Msg("\n" + StripHTML(text))
	return nil
}
