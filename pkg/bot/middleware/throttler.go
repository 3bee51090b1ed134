package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WithThrottler bounds the number of messages handled at the same time. A request whose context
// ends while waiting for a free slot is dropped with the context error.
func WithThrottler(limit int) Middleware {
	if limit < 1 {
		limit = 1
	}

	slots := make(chan struct{}, limit)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return tgbotapi.MessageConfig{}, ctx.Err()
			}

			defer func() { <-slots }()

			return next.Handle(ctx, message)
		})
	}
}
