package middleware

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const internalErrorMessage = "😔 Something went wrong on our side. Please try again in a moment."

// WithErrorHandling replaces internal errors with an apology to the user and logs them.
// Cancelled requests are passed through untouched, there is nobody left to reply to.
func WithErrorHandling() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
			resp, err := next.Handle(ctx, message)

			switch {
			case err == nil:
				return resp, nil
			case errors.Is(err, context.Canceled), message == nil:
				return resp, err
			}

			slog.ErrorContext(ctx, "Failed to handle message", slog.Any("error", err))

			return tgbotapi.NewMessage(message.Chat.ID, internalErrorMessage), nil
		})
	}
}
