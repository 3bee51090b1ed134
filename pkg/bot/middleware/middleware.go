package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler processes an incoming Telegram message and returns the reply to send.
type Handler interface {
	Handle(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error)

func (f HandlerFunc) Handle(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	return f(ctx, message)
}

// Middleware wraps a Handler with additional behaviour.
type Middleware func(next Handler) Handler

// Use wraps h with the given middlewares. The first middleware is the outermost one.
func Use(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}
