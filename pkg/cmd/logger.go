package cmd

import (
	"context"
	"log/slog"
	"os"
)

// ContextHandler enriches log records with the application name and version and with the request
// and chat ids found in the context.
type ContextHandler struct {
	slog.Handler
	ver string
	app string
}

// Handle adds req_id and chat_id from ctx when present, then app and ver, and delegates to the embedded handler.

//nolint:gocritic // ignore this linting rule
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID, ok := ctx.Value("req_id").(string); ok {
		r.AddAttrs(slog.String("req_id", requestID))
	}
	if chatID, ok := ctx.Value("chat_id").(string); ok {
		r.AddAttrs(slog.String("chat_id", chatID))
	}

	r.AddAttrs(slog.String("app", h.app), slog.String("ver", h.ver))

	return h.Handler.Handle(ctx, r)
}

// initLogger sets the default slog logger. It fails on an unknown log level.
func initLogger(arg *args) error {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(arg.LogLevel)); err != nil {
		return err
	}

	options := &slog.HandlerOptions{
		Level: logLevel,
	}

	var logHandler slog.Handler
	if arg.TextFormat {
		logHandler = slog.NewTextHandler(os.Stdout, options)
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, options)
	}

	ctxHandler := &ContextHandler{
		Handler: logHandler,
		ver:     arg.version,
		app:     "intakebot",
	}

	logger := slog.New(ctxHandler)

	slog.SetDefault(logger)

	return nil
}
