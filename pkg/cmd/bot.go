package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ksysoev/intakebot/pkg/api"
	"github.com/ksysoev/intakebot/pkg/bot"
	"github.com/ksysoev/intakebot/pkg/catalog"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/prov"
	"github.com/ksysoev/intakebot/pkg/repo"
)

func runBot(ctx context.Context, arg *args) error {
	cfg, closeStore, svc, err := setup(arg)
	if err != nil {
		return err
	}

	defer closeStore()

	b, err := bot.New(&cfg.Bot, svc)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	return b.Run(ctx)
}

func runAPI(ctx context.Context, arg *args) error {
	cfg, closeStore, svc, err := setup(arg)
	if err != nil {
		return err
	}

	defer closeStore()

	return api.New(&cfg.API, svc).Run(ctx)
}

// setup initializes logging and builds the intake service shared by both front ends.
func setup(arg *args) (*appConfig, func(), *core.Service, error) {
	if err := initLogger(arg); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(arg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	questionnaires, err := catalog.New(cfg.Catalog)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	store := repo.New(&cfg.Repo)
	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", slog.Any("error", err))
		}
	}

	svc := core.New(cfg.Intake, store, questionnaires, prov.New(cfg.Checkout))

	return cfg, closeStore, svc, nil
}
