package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ksysoev/intakebot/pkg/api"
	"github.com/ksysoev/intakebot/pkg/bot"
	"github.com/ksysoev/intakebot/pkg/catalog"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/prov"
	"github.com/ksysoev/intakebot/pkg/repo"
	"github.com/spf13/viper"
)

type appConfig struct {
	Bot      bot.Config     `mapstructure:"bot"`
	API      api.Config     `mapstructure:"api"`
	Repo     repo.Config    `mapstructure:"repo"`
	Checkout prov.Config    `mapstructure:"checkout"`
	Catalog  catalog.Config `mapstructure:"catalog"`
	Intake   core.Config    `mapstructure:"intake"`
}

// loadConfig loads the application configuration using the provided arguments and environment variables.
// Variables from a .env file in the working directory are loaded first, without overriding the environment.
// It returns a pointer to appConfig or an error if loading or unmarshalling fails.
func loadConfig(arg *args) (*appConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	if arg.ConfigPath != "" {
		v.SetConfigFile(arg.ConfigPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg appConfig

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	slog.Debug("Config loaded",
		slog.String("redis_addr", cfg.Repo.RedisAddr),
		slog.String("checkout_url", cfg.Checkout.Url),
		slog.String("api_listen", cfg.API.Listen),
	)

	return &cfg, nil
}
