package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/ksysoev/intakebot/pkg/bot/middleware"
	"github.com/ksysoev/intakebot/pkg/core"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultMaxConcurrency = 30
	shutdownTimeout       = 30 * time.Second
)

// tgClient is the part of the Telegram bot API the service uses.
type tgClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// IntakeService runs patient consultations.
type IntakeService interface {
	ListProducts(ctx context.Context) []core.Product
	StartConsultation(ctx context.Context, userID, productID string) (*core.Response, error)
	HandleMessage(ctx context.Context, userID, text string) (*core.Response, error)
	CurrentQuestion(ctx context.Context, userID string) (*core.Response, error)
	GoBack(ctx context.Context, userID string) (*core.Response, error)
	ResetFlow(ctx context.Context, userID string) error
	ConsultationStatus(ctx context.Context, userID string) ([]core.Consultation, error)
}

// Config holds the configuration for the Telegram bot
type Config struct {
	TelegramToken  string        `mapstructure:"telegram_token"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

type Service struct {
	tg             tgClient
	intakeSvc      IntakeService
	handler        Handler
	seq            *middleware.Sequencer
	token          string
	timeout        time.Duration
	maxConcurrency int
}

// New creates a new bot service with the given configuration and intake service.
func New(cfg *Config, intakeSvc IntakeService) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newService(cfg, bot, intakeSvc), nil
}

func newService(cfg *Config, tg tgClient, intakeSvc IntakeService) *Service {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	s := &Service{
		token:          cfg.TelegramToken,
		tg:             tg,
		intakeSvc:      intakeSvc,
		seq:            middleware.NewSequencer(),
		timeout:        timeout,
		maxConcurrency: maxConcurrency,
	}

	s.handler = s.setupHandler()

	return s
}

func (s *Service) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message

	// nolint:staticcheck // don't want to have dependecy on cmd package here for now
	ctx = context.WithValue(ctx, "chat_id", fmt.Sprintf("%d", msg.Chat.ID))

	msgConfig, err := s.handler.Handle(ctx, msg)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.InfoContext(ctx, "Request cancelled", slog.Any("error", err))

		return
	} else if err != nil {
		slog.ErrorContext(ctx, "Unexpected error",
			slog.Any("error", err),
		)

		return
	}

	// Skip sending if message is empty
	if msgConfig.Text == "" {
		return
	}

	if _, err := s.tg.Send(msgConfig); err != nil {
		slog.ErrorContext(ctx, "Failed to send message",
			slog.Any("error", err),
		)
	}
}

// Run receives updates until ctx is done, then waits for in-flight messages to be handled.
func (s *Service) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting Telegram bot")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := s.tg.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}

			// The turn is taken here, before the goroutine starts, to keep the order of updates within a chat.
			var turn *middleware.Turn
			if update.Message != nil && update.Message.Chat != nil {
				turn = s.seq.Enqueue(update.Message.Chat.ID)
			}

			wg.Add(1)

			go func() {
				defer wg.Done()

				// In-flight requests finish on shutdown, they are bounded by the request timeout.
				reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
				defer cancel()

				if turn != nil {
					defer turn.Done()

					reqCtx = middleware.WithTurn(reqCtx, turn)
				}

				// nolint:staticcheck // don't want to have dependecy on cmd package here for now
				reqCtx = context.WithValue(reqCtx, "req_id", uuid.New().String())

				s.processUpdate(reqCtx, &update)
			}()

		case <-ctx.Done():
			slog.Info("Starting graceful shutdown")
			s.tg.StopReceivingUpdates()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()

			select {
			case <-done:
				slog.Info("Graceful shutdown completed")
			case <-time.After(shutdownTimeout):
				slog.Warn("Graceful shutdown timed out", slog.Duration("timeout", shutdownTimeout))
			}

			return nil
		}
	}
}
