package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ksysoev/intakebot/pkg/bot/middleware"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
)

const (
	welcomeMessage = `👋 Welcome to the Intake Bot!

I will ask you a few questions about your health to check whether a treatment is right for you. It takes about five minutes.

Use /products to see the available treatments or /help to see all commands.`
	helpMessage = `Available Commands:

/start - Show welcome message
/help - Display this help message
/products - List available treatments
/consult <product> - Start or resume the questionnaire for a treatment
/back - Return to the previous question
/cancel - Cancel the current questionnaire
/status - Show your valid consultations

Answer questions with the keyboard buttons or by typing. Several options can be sent separated by commas.`
	unknownCommandMessage   = "❓ Unknown command.\n\nUse /help to see the list of available commands."
	notTextMessage          = "I can only read text answers. Try /help to see what I can do."
	noProductsMessage       = "There are no treatments available right now."
	productsHeader          = "Available treatments:\n"
	chooseProductMessage    = "Which treatment are you interested in?"
	unknownProductMessage   = "❌ Unknown treatment %q.\n\nUse /products to see the available treatments."
	noActiveFlowMessage     = "You have no questionnaire in progress.\n\nUse /products to pick a treatment and start one."
	flowCancelledMessage    = "Questionnaire has been cancelled. You can start over with /products."
	noConsultationsMessage  = "You have no valid consultations.\n\nUse /products to start one."
	consultationsHeader     = "Your valid consultations:\n"
	firstQuestionBotMessage = "You are already at the first question."
	consultDateLayout       = "2006-01-02"
)

// Handler defines the interface for processing and responding to incoming messages in a Telegram bot context.
// It handles a message by performing necessary processing and returns the configuration for the outgoing message or an error.
type Handler interface {
	Handle(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error)
}

// setupHandler initializes the request handler with its middleware stack: messages of a chat are
// handled in arrival order, the number of messages handled at once is bounded and internal errors
// are turned into an apology for the user.
func (s *Service) setupHandler() Handler {
	h := middleware.Use(
		s,
		middleware.WithErrorHandling(),
		middleware.WithRequestSequencer(s.seq),
		middleware.WithThrottler(s.maxConcurrency),
	)

	return h
}

// Handle processes incoming telegram messages: commands are dispatched, any other text is an answer
// to the current question.
func (s *Service) Handle(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	slog.DebugContext(ctx, "Handling message", slog.Any("message", msg))

	if msg.Command() != "" {
		resp, err := s.handleCommand(ctx, msg)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to handle command: %w", err)
		}

		return resp, nil
	}

	if msg.Text == "" {
		return newTextMessage(msg.Chat.ID, notTextMessage), nil
	}

	resp, err := s.intakeSvc.HandleMessage(ctx, userID(msg), msg.Text)

	switch {
	case errors.Is(err, core.ErrNoActiveFlow):
		return newTextMessage(msg.Chat.ID, noActiveFlowMessage), nil
	case err != nil:
		return tgbotapi.MessageConfig{}, fmt.Errorf("failed to handle text message: %w", err)
	}

	return newMessage(msg.Chat.ID, resp), nil
}

// handleCommand handles Telegram command messages and generates an appropriate response based on the command received.
func (s *Service) handleCommand(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	user := userID(msg)

	switch msg.Command() {
	case "start":
		if err := s.intakeSvc.ResetFlow(ctx, user); err != nil {
			slog.ErrorContext(ctx, "Failed to reset flow on start", slog.Any("error", err))
		}

		return newTextMessage(msg.Chat.ID, welcomeMessage), nil
	case "help":
		return newTextMessage(msg.Chat.ID, helpMessage), nil
	case "products":
		return s.productsMessage(ctx, msg.Chat.ID), nil
	case "consult":
		productID := strings.TrimSpace(msg.CommandArguments())
		if productID == "" {
			return s.chooseProductMessage(ctx, msg.Chat.ID), nil
		}

		resp, err := s.intakeSvc.StartConsultation(ctx, user, productID)

		switch {
		case errors.Is(err, core.ErrProductNotFound):
			return newTextMessage(msg.Chat.ID, fmt.Sprintf(unknownProductMessage, productID)), nil
		case err != nil:
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to start consultation: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	case "back":
		resp, err := s.intakeSvc.GoBack(ctx, user)

		switch {
		case errors.Is(err, core.ErrNoActiveFlow):
			return newTextMessage(msg.Chat.ID, noActiveFlowMessage), nil
		case errors.Is(err, flow.ErrAtFirstQuestion):
			return s.repeatQuestion(ctx, msg.Chat.ID, user, firstQuestionBotMessage)
		case err != nil:
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to go back: %w", err)
		}

		return newMessage(msg.Chat.ID, resp), nil
	case "cancel":
		if err := s.intakeSvc.ResetFlow(ctx, user); err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to reset flow: %w", err)
		}

		return newTextMessage(msg.Chat.ID, flowCancelledMessage), nil
	case "status":
		consultations, err := s.intakeSvc.ConsultationStatus(ctx, user)
		if err != nil {
			return tgbotapi.MessageConfig{}, fmt.Errorf("failed to get consultation status: %w", err)
		}

		return newTextMessage(msg.Chat.ID, s.statusText(ctx, consultations)), nil
	default:
		return newTextMessage(msg.Chat.ID, unknownCommandMessage), nil
	}
}

// repeatQuestion shows the current question again with a notice on top.
func (s *Service) repeatQuestion(ctx context.Context, chatID int64, user, notice string) (tgbotapi.MessageConfig, error) {
	resp, err := s.intakeSvc.CurrentQuestion(ctx, user)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("failed to get current question: %w", err)
	}

	resp.Message = notice + "\n\n" + resp.Message

	return newMessage(chatID, resp), nil
}

func (s *Service) productsMessage(ctx context.Context, chatID int64) tgbotapi.MessageConfig {
	products := s.intakeSvc.ListProducts(ctx)
	if len(products) == 0 {
		return newTextMessage(chatID, noProductsMessage)
	}

	var sb strings.Builder

	sb.WriteString(productsHeader)

	for _, p := range products {
		fmt.Fprintf(&sb, "\n• %s: /consult %s", p.Title, p.ID)
	}

	return newTextMessage(chatID, sb.String())
}

func (s *Service) chooseProductMessage(ctx context.Context, chatID int64) tgbotapi.MessageConfig {
	products := s.intakeSvc.ListProducts(ctx)
	if len(products) == 0 {
		return newTextMessage(chatID, noProductsMessage)
	}

	answers := make([]string, 0, len(products))
	for _, p := range products {
		answers = append(answers, "/consult "+p.ID)
	}

	return newMessage(chatID, &core.Response{
		Message: chooseProductMessage,
		Answers: answers,
	})
}

func (s *Service) statusText(ctx context.Context, consultations []core.Consultation) string {
	if len(consultations) == 0 {
		return noConsultationsMessage
	}

	titles := make(map[string]string)
	for _, p := range s.intakeSvc.ListProducts(ctx) {
		titles[p.ID] = p.Title
	}

	var sb strings.Builder

	sb.WriteString(consultationsHeader)

	for _, c := range consultations {
		title, ok := titles[c.ProductID]
		if !ok {
			title = c.ProductID
		}

		fmt.Fprintf(&sb, "\n• %s, valid until %s", title, c.ValidUntil.Format(consultDateLayout))
	}

	return sb.String()
}

// newMessage renders a service response. Suggested answers become a one-time reply keyboard,
// otherwise any keyboard left from a previous question is removed.
func newMessage(chatID int64, resp *core.Response) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, resp.Message)

	if len(resp.Answers) == 0 {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		return msg
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(resp.Answers))
	for _, answer := range resp.Answers {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(answer)))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true

	msg.ReplyMarkup = keyboard

	return msg
}

func newTextMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)

	return msg
}

// userID identifies the patient. Messages without a sender are attributed to the chat.
func userID(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return fmt.Sprintf("%d", msg.Chat.ID)
	}

	return fmt.Sprintf("%d", msg.From.ID)
}
