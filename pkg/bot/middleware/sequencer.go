package middleware

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type turnKey struct{}

// released is the predecessor of the first queued request of a chat.
var released = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)

	return ch
}()

// Sequencer queues requests per chat. Turns are granted in the order they were enqueued.
type Sequencer struct {
	tails map[int64]chan struct{}
	mu    sync.Mutex
}

// Turn is a reserved place in the queue of a chat.
type Turn struct {
	seq    *Sequencer
	prev   chan struct{}
	done   chan struct{}
	once   sync.Once
	chatID int64
}

func NewSequencer() *Sequencer {
	return &Sequencer{tails: make(map[int64]chan struct{})}
}

// Enqueue reserves the next turn of the chat. Callers reading requests from an ordered source
// must enqueue before handing the request over to a goroutine, otherwise the order is lost.
func (s *Sequencer) Enqueue(chatID int64) *Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tails[chatID]
	if !ok {
		prev = released
	}

	t := &Turn{
		seq:    s,
		chatID: chatID,
		prev:   prev,
		done:   make(chan struct{}),
	}

	s.tails[chatID] = t.done

	return t
}

// Wait blocks until all earlier turns of the chat are done or ctx ends.
func (t *Turn) Wait(ctx context.Context) error {
	select {
	case <-t.prev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done passes the turn on. A turn given up while waiting is passed on only after
// the turns before it are done. Calling Done more than once has no effect.
func (t *Turn) Done() {
	t.once.Do(func() {
		select {
		case <-t.prev:
			t.finish()
		default:
			go func() {
				<-t.prev
				t.finish()
			}()
		}
	})
}

func (t *Turn) finish() {
	close(t.done)

	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()

	if t.seq.tails[t.chatID] == t.done {
		delete(t.seq.tails, t.chatID)
	}
}

// WithTurn attaches a turn reserved in advance to the request context.
func WithTurn(ctx context.Context, t *Turn) context.Context {
	return context.WithValue(ctx, turnKey{}, t)
}

// WithRequestSequencer makes messages of the same chat be handled one at a time in arrival order,
// so every answer is applied to the flow state left by the previous one. Messages of different chats
// are handled concurrently. A request carrying a turn from WithTurn waits for that turn, and its owner
// is responsible for calling Done; any other request is enqueued when it reaches the middleware.
// A request whose context ends while waiting for its turn is dropped with the context error.
// It returns an error if nil message is passed to the Handler.
func WithRequestSequencer(seq *Sequencer) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, message *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
			if message == nil {
				return tgbotapi.MessageConfig{}, errors.New("message is nil")
			}

			turn, ok := ctx.Value(turnKey{}).(*Turn)
			if !ok {
				turn = seq.Enqueue(message.Chat.ID)
				defer turn.Done()
			}

			if err := turn.Wait(ctx); err != nil {
				return tgbotapi.MessageConfig{}, err
			}

			return next.Handle(ctx, message)
		})
	}
}
