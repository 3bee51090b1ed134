package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
	"github.com/redis/go-redis/v9"
)

const (
	defaultFlowTTL     = 24 * time.Hour
	flowKeyPrefix      = "flow:"
	consultationPrefix = "consult:"
)

type Config struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"redis_password"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	FlowTTL   time.Duration `mapstructure:"flow_ttl"`
}

// Store keeps flows in progress and the consultation history of patients in Redis.
type Store struct {
	db        *redis.Client
	keyPrefix string
	flowTTL   time.Duration
}

// New initializes and returns a new Store configured with the provided Config.
func New(cfg *Config) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
	})

	ttl := cfg.FlowTTL
	if ttl <= 0 {
		ttl = defaultFlowTTL
	}

	return &Store{
		db:        rdb,
		keyPrefix: cfg.KeyPrefix,
		flowTTL:   ttl,
	}
}

// Close terminates the connection to the Redis database and returns an error if the operation fails.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetFlow returns the stored flow of the user, or a new idle flow when there is none.
func (s *Store) GetFlow(ctx context.Context, userID string) (*flow.Flow, error) {
	data, err := s.db.Get(ctx, s.flowKey(userID)).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return flow.New(userID), nil
	case err != nil:
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}

	var f flow.Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow: %w", err)
	}

	return &f, nil
}

// SaveFlow stores the flow under its owner id. Every save extends the flow's lifetime.
func (s *Store) SaveFlow(ctx context.Context, f *flow.Flow) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal flow: %w", err)
	}

	if err := s.db.Set(ctx, s.flowKey(f.ID), data, s.flowTTL).Err(); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}

	return nil
}

func (s *Store) DeleteFlow(ctx context.Context, userID string) error {
	if err := s.db.Del(ctx, s.flowKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	return nil
}

// AddConsultation records a completed consultation. A repeated consultation for the same product
// replaces the previous completion time.
func (s *Store) AddConsultation(ctx context.Context, userID, productID string, completedAt time.Time) error {
	err := s.db.ZAdd(ctx, s.consultationKey(userID), redis.Z{
		Score:  float64(completedAt.Unix()),
		Member: productID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add consultation: %w", err)
	}

	return nil
}

// GetConsultations returns consultations completed after since, oldest first.
func (s *Store) GetConsultations(ctx context.Context, userID string, since time.Time) ([]core.Consultation, error) {
	res, err := s.db.ZRangeByScoreWithScores(ctx, s.consultationKey(userID), &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get consultations: %w", err)
	}

	consultations := make([]core.Consultation, 0, len(res))

	for _, z := range res {
		productID, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected consultation member type: %T", z.Member)
		}

		consultations = append(consultations, core.Consultation{
			ProductID:   productID,
			CompletedAt: time.Unix(int64(z.Score), 0),
		})
	}

	return consultations, nil
}

func (s *Store) flowKey(userID string) string {
	return s.keyPrefix + flowKeyPrefix + userID
}

func (s *Store) consultationKey(userID string) string {
	return s.keyPrefix + consultationPrefix + userID
}
