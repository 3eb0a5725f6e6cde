package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/melbourne-limo/service-booking/internal/domain/booking"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps pending quotes in redis, one key per part, with a TTL
// acting as the session expiry. Pops use GETDEL so a quote is consumed
// atomically exactly once, even under racing confirms.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. ttl bounds how long a calculated
// price stays valid for confirmation.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func quoteKey(sessionID, part string) string {
	return fmt.Sprintf("quote:%s:%s", sessionID, part)
}

// SavePending stores price, breakdown and toll flag under the session.
func (s *RedisStore) SavePending(ctx context.Context, sessionID string, quote PendingQuote) error {
	breakdownJSON, err := json.Marshal(quote.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	if err := s.client.Set(ctx, quoteKey(sessionID, "price"), quote.PriceCents, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending price: %w", err)
	}
	if err := s.client.Set(ctx, quoteKey(sessionID, "breakdown"), breakdownJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending breakdown: %w", err)
	}
	if err := s.client.Set(ctx, quoteKey(sessionID, "tolls"), strconv.FormatBool(quote.HasTolls), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending toll flag: %w", err)
	}
	return nil
}

// PopPriceCents consumes the pending price.
func (s *RedisStore) PopPriceCents(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.GetDel(ctx, quoteKey(sessionID, "price")).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoPendingQuote
	}
	if err != nil {
		return 0, fmt.Errorf("failed to pop pending price: %w", err)
	}

	cents, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt pending price %q: %w", val, err)
	}
	return cents, nil
}

// PopBreakdown consumes the pending breakdown, returning nil when absent.
func (s *RedisStore) PopBreakdown(ctx context.Context, sessionID string) (*booking.PriceBreakdown, error) {
	val, err := s.client.GetDel(ctx, quoteKey(sessionID, "breakdown")).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop pending breakdown: %w", err)
	}

	var bd booking.PriceBreakdown
	if err := json.Unmarshal([]byte(val), &bd); err != nil {
		return nil, fmt.Errorf("corrupt pending breakdown: %w", err)
	}
	return &bd, nil
}

// PopHasTolls consumes the pending toll flag, defaulting to false.
func (s *RedisStore) PopHasTolls(ctx context.Context, sessionID string) (bool, error) {
	val, err := s.client.GetDel(ctx, quoteKey(sessionID, "tolls")).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pop pending toll flag: %w", err)
	}

	hasTolls, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("corrupt pending toll flag %q: %w", val, err)
	}
	return hasTolls, nil
}
