// Package ordernum produces human-readable order numbers of the form
// "ORD#" followed by eight digits.
package ordernum

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/redis/go-redis/v9"
)

const (
	Prefix = "ORD#"

	digits   = 8
	maxValue = 100_000_000

	DefaultCounterKey = "padipos:order_number"
)

type Generator interface {
	Next(ctx context.Context) (string, error)
}

func Format(n int64) string {
	return fmt.Sprintf("%s%0*d", Prefix, digits, n%maxValue)
}

// RandomToken draws from crypto/rand. It can collide; the caller is expected
// to retry on a duplicate.
type RandomToken struct{}

func (RandomToken) Next(context.Context) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxValue))
	if err != nil {
		return "", fmt.Errorf("ordernum: random: %w", err)
	}
	return Format(n.Int64()), nil
}

// RedisCounter hands out numbers from an INCR counter shared by every
// process talking to the same Redis.
type RedisCounter struct {
	Client redis.Cmdable
	Key    string
}

func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{Client: client, Key: DefaultCounterKey}
}

func (g *RedisCounter) Next(ctx context.Context) (string, error) {
	key := g.Key
	if key == "" {
		key = DefaultCounterKey
	}
	n, err := g.Client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("ordernum: redis incr %s: %w", key, err)
	}
	return Format(n), nil
}

// Sequence is a fixed list of numbers, handy for reproducing collisions.
type Sequence struct {
	Numbers []string
	i       int
}

func (s *Sequence) Next(context.Context) (string, error) {
	if s.i >= len(s.Numbers) {
		return "", fmt.Errorf("ordernum: sequence exhausted")
	}
	n := s.Numbers[s.i]
	s.i++
	return n, nil
}
