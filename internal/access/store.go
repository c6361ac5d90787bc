// Package access is the usage-counter / access-code paywall store. The
// core treats it as an opaque authorization collaborator behind the
// Store interface.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// FreeVideoLimit is how many renders a device gets before it needs an
// access code.
const FreeVideoLimit = 3

// ErrInvalidCode is returned for unknown or already-redeemed codes.
var ErrInvalidCode = errors.New("invalid access code")

// Store tracks per-device usage and redeems access codes for credits.
type Store interface {
	// Remaining returns how many renders the device has left.
	Remaining(ctx context.Context, deviceID string) (int, error)
	// Consume spends one render credit; it reports whether one was
	// available.
	Consume(ctx context.Context, deviceID string) (bool, error)
	// Redeem converts a one-time access code into credits for a device.
	Redeem(ctx context.Context, deviceID, code string) (int, error)
}

// RedisStore is the production Store.
type RedisStore struct {
	rdb       *redis.Client
	freeLimit int
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		rdb:       redis.NewClient(&redis.Options{Addr: addr}),
		freeLimit: FreeVideoLimit,
	}
}

func usageKey(deviceID string) string  { return "shopreel:usage:" + deviceID }
func creditKey(deviceID string) string { return "shopreel:credits:" + deviceID }
func codeKey(code string) string       { return "shopreel:code:" + code }

func (s *RedisStore) Remaining(ctx context.Context, deviceID string) (int, error) {
	used, err := s.rdb.Get(ctx, usageKey(deviceID)).Int()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("usage lookup: %w", err)
	}
	credits, err := s.rdb.Get(ctx, creditKey(deviceID)).Int()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("credit lookup: %w", err)
	}

	left := s.freeLimit + credits - used
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (s *RedisStore) Consume(ctx context.Context, deviceID string) (bool, error) {
	left, err := s.Remaining(ctx, deviceID)
	if err != nil {
		return false, err
	}
	if left == 0 {
		return false, nil
	}
	if err := s.rdb.Incr(ctx, usageKey(deviceID)).Err(); err != nil {
		return false, fmt.Errorf("consume credit: %w", err)
	}
	return true, nil
}

// Redeem is single-use: the code key is deleted atomically with the
// read so two devices cannot share one code.
func (s *RedisStore) Redeem(ctx context.Context, deviceID, code string) (int, error) {
	credits, err := s.rdb.GetDel(ctx, codeKey(code)).Int()
	if err == redis.Nil {
		return 0, ErrInvalidCode
	}
	if err != nil {
		return 0, fmt.Errorf("code lookup: %w", err)
	}
	if credits <= 0 {
		return 0, ErrInvalidCode
	}
	if err := s.rdb.IncrBy(ctx, creditKey(deviceID), int64(credits)).Err(); err != nil {
		return 0, fmt.Errorf("grant credits: %w", err)
	}
	return credits, nil
}
