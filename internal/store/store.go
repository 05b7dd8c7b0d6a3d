// Package store provides interchangeable backends for per-session
// conversation turns: a durable Redis adapter and an in-process map.
package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/domain"
)

// Backend identifies which storage implementation a StoreHandle wraps.
type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// StoreHandle is the result of the one-shot startup backend selection.
// The decision is made once; callers never re-probe.
type StoreHandle struct {
	domain.TurnStore

	Backend Backend
	// Addr is the Redis address in use, empty for the memory backend
	Addr string
}

// Select picks the turn-store backend at startup. It tries the explicitly
// configured Redis address first, then the default local instance, and
// finally falls back to in-memory storage. Selection never fails: a missing
// Redis only costs durability, not availability.
func Select(ctx context.Context, cfg config.RedisConfig) StoreHandle {
	addrs := []string{}
	if cfg.Addr != "" {
		addrs = append(addrs, cfg.Addr)
	}
	if cfg.Addr != config.DefaultRedisAddr {
		addrs = append(addrs, config.DefaultRedisAddr)
	}

	for _, addr := range addrs {
		probe := cfg
		probe.Addr = addr
		rs, err := NewRedisStore(ctx, probe)
		if err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("Redis unreachable")
			continue
		}
		log.Info().Str("addr", addr).Msg("Using Redis session storage")
		return StoreHandle{TurnStore: rs, Backend: BackendRedis, Addr: addr}
	}

	log.Warn().Msg("Redis not available; using in-memory session storage. Set REDIS_ADDR to enable persistence")
	return StoreHandle{TurnStore: NewMemoryStore(), Backend: BackendMemory}
}
