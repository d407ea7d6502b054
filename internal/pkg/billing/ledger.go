package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// LedgerKeyFormat is payment:resolved:{user}:{provider}:{reference}.
const LedgerKeyFormat = "payment:resolved:%s:%s:%s"

const DefaultLedgerTTL = 24 * time.Hour

// Resolution is what a verified provider reference resolved to.
type Resolution struct {
	Tier       entitlements.Tier `json:"tier"`
	HasProfile bool              `json:"has_profile"`
	ResolvedAt time.Time         `json:"resolved_at"`
}

// Ledger remembers references that were already redeemed, so a replayed
// return URL does not verify again.
type Ledger interface {
	// Lookup returns nil, nil for an unknown reference.
	Lookup(ctx context.Context, user string, provider models.Provider, ref string) (*Resolution, error)
	// Record keeps the first resolution of a reference.
	Record(ctx context.Context, user string, provider models.Provider, ref string, res Resolution) error
}

type redisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLedger creates a ledger on the cache connection.
func NewRedisLedger(client *redis.Client, ttl time.Duration) Ledger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &redisLedger{client: client, ttl: ttl}
}

func ledgerKey(user string, provider models.Provider, ref string) string {
	return fmt.Sprintf(LedgerKeyFormat, user, provider, ref)
}

func (l *redisLedger) Lookup(ctx context.Context, user string, provider models.Provider, ref string) (*Resolution, error) {
	raw, err := l.client.Get(ctx, ledgerKey(user, provider, ref)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var res Resolution
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("decode ledger entry: %w", err)
	}
	return &res, nil
}

func (l *redisLedger) Record(ctx context.Context, user string, provider models.Provider, ref string, res Resolution) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return l.client.SetNX(ctx, ledgerKey(user, provider, ref), raw, l.ttl).Err()
}

type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]Resolution
}

// NewMemoryLedger keeps resolutions in process memory. Used in tests and
// when no Redis is configured.
func NewMemoryLedger() Ledger {
	return &memoryLedger{entries: make(map[string]Resolution)}
}

func (l *memoryLedger) Lookup(_ context.Context, user string, provider models.Provider, ref string) (*Resolution, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.entries[ledgerKey(user, provider, ref)]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (l *memoryLedger) Record(_ context.Context, user string, provider models.Provider, ref string, res Resolution) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := ledgerKey(user, provider, ref)
	if _, ok := l.entries[key]; !ok {
		l.entries[key] = res
	}
	return nil
}
