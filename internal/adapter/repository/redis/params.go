package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openfx/backoffice/internal/domain"
)

// Parameter keys. Values are JSON-encoded under a common prefix; an absent
// key falls back to the documented default rather than failing.
const (
	keyStockControl = "controlSaldo"
	keyDateWindow   = "editableDateWindow"
)

// ParameterStore implements usecase.ParameterStore on Redis with a short
// in-process cache so the engine does not hit Redis on every operation.
type ParameterStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cachedParam
}

type cachedParam struct {
	raw       []byte
	found     bool
	expiresAt time.Time
}

// NewParameterStore creates a new ParameterStore. cacheTTL bounds how stale a
// parameter read may be; zero disables the in-process cache.
func NewParameterStore(client *redis.Client, cacheTTL time.Duration) *ParameterStore {
	return &ParameterStore{
		client: client,
		prefix: "params:",
		ttl:    cacheTTL,
		cache:  make(map[string]cachedParam),
	}
}

// StockControl reports whether stock debits are guarded against crossing
// zero. Defaults to enforced when the key is absent.
func (s *ParameterStore) StockControl(ctx context.Context) (bool, error) {
	raw, found, err := s.get(ctx, keyStockControl)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}

	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return false, err
	}

	return enabled, nil
}

// DateWindow returns the operation-date edit window. Defaults to enabled
// with an unrestricted grace when the key is absent.
func (s *ParameterStore) DateWindow(ctx context.Context) (domain.DateWindow, error) {
	raw, found, err := s.get(ctx, keyDateWindow)
	if err != nil {
		return domain.DateWindow{}, err
	}
	if !found {
		return domain.DateWindow{Enabled: true, GraceDays: 0}, nil
	}

	var window struct {
		Enabled   bool `json:"enabled"`
		GraceDays int  `json:"graceDays"`
	}
	if err := json.Unmarshal(raw, &window); err != nil {
		return domain.DateWindow{}, err
	}

	return domain.DateWindow{Enabled: window.Enabled, GraceDays: window.GraceDays}, nil
}

// SetStockControl stores the stock-control flag.
func (s *ParameterStore) SetStockControl(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyStockControl, enabled)
}

// SetDateWindow stores the date-window policy.
func (s *ParameterStore) SetDateWindow(ctx context.Context, window domain.DateWindow) error {
	payload := struct {
		Enabled   bool `json:"enabled"`
		GraceDays int  `json:"graceDays"`
	}{Enabled: window.Enabled, GraceDays: window.GraceDays}

	return s.set(ctx, keyDateWindow, payload)
}

func (s *ParameterStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.ttl > 0 {
		s.mu.Lock()
		entry, ok := s.cache[key]
		s.mu.Unlock()
		if ok && time.Now().Before(entry.expiresAt) {
			return entry.raw, entry.found, nil
		}
	}

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	found := true
	if err == redis.Nil {
		raw, found = nil, false
	} else if err != nil {
		return nil, false, err
	}

	if s.ttl > 0 {
		s.mu.Lock()
		s.cache[key] = cachedParam{raw: raw, found: found, expiresAt: time.Now().Add(s.ttl)}
		s.mu.Unlock()
	}

	return raw, found, nil
}

func (s *ParameterStore) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, raw, 0).Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	return nil
}
