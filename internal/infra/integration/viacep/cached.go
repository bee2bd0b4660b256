package viacep

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type Lookup interface {
	Lookup(ctx context.Context, cep string) (entity.Address, error)
}

// Store é o cache compartilhado (Redis em produção).
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedLookup guarda endereços encontrados; falhas e CEPs inexistentes não são cacheados.
type CachedLookup struct {
	inner Lookup
	store Store
	ttl   time.Duration
}

func NewCachedLookup(inner Lookup, store Store, ttl time.Duration) *CachedLookup {
	return &CachedLookup{inner: inner, store: store, ttl: ttl}
}

func (c *CachedLookup) Lookup(ctx context.Context, cep string) (entity.Address, error) {
	key := "cep:" + NormalizeCEP(cep)

	if raw, ok := c.store.Get(ctx, key); ok {
		var addr entity.Address
		if err := json.Unmarshal([]byte(raw), &addr); err == nil {
			return addr, nil
		}
	}

	addr, err := c.inner.Lookup(ctx, cep)
	if err != nil {
		return entity.Address{}, err
	}

	if body, err := json.Marshal(addr); err == nil {
		if err := c.store.Set(ctx, key, string(body), c.ttl); err != nil {
			log.Printf("⚠️ Cache de CEP indisponível: %v", err)
		}
	}
	return addr, nil
}
