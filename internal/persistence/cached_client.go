package persistence

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

// Janela padrão em que uma lista em cache é considerada fresca
const DefaultFreshness = 5 * time.Minute

type CachedClient struct {
	*Client
	cache     *cache.Cache[[]entity.Proposal]
	freshness time.Duration
}

// NewCachedClient recebe o cache já construído; freshness <= 0 usa DefaultFreshness.
func NewCachedClient(client *Client, c *cache.Cache[[]entity.Proposal], freshness time.Duration) *CachedClient {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &CachedClient{Client: client, cache: c, freshness: freshness}
}

// List devolve a lista em cache enquanto fresca; forceRefresh ignora o cache.
func (c *CachedClient) List(ctx context.Context, scope entity.ListScope, forceRefresh bool) (ListResult, error) {
	key := scope.Key()
	if !forceRefresh {
		if proposals, ok := c.cache.Get(key); ok {
			return ListResult{Proposals: clone(proposals)}, nil
		}
	}

	result, err := c.Client.List(ctx, scope)
	if err != nil {
		return result, err
	}
	if !result.Stale {
		c.cache.SetWithTTL(key, clone(result.Proposals), c.freshness)
	}
	return result, nil
}

// Save grava e atualiza as listas em cache que devem conter a nova proposta.
func (c *CachedClient) Save(ctx context.Context, user entity.User, p entity.Proposal) (*entity.Proposal, error) {
	saved, err := c.Client.Save(ctx, user, p)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{allKey, entity.SellerScope(saved.SellerID).Key()} {
		c.cache.Update(key, func(list []entity.Proposal) []entity.Proposal {
			return prepend(list, *saved)
		})
	}
	return saved, nil
}

// Delete remove e tira a proposta de todas as listas em cache.
func (c *CachedClient) Delete(ctx context.Context, id string) error {
	if err := c.Client.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range c.cache.Keys() {
		c.cache.Update(key, func(list []entity.Proposal) []entity.Proposal {
			return without(list, id)
		})
	}
	return nil
}

func (c *CachedClient) CacheStats() cache.Stats {
	return c.cache.Stats()
}
