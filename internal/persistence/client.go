// Package persistence wraps the proposals repository with last-known fallback
// for reads and an optional freshness cache.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type ListResult struct {
	Proposals []entity.Proposal `json:"proposals"`
	// Stale indica que o backend falhou e a lista veio da memória
	Stale bool `json:"stale"`
}

type Client struct {
	repo     entity.ProposalRepositoryInterface
	notifier Notifier

	mu        sync.RWMutex
	lastKnown map[string][]entity.Proposal
}

func NewClient(repo entity.ProposalRepositoryInterface, notifier Notifier) *Client {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Client{
		repo:      repo,
		notifier:  notifier,
		lastKnown: make(map[string][]entity.Proposal),
	}
}

// List busca as propostas do escopo, mais recentes primeiro. Se o backend
// falhar e já houver uma lista conhecida, devolve ela marcada como Stale.
func (c *Client) List(ctx context.Context, scope entity.ListScope) (ListResult, error) {
	proposals, err := c.repo.List(ctx, scope)
	if err != nil {
		c.notifier.Notify(ctx, failure("list", err, "scope", scope.Key()))

		c.mu.RLock()
		last, ok := c.lastKnown[scope.Key()]
		c.mu.RUnlock()
		if !ok {
			return ListResult{}, fmt.Errorf("erro ao listar propostas: %w", err)
		}
		return ListResult{Proposals: clone(last), Stale: true}, nil
	}
	c.succeeded()

	c.mu.Lock()
	c.lastKnown[scope.Key()] = clone(proposals)
	c.mu.Unlock()
	return ListResult{Proposals: proposals}, nil
}

// Save grava a proposta em nome do usuário e devolve o registro do backend.
// Em caso de falha nada muda localmente.
func (c *Client) Save(ctx context.Context, user entity.User, p entity.Proposal) (*entity.Proposal, error) {
	p.StampSeller(user.ID, user.DisplayName())
	if err := c.repo.Create(ctx, &p); err != nil {
		c.notifier.Notify(ctx, failure("save", err, "seller_id", user.ID))
		return nil, fmt.Errorf("erro ao salvar proposta: %w", err)
	}
	c.succeeded()

	c.mu.Lock()
	for key, list := range c.lastKnown {
		if key == allKey || key == entity.SellerScope(p.SellerID).Key() {
			c.lastKnown[key] = prepend(list, p)
		}
	}
	c.mu.Unlock()
	return &p, nil
}

func (c *Client) Get(ctx context.Context, id string) (*entity.Proposal, error) {
	p, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, entity.ErrProposalNotFound) {
			c.notifier.Notify(ctx, failure("get", err, "id", id))
			return nil, err
		}
		c.succeeded()
		return nil, err
	}
	c.succeeded()
	return p, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, entity.ErrProposalNotFound) {
			c.notifier.Notify(ctx, failure("delete", err, "id", id))
			return err
		}
		c.succeeded()
		return err
	}
	c.succeeded()

	c.mu.Lock()
	for key, list := range c.lastKnown {
		c.lastKnown[key] = without(list, id)
	}
	c.mu.Unlock()
	log.Printf("🗑️ Proposta %s removida", id)
	return nil
}

var allKey = entity.ListScope{}.Key()

// succeeded avisa o notifier de que o backend respondeu (inclusive "não encontrado").
func (c *Client) succeeded() {
	if r, ok := c.notifier.(SuccessRecorder); ok {
		r.RecordSuccess()
	}
}

func clone(list []entity.Proposal) []entity.Proposal {
	out := make([]entity.Proposal, len(list))
	copy(out, list)
	return out
}

func prepend(list []entity.Proposal, p entity.Proposal) []entity.Proposal {
	out := make([]entity.Proposal, 0, len(list)+1)
	out = append(out, p)
	return append(out, without(list, p.ID)...)
}

func without(list []entity.Proposal, id string) []entity.Proposal {
	out := make([]entity.Proposal, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
