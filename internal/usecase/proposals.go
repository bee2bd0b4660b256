package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-solar/internal/analytics"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/infra/queue"
)

type ListProposalsUseCase struct {
	Store ProposalStore
}

func NewListProposalsUseCase(store ProposalStore) *ListProposalsUseCase {
	return &ListProposalsUseCase{Store: store}
}

// Execute lista o escopo do usuário (admin vê tudo) e aplica o filtro.
func (uc *ListProposalsUseCase) Execute(ctx context.Context, user entity.User, filter analytics.Filter, refresh bool) (*ListProposalsOutput, error) {
	result, err := uc.Store.List(ctx, entity.ScopeFor(user), refresh)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível carregar as propostas", Err: err}
	}
	return &ListProposalsOutput{
		Proposals: filter.Apply(result.Proposals),
		Stale:     result.Stale,
	}, nil
}

type GetProposalUseCase struct {
	Store ProposalStore
}

func NewGetProposalUseCase(store ProposalStore) *GetProposalUseCase {
	return &GetProposalUseCase{Store: store}
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, user entity.User, id string) (*entity.Proposal, error) {
	return findOwned(ctx, uc.Store, user, id)
}

type DeleteProposalUseCase struct {
	Store  ProposalStore
	Events EventPublisher
}

func NewDeleteProposalUseCase(store ProposalStore, events EventPublisher) *DeleteProposalUseCase {
	return &DeleteProposalUseCase{Store: store, Events: events}
}

// Execute remove a proposta. Falha ao publicar proposal.deleted só é logada:
// não há como desfazer um delete.
func (uc *DeleteProposalUseCase) Execute(ctx context.Context, user entity.User, id string) error {
	p, err := findOwned(ctx, uc.Store, user, id)
	if err != nil {
		return err
	}

	if err := uc.Store.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, entity.ErrProposalNotFound) {
			return notFound()
		}
		return &TechnicalError{Code: CodeDatabase, Message: "Não foi possível excluir a proposta", Err: err}
	}

	if err := uc.Events.Publish(ctx, queue.NewProposalEvent(queue.EventDeleted, *p)); err != nil {
		log.Printf("⚠️ Proposta %s excluída mas evento não publicado: %v", p.ID, err)
	}
	log.Printf("🗑️ Proposta %s excluída por %s", p.ID, user.ID)
	return nil
}

// findOwned busca a proposta; vendedor só acessa as próprias e recebe
// "não encontrada" para as de outros.
func findOwned(ctx context.Context, store ProposalStore, user entity.User, id string) (*entity.Proposal, error) {
	p, err := store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrProposalNotFound) {
			return nil, notFound()
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível carregar a proposta", Err: err}
	}
	if !user.IsAdmin() && p.SellerID != user.ID {
		return nil, notFound()
	}
	return p, nil
}

func notFound() *DomainError {
	return &DomainError{Code: CodeNotFound, Message: entity.ErrProposalNotFound.Error()}
}
