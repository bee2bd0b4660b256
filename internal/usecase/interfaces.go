package usecase

import (
	"context"

	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-solar/internal/infra/mail"
	"github.com/xavierca1/ligue-solar/internal/infra/queue"
	"github.com/xavierca1/ligue-solar/internal/persistence"
)

// ProposalStore é o persistence.CachedClient.
type ProposalStore interface {
	List(ctx context.Context, scope entity.ListScope, forceRefresh bool) (persistence.ListResult, error)
	Save(ctx context.Context, user entity.User, p entity.Proposal) (*entity.Proposal, error)
	Get(ctx context.Context, id string) (*entity.Proposal, error)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.ProposalEvent) error
}

type EmailService interface {
	SendProposal(to string, data mail.ProposalEmailData, pdfName string, pdf []byte) error
}

type WhatsAppService interface {
	SendProposal(ctx context.Context, phone, name, totalValue string) error
}

type CRMService interface {
	Enabled() bool
	CreateLead(ctx context.Context, input kommo.CreateLeadInput) (int, error)
}
