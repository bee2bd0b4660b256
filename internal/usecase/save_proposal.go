package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export"
	"github.com/xavierca1/ligue-solar/internal/form"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-solar/internal/infra/mail"
	"github.com/xavierca1/ligue-solar/internal/infra/queue"
)

type SaveProposalUseCase struct {
	Store    ProposalStore
	Events   EventPublisher
	Email    EmailService
	WhatsApp WhatsAppService
	CRM      CRMService
	PDF      *RenderProposalPDF

	// notifyTimeout limita o envio em segundo plano
	notifyTimeout time.Duration
	notifyDone    func()
}

func NewSaveProposalUseCase(
	store ProposalStore,
	events EventPublisher,
	email EmailService,
	whatsapp WhatsAppService,
	crm CRMService,
	pdf *RenderProposalPDF,
) *SaveProposalUseCase {
	return &SaveProposalUseCase{
		Store:         store,
		Events:        events,
		Email:         email,
		WhatsApp:      whatsapp,
		CRM:           crm,
		PDF:           pdf,
		notifyTimeout: 30 * time.Second,
	}
}

// Execute recalcula a partir dos dados do formulário, valida, grava e publica
// proposal.created. Se a publicação falhar, a proposta gravada é removida.
func (uc *SaveProposalUseCase) Execute(ctx context.Context, user entity.User, input form.Data) (*entity.Proposal, error) {
	// os campos calculados nunca vêm do cliente
	data := form.NewController(input).Data()

	if err := ValidateProposalForm(data); err != nil {
		return nil, err
	}

	proposal := data.ToProposal()
	proposal.StampSeller(user.ID, user.DisplayName())
	if err := validateEntity(&proposal); err != nil {
		return nil, err
	}

	var saved *entity.Proposal

	txn := NewTransaction()
	txn.AddOperation("save_proposal", func(ctx context.Context) error {
		var err error
		saved, err = uc.Store.Save(ctx, user, proposal)
		return err
	})
	txn.AddCompensation("delete_proposal", func(ctx context.Context) error {
		return uc.Store.Delete(ctx, saved.ID)
	})
	txn.AddOperation("publish_created", func(ctx context.Context) error {
		return uc.Events.Publish(ctx, queue.NewProposalEvent(queue.EventCreated, *saved))
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "Não foi possível salvar a proposta",
			Err:     err,
		}
	}

	log.Printf("✅ Proposta %s salva por %s (%s)", saved.ID, saved.SellerName, export.BRL(saved.TotalValue))

	go uc.notify(*saved)

	return saved, nil
}

// notify avisa cliente e CRM. Nada aqui afeta o resultado do salvamento.
func (uc *SaveProposalUseCase) notify(p entity.Proposal) {
	if uc.notifyDone != nil {
		defer uc.notifyDone()
	}
	ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
	defer cancel()

	if uc.CRM != nil && uc.CRM.Enabled() {
		leadID, err := uc.CRM.CreateLead(ctx, kommo.CreateLeadInput{
			ClientName: p.ClientName,
			Phone:      p.ClientPhone,
			Email:      p.ClientEmail,
			Title:      fmt.Sprintf("Sistema %s kWp - %s", export.Number(p.SystemPowerKwp, 2), p.ClientName),
			Price:      p.TotalValue,
		})
		if err != nil {
			log.Printf("⚠️ Kommo: falha ao criar lead da proposta %s: %v", p.ID, err)
		} else {
			log.Printf("✅ Kommo: lead %d criado para proposta %s", leadID, p.ID)
		}
	}

	if uc.Email != nil && p.ClientEmail != "" {
		var name string
		var pdf []byte
		if uc.PDF != nil {
			file, err := uc.PDF.Execute(ctx, p)
			if err != nil {
				log.Printf("⚠️ PDF da proposta %s não gerado para o email: %v", p.ID, err)
			} else {
				name, pdf = file.Filename, file.Data
			}
		}
		if err := uc.Email.SendProposal(p.ClientEmail, emailData(p), name, pdf); err != nil {
			log.Printf("⚠️ Email: falha ao enviar proposta %s: %v", p.ID, err)
		}
	}

	if uc.WhatsApp != nil && p.ClientPhone != "" {
		if err := uc.WhatsApp.SendProposal(ctx, p.ClientPhone, p.ClientName, export.BRL(p.TotalValue)); err != nil {
			log.Printf("⚠️ WhatsApp: falha ao enviar proposta %s: %v", p.ID, err)
		}
	}
}

func emailData(p entity.Proposal) mail.ProposalEmailData {
	return mail.ProposalEmailData{
		ClientName:     p.ClientName,
		SellerName:     p.SellerName,
		SystemPower:    export.Number(p.SystemPowerKwp, 2) + " kWp",
		ModuleQuantity: p.ModuleQuantity,
		MonthlySavings: export.BRL(p.MonthlySavings),
		TotalValue:     export.BRL(p.TotalValue),
		ValidUntil:     p.ValidUntil.Format(export.DateLayout),
	}
}
