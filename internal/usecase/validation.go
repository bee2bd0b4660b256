package usecase

import (
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/form"
	"github.com/xavierca1/ligue-solar/internal/validation"
)

var proposalRules = validation.ProposalRules()

// ValidateProposalForm roda as regras do formulário e devolve um DomainError
// com a mensagem de cada campo inválido.
func ValidateProposalForm(data form.Data) error {
	result := proposalRules.ValidateForm(data.Values())
	if result.Valid {
		return nil
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "Verifique os campos destacados",
		Fields:  result.Errors,
	}
}

// validateEntity cobre o que o formulário não vê (vendedor, enums).
func validateEntity(p *entity.Proposal) error {
	if err := p.Validate(); err != nil {
		return &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	return nil
}
