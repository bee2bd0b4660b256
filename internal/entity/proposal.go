package entity

import (
	"context"
	"errors"
	"time"
)

var ErrProposalNotFound = errors.New("proposta não encontrada")

// Validade padrão de uma proposta a partir da criação
const ProposalValidity = 30 * 24 * time.Hour

type ConnectionType string

const (
	ConnectionTwoPhase   ConnectionType = "two_phase"
	ConnectionThreePhase ConnectionType = "three_phase"
)

func (c ConnectionType) Valid() bool {
	return c == ConnectionTwoPhase || c == ConnectionThreePhase
}

type PaymentMethod string

const (
	PaymentPix       PaymentMethod = "pix"
	PaymentCard      PaymentMethod = "card"
	PaymentFinancing PaymentMethod = "financing"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCard, PaymentFinancing:
		return true
	}
	return false
}

type ProposalStatus string

const (
	StatusDraft    ProposalStatus = "draft"
	StatusSent     ProposalStatus = "sent"
	StatusApproved ProposalStatus = "approved"
	StatusRejected ProposalStatus = "rejected"
	StatusClosed   ProposalStatus = "closed"
)

// Open reports whether the proposal still waits for a client answer.
func (s ProposalStatus) Open() bool {
	return s == StatusDraft || s == StatusSent
}

// Value Object: Address
type Address struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Complement   string `json:"complement"`
}

// Entidade: Proposal
//
// Os campos calculados (SystemPowerKwp ... TotalValue) são um retrato do
// calculador no momento do salvamento e nunca são recalculados na leitura.
type Proposal struct {
	ID         string `json:"id"`
	SellerID   string `json:"seller_id"`
	SellerName string `json:"seller_name"`

	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail string  `json:"client_email"`
	Address     Address `json:"address"`

	DesiredKwh         float64        `json:"desired_kwh"`
	MonthlyConsumption float64        `json:"monthly_consumption"`
	ModulePower        float64        `json:"module_power"`
	ModuleQuantity     int            `json:"module_quantity"`
	ModuleBrand        string         `json:"module_brand"`
	InverterBrand      string         `json:"inverter_brand"`
	InverterPower      float64        `json:"inverter_power"`
	ConnectionType     ConnectionType `json:"connection_type"`
	PricePerKwp        float64        `json:"price_per_kwp"`

	PaymentMethod PaymentMethod  `json:"payment_method"`
	Notes         string         `json:"notes"`
	ValidUntil    time.Time      `json:"valid_until"`
	Status        ProposalStatus `json:"status"`

	SystemPowerKwp    float64 `json:"system_power_kwp"`
	MonthlyGeneration float64 `json:"monthly_generation"`
	MonthlySavings    float64 `json:"monthly_savings"`
	RequiredArea      float64 `json:"required_area"`
	TotalValue        float64 `json:"total_value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StampSeller grava a identidade do vendedor da sessão atual.
func (p *Proposal) StampSeller(sellerID, sellerName string) {
	p.SellerID = sellerID
	p.SellerName = sellerName
}

func (p *Proposal) Validate() error {
	if p.ClientName == "" {
		return errors.New("client_name is required")
	}
	if p.ClientPhone == "" {
		return errors.New("client_phone is required")
	}
	if p.DesiredKwh <= 0 {
		return errors.New("desired_kwh must be positive")
	}
	if p.PricePerKwp <= 0 {
		return errors.New("price_per_kwp must be positive")
	}
	if p.SellerID == "" {
		return errors.New("seller_id is required")
	}
	if p.ConnectionType != "" && !p.ConnectionType.Valid() {
		return errors.New("connection_type must be two_phase or three_phase")
	}
	if p.PaymentMethod != "" && !p.PaymentMethod.Valid() {
		return errors.New("payment_method must be pix, card or financing")
	}
	return nil
}

// ListScope restringe a listagem a um vendedor. SellerID vazio lista tudo.
type ListScope struct {
	SellerID string
}

func SellerScope(sellerID string) ListScope {
	return ListScope{SellerID: sellerID}
}

// ScopeFor: admin enxerga todas as propostas, vendedor só as próprias.
func ScopeFor(u User) ListScope {
	if u.IsAdmin() {
		return ListScope{}
	}
	return SellerScope(u.ID)
}

func (s ListScope) Key() string {
	if s.SellerID == "" {
		return "proposals:all"
	}
	return "proposals:" + s.SellerID
}

type ProposalRepositoryInterface interface {
	Create(ctx context.Context, p *Proposal) error
	List(ctx context.Context, scope ListScope) ([]Proposal, error)
	FindByID(ctx context.Context, id string) (*Proposal, error)
	Delete(ctx context.Context, id string) error
}
