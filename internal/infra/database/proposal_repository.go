package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

const proposalColumns = `id, seller_id, seller_name, client_name, client_phone, client_email,
	postal_code, street, number, neighborhood, city, state, complement,
	desired_kwh, monthly_consumption, module_power, module_quantity, module_brand,
	inverter_brand, inverter_power, connection_type, price_per_kwp,
	payment_method, notes, valid_until, status,
	system_power_kwp, monthly_generation, monthly_savings, required_area, total_value,
	created_at, updated_at`

type ProposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{DB: db}
}

// Create insere a proposta; id, datas, validade e status padrão vêm do banco.
func (r *ProposalRepository) Create(ctx context.Context, p *entity.Proposal) error {
	query := `
		INSERT INTO proposals (
			seller_id, seller_name, client_name, client_phone, client_email,
			postal_code, street, number, neighborhood, city, state, complement,
			desired_kwh, monthly_consumption, module_power, module_quantity, module_brand,
			inverter_brand, inverter_power, connection_type, price_per_kwp,
			payment_method, notes, status,
			system_power_kwp, monthly_generation, monthly_savings, required_area, total_value
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, COALESCE(NULLIF($24, ''), 'draft'),
			$25, $26, $27, $28, $29)
		RETURNING id, valid_until, status, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		p.SellerID,
		p.SellerName,
		p.ClientName,
		p.ClientPhone,
		p.ClientEmail,
		p.Address.PostalCode,
		p.Address.Street,
		p.Address.Number,
		p.Address.Neighborhood,
		p.Address.City,
		p.Address.State,
		p.Address.Complement,
		p.DesiredKwh,
		p.MonthlyConsumption,
		p.ModulePower,
		p.ModuleQuantity,
		p.ModuleBrand,
		p.InverterBrand,
		p.InverterPower,
		string(p.ConnectionType),
		p.PricePerKwp,
		string(p.PaymentMethod),
		p.Notes,
		string(p.Status),
		p.SystemPowerKwp,
		p.MonthlyGeneration,
		p.MonthlySavings,
		p.RequiredArea,
		p.TotalValue,
	).Scan(&p.ID, &p.ValidUntil, &p.Status, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		log.Printf("❌ Erro ao inserir proposta (seller %s): %v", p.SellerID, err)
		return fmt.Errorf("erro ao inserir proposta: %w", err)
	}
	return nil
}

// List devolve as propostas do escopo, mais recentes primeiro.
func (r *ProposalRepository) List(ctx context.Context, scope entity.ListScope) ([]entity.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals`
	var args []any
	if scope.SellerID != "" {
		query += ` WHERE seller_id = $1`
		args = append(args, scope.SellerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar propostas: %w", err)
	}
	defer rows.Close()

	proposals := []entity.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler propostas: %w", err)
	}
	return proposals, nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrProposalNotFound
	}

	row := r.DB.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id)
	p, err := scanProposal(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrProposalNotFound
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return mapNotFound(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrProposalNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(s scanner) (*entity.Proposal, error) {
	var p entity.Proposal
	err := s.Scan(
		&p.ID,
		&p.SellerID,
		&p.SellerName,
		&p.ClientName,
		&p.ClientPhone,
		&p.ClientEmail,
		&p.Address.PostalCode,
		&p.Address.Street,
		&p.Address.Number,
		&p.Address.Neighborhood,
		&p.Address.City,
		&p.Address.State,
		&p.Address.Complement,
		&p.DesiredKwh,
		&p.MonthlyConsumption,
		&p.ModulePower,
		&p.ModuleQuantity,
		&p.ModuleBrand,
		&p.InverterBrand,
		&p.InverterPower,
		&p.ConnectionType,
		&p.PricePerKwp,
		&p.PaymentMethod,
		&p.Notes,
		&p.ValidUntil,
		&p.Status,
		&p.SystemPowerKwp,
		&p.MonthlyGeneration,
		&p.MonthlySavings,
		&p.RequiredArea,
		&p.TotalValue,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// mapNotFound: linha ausente e uuid inválido (22P02) viram ErrProposalNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrProposalNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return entity.ErrProposalNotFound
	}
	return err
}
