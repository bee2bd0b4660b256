package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) GetRole(ctx context.Context, userID string) (entity.Role, bool, error) {
	var role string
	err := r.DB.QueryRowContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("erro ao buscar papel: %w", err)
	}
	return entity.Role(role), true, nil
}

// ClaimAdmin serializa a checagem com um advisory lock da transação, então
// dois primeiros logins simultâneos não viram admin ao mesmo tempo.
func (r *RoleRepository) ClaimAdmin(ctx context.Context, userID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('user_roles_admin'))`); err != nil {
		return false, fmt.Errorf("erro ao obter lock de admin: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE role = 'admin')`).Scan(&exists); err != nil {
		return false, fmt.Errorf("erro ao verificar admin: %w", err)
	}
	if exists {
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, 'admin')
		ON CONFLICT (user_id) DO UPDATE SET role = 'admin'
	`, userID)
	if err != nil {
		return false, fmt.Errorf("erro ao gravar admin: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	log.Printf("✅ Primeiro admin definido: %s", userID)
	return true, nil
}

// Assign grava o papel só se o usuário ainda não tiver um.
func (r *RoleRepository) Assign(ctx context.Context, userID string, role entity.Role) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, string(role))
	if err != nil {
		return fmt.Errorf("erro ao gravar papel: %w", err)
	}
	return nil
}
