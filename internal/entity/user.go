package entity

import "context"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User é a identidade resolvida pelo provedor de autenticação.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// DisplayName devolve o nome do vendedor, caindo para o email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RoleRepositoryInterface interface {
	GetRole(ctx context.Context, userID string) (Role, bool, error)
	// ClaimAdmin promove userID a admin somente se ainda não existir nenhum admin.
	ClaimAdmin(ctx context.Context, userID string) (bool, error)
	Assign(ctx context.Context, userID string, role Role) error
}
