package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

// ResolveUserUseCase completa o usuário autenticado com o papel. O primeiro
// usuário sem papel num banco sem admin vira admin.
type ResolveUserUseCase struct {
	Roles entity.RoleRepositoryInterface
	roles *cache.Cache[entity.Role]
}

func NewResolveUserUseCase(roles entity.RoleRepositoryInterface, c *cache.Cache[entity.Role]) *ResolveUserUseCase {
	return &ResolveUserUseCase{Roles: roles, roles: c}
}

func (uc *ResolveUserUseCase) Execute(ctx context.Context, user entity.User) (entity.User, error) {
	if uc.roles != nil {
		if role, ok := uc.roles.Get(user.ID); ok {
			user.Role = role
			return user, nil
		}
	}

	role, found, err := uc.Roles.GetRole(ctx, user.ID)
	if err != nil {
		return user, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível carregar o perfil", Err: err}
	}

	if !found {
		role, err = uc.bootstrap(ctx, user.ID)
		if err != nil {
			return user, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível criar o perfil", Err: err}
		}
	}

	if uc.roles != nil {
		uc.roles.Set(user.ID, role)
	}
	user.Role = role
	return user, nil
}

func (uc *ResolveUserUseCase) bootstrap(ctx context.Context, userID string) (entity.Role, error) {
	claimed, err := uc.Roles.ClaimAdmin(ctx, userID)
	if err != nil {
		return "", err
	}
	if claimed {
		return entity.RoleAdmin, nil
	}

	if err := uc.Roles.Assign(ctx, userID, entity.RoleUser); err != nil {
		return "", err
	}
	// Assign não sobrescreve; relê caso uma request paralela tenha gravado antes
	role, found, err := uc.Roles.GetRole(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return entity.RoleUser, nil
	}
	log.Printf("👤 Perfil %s criado para %s", role, userID)
	return role, nil
}
