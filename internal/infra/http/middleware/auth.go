package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/supabase"
)

type ctxKey struct{}

type UserGetter interface {
	GetUser(ctx context.Context, token string) (entity.User, error)
}

type UserResolver interface {
	Execute(ctx context.Context, user entity.User) (entity.User, error)
}

// Auth valida o bearer token no Supabase e resolve o papel do usuário.
type Auth struct {
	users    UserGetter
	resolver UserResolver
}

func NewAuth(users UserGetter, resolver UserResolver) *Auth {
	return &Auth{users: users, resolver: resolver}
}

func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "Faça login para continuar")
			return
		}

		user, err := a.users.GetUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, supabase.ErrUnauthorized) {
				unauthorized(w, "Sessão expirada. Faça login novamente")
				return
			}
			log.Printf("❌ Auth: falha ao validar sessão: %v", err)
			RecordIntegrationError("supabase_auth")
			writeJSONError(w, http.StatusBadGateway, "AUTH_UNAVAILABLE", "Serviço de autenticação indisponível")
			return
		}

		user, err = a.resolver.Execute(r.Context(), user)
		if err != nil {
			log.Printf("❌ Auth: falha ao resolver papel de %s: %v", user.ID, err)
			writeJSONError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "Não foi possível carregar o perfil")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin deve vir depois de Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w, "Faça login para continuar")
			return
		}
		if !user.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user entity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFromContext(ctx context.Context) (entity.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(entity.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
