package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

var ErrUnauthorized = errors.New("sessão inválida ou expirada")

// Tempo que um token validado fica em memória
const SessionTTL = time.Minute

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUser valida o access token no Auth do Supabase. O papel não vem daqui.
func (c *Client) GetUser(ctx context.Context, token string) (entity.User, error) {
	if token == "" {
		return entity.User{}, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return entity.User{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.User{}, fmt.Errorf("erro request supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return entity.User{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Supabase Auth: status %d: %s", resp.StatusCode, string(body))
		return entity.User{}, fmt.Errorf("erro supabase auth (status %d)", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return entity.User{}, fmt.Errorf("erro decode supabase: %w", err)
	}
	if user.ID == "" {
		return entity.User{}, ErrUnauthorized
	}

	return entity.User{ID: user.ID, Email: user.Email, Name: user.name()}, nil
}

type UserGetter interface {
	GetUser(ctx context.Context, token string) (entity.User, error)
}

// CachedAuth evita uma ida ao Supabase por request. A chave é o hash do token.
type CachedAuth struct {
	inner    UserGetter
	sessions *cache.Cache[entity.User]
}

func NewCachedAuth(inner UserGetter, sessions *cache.Cache[entity.User]) *CachedAuth {
	return &CachedAuth{inner: inner, sessions: sessions}
}

func (a *CachedAuth) GetUser(ctx context.Context, token string) (entity.User, error) {
	key := tokenKey(token)
	if user, ok := a.sessions.Get(key); ok {
		return user, nil
	}

	user, err := a.inner.GetUser(ctx, token)
	if err != nil {
		return entity.User{}, err
	}
	a.sessions.SetWithTTL(key, user, SessionTTL)
	return user, nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
