package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

func TestGetUserSendsKeysAndMapsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u-1","email":"carla@ligue.com","user_metadata":{"full_name":"Carla Dias"}}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL, "anon").GetUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Carla Dias", user.Name)
	assert.Empty(t, user.Role)
}

func TestGetUserUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon").GetUser(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewClient(srv.URL, "anon").GetUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCachedAuthReusesSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":"u-1","email":"a@b.com"}`))
	}))
	defer srv.Close()

	auth := NewCachedAuth(NewClient(srv.URL, "anon"), cache.New(cache.Options[entity.User]{}))
	for i := 0; i < 3; i++ {
		user, err := auth.GetUser(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", user.Email)
	}
	assert.Equal(t, 1, calls)
}
