package viacep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

func TestLookupMapsAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01001000/json/", r.URL.Path)
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP","complemento":"lado ímpar"}`))
	}))
	defer srv.Close()

	addr, err := NewClient(srv.URL).Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, entity.Address{
		PostalCode:   "01001-000",
		Street:       "Praça da Sé",
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "SP",
		Complement:   "lado ímpar",
	}, addr)
}

func TestLookupNotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		_, err := NewClient(srv.URL).Lookup(context.Background(), "99999999")
		srv.Close()
		assert.ErrorIs(t, err, ErrAddressNotFound, body)
	}
}

func TestLookupRejectsShortCEPWithoutRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Lookup(context.Background(), "0100-100")
	assert.ErrorIs(t, err, ErrInvalidCEP)
	assert.False(t, called)
}

func TestFormatCEP(t *testing.T) {
	assert.Equal(t, "01001-000", FormatCEP("01001000"))
	assert.Equal(t, "123", FormatCEP("123"))
	assert.Equal(t, "01001000", NormalizeCEP("01001-000"))
}

type countingLookup struct {
	calls int
	err   error
}

func (c *countingLookup) Lookup(context.Context, string) (entity.Address, error) {
	c.calls++
	if c.err != nil {
		return entity.Address{}, c.err
	}
	return entity.Address{PostalCode: "01001-000", City: "São Paulo"}, nil
}

type mapStore map[string]string

func (m mapStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m[key] = value
	return nil
}

func TestCachedLookupHitsStoreOnSecondCall(t *testing.T) {
	inner := &countingLookup{}
	store := mapStore{}
	c := NewCachedLookup(inner, store, time.Hour)

	first, err := c.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	second, err := c.Lookup(context.Background(), "01001000")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Contains(t, store, "cep:01001000")
}

func TestCachedLookupDoesNotCacheErrors(t *testing.T) {
	inner := &countingLookup{err: ErrAddressNotFound}
	store := mapStore{}
	c := NewCachedLookup(inner, store, time.Hour)

	_, err := c.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, _ = c.Lookup(context.Background(), "99999999")
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, store)
}
