package kommo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeadReusesContactFoundByPhone(t *testing.T) {
	var leadBody []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/contacts":
			assert.Equal(t, "5511987654321", r.URL.Query().Get("query"))
			w.Write([]byte(`{"_embedded":{"contacts":[{"id":77}]}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/leads":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&leadBody))
			w.Write([]byte(`{"_embedded":{"leads":[{"id":1234}]}}`))
		default:
			t.Errorf("requisição inesperada %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	id, err := NewClient("token", srv.URL).CreateLead(context.Background(), CreateLeadInput{
		ClientName: "Ana Lima",
		Phone:      "5511987654321",
		Title:      "Sistema 4,55 kWp",
		Price:      11136,
	})
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	require.Len(t, leadBody, 1)
	assert.Equal(t, "Ana Lima - Sistema 4,55 kWp", leadBody[0]["name"])
	assert.Equal(t, 11136.0, leadBody[0]["price"])
}

func TestCreateLeadCreatesContactWhenMissing(t *testing.T) {
	created := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/contacts":
			created = true
			w.Write([]byte(`{"_embedded":{"contacts":[{"id":5}]}}`))
		default:
			w.Write([]byte(`{"_embedded":{"leads":[{"id":9}]}}`))
		}
	}))
	defer srv.Close()

	id, err := NewClient("token", srv.URL).CreateLead(context.Background(), CreateLeadInput{ClientName: "Ana", Phone: "1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 9, id)
}

func TestCreateLeadWithoutToken(t *testing.T) {
	_, err := NewClient("", "http://unused").CreateLead(context.Background(), CreateLeadInput{})
	assert.Error(t, err)
}
