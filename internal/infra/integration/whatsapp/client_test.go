package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageTemplatePayload(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/phone-1/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "phone-1").WithBaseURL(srv.URL)
	err := c.SendMessage(context.Background(), SendMessageInput{
		PhoneNumber:  "5511987654321",
		TemplateName: "proposta_enviada",
		Parameters:   []string{"Ana", "R$ 11.136,00"},
	})
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", payload["to"])
	tmpl := payload["template"].(map[string]any)
	assert.Equal(t, "proposta_enviada", tmpl["name"])
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient("tok", "p").WithBaseURL(srv.URL).SendMessage(context.Background(), SendMessageInput{})
	assert.Error(t, err)
}

func TestSendMessageNotConfigured(t *testing.T) {
	assert.Error(t, NewClient("", "").SendMessage(context.Background(), SendMessageInput{}))
}

func TestShareLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511987654321?text=Ol%C3%A1+Ana", ShareLink("(11) 98765-4321", "Olá Ana"))
	assert.Equal(t, "https://wa.me/?text=x", ShareLink("", "x"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "551133334444", NormalizePhone("(11) 3333-4444"))
	assert.Equal(t, "5511987654321", NormalizePhone("+55 11 98765-4321"))
}
