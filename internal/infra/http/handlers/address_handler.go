package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-solar/internal/form"
	"github.com/xavierca1/ligue-solar/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/viacep"
)

type AddressHandler struct {
	lookup form.AddressLookup
}

func NewAddressHandler(lookup form.AddressLookup) *AddressHandler {
	return &AddressHandler{lookup: lookup}
}

// Handle (GET /address/{cep})
func (h *AddressHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")

	addr, err := h.lookup.Lookup(r.Context(), cep)
	switch {
	case errors.Is(err, viacep.ErrInvalidCEP):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CEP", "CEP deve ter 8 dígitos")
	case errors.Is(err, viacep.ErrAddressNotFound):
		writeErrorResponse(w, http.StatusNotFound, "CEP_NOT_FOUND", "CEP não encontrado")
	case err != nil:
		log.Printf("❌ ViaCEP: %v", err)
		middleware.RecordIntegrationError("viacep")
		writeErrorResponse(w, http.StatusBadGateway, "ADDRESS_LOOKUP_FAILED", "Não foi possível consultar o CEP")
	default:
		writeJSON(w, http.StatusOK, addr)
	}
}
