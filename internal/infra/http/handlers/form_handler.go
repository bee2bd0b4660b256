package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/export"
	"github.com/xavierca1/ligue-solar/internal/form"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-solar/internal/validation"
)

// FormHandler aplica alterações no formulário de proposta do lado do servidor:
// derivações, autopreenchimento por CEP e validação dos campos tocados.
type FormHandler struct {
	lookup form.AddressLookup
	rules  *validation.Engine
}

func NewFormHandler(lookup form.AddressLookup) *FormHandler {
	return &FormHandler{lookup: lookup, rules: validation.ProposalRules()}
}

type DeriveRequest struct {
	Data    form.Data     `json:"data"`
	Changes []form.Change `json:"changes"`
	// Submit valida o formulário inteiro, não só os campos alterados
	Submit bool `json:"submit"`
}

type DeriveResponse struct {
	Data      form.Data         `json:"data"`
	Valid     bool              `json:"valid"`
	Errors    validation.Errors `json:"errors"`
	ShareLink string            `json:"share_link,omitempty"`
}

func (h *FormHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	var latest *calculator.Calculations
	opts := []form.Option{form.WithOnCalculations(func(c calculator.Calculations) { latest = &c })}
	if h.lookup != nil {
		opts = append(opts, form.WithAddressLookup(h.lookup))
	}
	ctrl := form.NewController(req.Data, opts...)

	data, err := ctrl.Apply(r.Context(), req.Changes)
	if err != nil {
		code := "INVALID_CHANGE"
		if errors.Is(err, form.ErrReadOnlyField) {
			code = "READ_ONLY_FIELD"
		}
		writeErrorResponse(w, http.StatusBadRequest, code, err.Error())
		return
	}

	resp := DeriveResponse{Data: data}
	if req.Submit {
		result := h.rules.ValidateForm(data.Values())
		resp.Valid, resp.Errors = result.Valid, result.Errors
	} else {
		state := validation.NewState()
		values := data.Values()
		for _, ch := range req.Changes {
			h.rules.ValidateSingleField(state, string(ch.Field), values[string(ch.Field)])
		}
		resp.Errors = state.Errors()
		resp.Valid = resp.Errors.Empty()
	}

	if latest != nil && data.ClientPhone != "" {
		resp.ShareLink = whatsapp.ShareLink(data.ClientPhone, shareText(data, *latest))
	}

	writeJSON(w, http.StatusOK, resp)
}

func shareText(d form.Data, c calculator.Calculations) string {
	return fmt.Sprintf("Olá %s! Sua proposta de energia solar: sistema de %s kWp com %d módulos, economia estimada de %s/mês. Investimento: %s.",
		d.ClientName,
		export.Number(c.SystemPowerKwp, 2),
		c.ModuleQuantity,
		export.BRL(c.MonthlySavings),
		export.BRL(c.TotalValue),
	)
}
