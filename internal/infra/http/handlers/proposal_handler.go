package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-solar/internal/form"
	"github.com/xavierca1/ligue-solar/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-solar/internal/usecase"
)

type ProposalHandler struct {
	ListUC   *usecase.ListProposalsUseCase
	GetUC    *usecase.GetProposalUseCase
	SaveUC   *usecase.SaveProposalUseCase
	DeleteUC *usecase.DeleteProposalUseCase
	PDFUC    *usecase.RenderProposalPDF
	ExportUC *usecase.ExportProposalsUseCase
}

func NewProposalHandler(
	list *usecase.ListProposalsUseCase,
	get *usecase.GetProposalUseCase,
	save *usecase.SaveProposalUseCase,
	del *usecase.DeleteProposalUseCase,
	pdf *usecase.RenderProposalPDF,
	export *usecase.ExportProposalsUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		ListUC:   list,
		GetUC:    get,
		SaveUC:   save,
		DeleteUC: del,
		PDFUC:    pdf,
		ExportUC: export,
	}
}

// HandleMe (GET /me)
func (h *ProposalHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

// HandleList (GET /proposals?refresh=true)
func (h *ProposalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	out, err := h.ListUC.Execute(r.Context(), currentUser(r), filter, r.URL.Query().Get("refresh") == "true")
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate (POST /proposals) recebe o formulário; os cálculos são refeitos aqui.
func (h *ProposalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input form.Data
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	saved, err := h.SaveUC.Execute(r.Context(), currentUser(r), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordProposalSaved()
	writeJSON(w, http.StatusCreated, saved)
}

// HandleGet (GET /proposals/{id})
func (h *ProposalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.GetUC.Execute(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete (DELETE /proposals/{id})
func (h *ProposalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteUC.Execute(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePDF (GET /proposals/{id}/pdf)
func (h *ProposalHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	p, err := h.GetUC.Execute(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	file, err := h.PDFUC.Execute(r.Context(), *p)
	if err != nil {
		middleware.RecordExport("proposal_pdf", "error")
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordExport("proposal_pdf", "ok")
	writeFile(w, file)
}

// HandleExportCSV (GET /proposals/export.csv)
func (h *ProposalHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.FormatCSV)
}

// HandleExportXLSX (GET /proposals/export.xlsx)
func (h *ProposalHandler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.FormatXLSX)
}

func (h *ProposalHandler) export(w http.ResponseWriter, r *http.Request, format usecase.ExportFormat) {
	exportFiltered(w, r, h.ExportUC, format)
}

func exportFiltered(w http.ResponseWriter, r *http.Request, uc *usecase.ExportProposalsUseCase, format usecase.ExportFormat) {
	filter, err := parseFilter(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	file, err := uc.Execute(r.Context(), currentUser(r), filter, format)
	if err != nil {
		middleware.RecordExport(string(format), "error")
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordExport(string(format), "ok")
	writeFile(w, file)
}
