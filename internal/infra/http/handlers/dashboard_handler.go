package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-solar/internal/usecase"
)

type DashboardHandler struct {
	DashboardUC *usecase.DashboardUseCase
	ExportUC    *usecase.ExportProposalsUseCase
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase, export *usecase.ExportProposalsUseCase) *DashboardHandler {
	return &DashboardHandler{DashboardUC: dashboard, ExportUC: export}
}

// Handle (GET /dashboard)
func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	out, err := h.DashboardUC.Execute(r.Context(), currentUser(r), filter, r.URL.Query().Get("refresh") == "true")
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleReport (GET /dashboard/report.pdf)
func (h *DashboardHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	exportFiltered(w, r, h.ExportUC, usecase.FormatReport)
}
