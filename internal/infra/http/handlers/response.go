package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-solar/internal/usecase"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz DomainError/TechnicalError em status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeValidation:
			status = http.StatusUnprocessableEntity
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeForbidden:
			status = http.StatusForbidden
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ %s: %v", te.Code, te.Err)
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeDatabase {
			status = http.StatusServiceUnavailable
		}
		writeErrorResponse(w, status, te.Code, te.Message)
		return
	}

	log.Printf("❌ Erro inesperado: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro inesperado")
}

func writeFile(w http.ResponseWriter, file *usecase.RenderedFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	if file.Pages > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(file.Pages))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func currentUser(r *http.Request) entity.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}
