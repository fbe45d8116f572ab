package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baohm88/mycabs/internal/domain"
)

type myErr struct {
	ErrStr string `json:"error"`
}

func errorWrite(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := &myErr{
		ErrStr: err.Error(),
	}
	json.NewEncoder(w).Encode(msg)
}

// businessError maps stable domain codes to transport status. Anything that
// is not a domain error is a 500.
func businessError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		errorWrite(w, http.StatusInternalServerError, err)
		return
	}
	switch derr {
	case domain.ErrCompanyNotFound, domain.ErrDriverNotFound,
		domain.ErrApplicationNotFound, domain.ErrInvitationNotFound,
		domain.ErrNotFound:
		errorWrite(w, http.StatusNotFound, derr)
	case domain.ErrForbidden:
		errorWrite(w, http.StatusForbidden, derr)
	case domain.ErrInvalidCredentials:
		errorWrite(w, http.StatusUnauthorized, derr)
	case domain.ErrEmailTaken:
		errorWrite(w, http.StatusConflict, derr)
	default:
		errorWrite(w, http.StatusBadRequest, derr)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type pagedResponse struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func writePaged(w http.ResponseWriter, items any, total int64, page, pageSize int) {
	writeJSON(w, &pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}
