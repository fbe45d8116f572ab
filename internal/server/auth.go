package server

import (
	"encoding/json"
	"net/http"

	"github.com/baohm88/mycabs/internal/domain"
)

func (h *marketHandler) register(w http.ResponseWriter, r *http.Request) {
	req := new(domain.RegisterRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if err := validateRegister(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		businessError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *marketHandler) login(w http.ResponseWriter, r *http.Request) {
	req := new(domain.LoginRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, resp)
}
