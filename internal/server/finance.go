package server

import (
	"encoding/json"
	"net/http"

	"github.com/baohm88/mycabs/internal/domain"
)

func txQuery(r *http.Request) domain.TransactionsQuery {
	page, pageSize := parsePaging(r)
	return domain.TransactionsQuery{
		Page:     page,
		PageSize: pageSize,
		Type:     domain.TxType(r.URL.Query().Get("type")),
		Status:   domain.TxStatus(r.URL.Query().Get("status")),
	}
}

func (h *marketHandler) companyWallet(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	wallet, err := h.finance.GetCompanyWallet(r.Context(), companyID)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, wallet)
}

func (h *marketHandler) companyTransactions(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	q := txQuery(r)
	items, total, err := h.finance.GetCompanyTransactions(r.Context(), companyID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}

func (h *marketHandler) companyTopUp(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	req := new(domain.TopUpRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if err := validatePositiveAmount(req.Amount); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	tx, err := h.finance.TopUp(r.Context(), companyID, req)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (h *marketHandler) companyPaySalary(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	req := new(domain.PaySalaryRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if err := validatePositiveAmount(req.Amount); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	tx, err := h.finance.PaySalary(r.Context(), companyID, req)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (h *marketHandler) companyPayMembership(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	req := new(domain.PayMembershipRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if err := validateMembership(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	tx, err := h.finance.PayMembership(r.Context(), companyID, req)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (h *marketHandler) driverWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	wallet, err := h.finance.GetDriverWallet(r.Context(), userID)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, wallet)
}

func (h *marketHandler) driverTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	q := txQuery(r)
	items, total, err := h.finance.GetDriverTransactions(r.Context(), userID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}
