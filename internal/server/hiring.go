package server

import (
	"encoding/json"
	"net/http"

	"github.com/baohm88/mycabs/internal/domain"
)

func hiringQuery(r *http.Request) domain.HiringQuery {
	page, pageSize := parsePaging(r)
	return domain.HiringQuery{
		Page:     page,
		PageSize: pageSize,
		Status:   r.URL.Query().Get("status"),
	}
}

func (h *marketHandler) driverApply(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	req := new(domain.ApplyRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	app, err := h.hiring.Apply(r.Context(), userID, req.CompanyID)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, app)
}

func (h *marketHandler) driverApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	q := hiringQuery(r)
	items, total, err := h.hiring.GetMyApplications(r.Context(), userID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}

func (h *marketHandler) driverInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	q := hiringQuery(r)
	items, total, err := h.hiring.GetMyInvitations(r.Context(), userID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}

func (h *marketHandler) driverRespondInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireDriver(w, r)
	if !ok {
		return
	}
	req := new(domain.RespondInvitationRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if err := validateAction(req.Action); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	err := h.hiring.RespondInvitation(r.Context(), userID, r.PathValue("invitation_id"), req.Action)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": string(req.Action)})
}

func (h *marketHandler) companyApplications(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	q := hiringQuery(r)
	items, total, err := h.hiring.GetCompanyApplications(r.Context(), companyID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}

func (h *marketHandler) companyApprove(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	err := h.hiring.Approve(r.Context(), companyID, r.PathValue("application_id"))
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": string(domain.ApplicationApproved)})
}

func (h *marketHandler) companyReject(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	err := h.hiring.Reject(r.Context(), companyID, r.PathValue("application_id"))
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": string(domain.ApplicationRejected)})
}

func (h *marketHandler) companyInvite(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	req := new(domain.InviteDriverRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	inv, err := h.hiring.Invite(r.Context(), companyID, req.DriverUserID, req.Note)
	if err != nil {
		businessError(w, err)
		return
	}
	writeJSON(w, inv)
}

func (h *marketHandler) companyInvitations(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	q := hiringQuery(r)
	items, total, err := h.hiring.GetCompanyInvitations(r.Context(), companyID, q)
	if err != nil {
		businessError(w, err)
		return
	}
	writePaged(w, items, total, q.Page, q.PageSize)
}
