package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/baohm88/mycabs/internal/domain"
	"github.com/baohm88/mycabs/internal/service"
)

// CompanyResolver resolves the company behind an authenticated company user.
type CompanyResolver interface {
	GetByOwnerUserID(ctx context.Context, userID string) (*domain.Company, error)
}

type marketServer struct {
	srv http.Server
}

func NewMarketServer(
	port uint16,
	sec string,
	auth *service.AuthService,
	hiring *service.HiringService,
	finance *service.FinanceService,
	notif *service.NotificationService,
	companies CompanyResolver,
) *marketServer {
	mux := http.NewServeMux()
	hand := &marketHandler{[]byte(sec), auth, hiring, finance, notif, companies}
	secret := []byte(sec)

	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h, secret))
	}

	mux.HandleFunc("POST /auth/register", hand.register)
	mux.HandleFunc("POST /auth/login", hand.login)

	route("POST /drivers/applications", hand.driverApply)
	route("GET /drivers/applications", hand.driverApplications)
	route("GET /drivers/invitations", hand.driverInvitations)
	route("POST /drivers/invitations/{invitation_id}/respond", hand.driverRespondInvitation)
	route("GET /drivers/wallet", hand.driverWallet)
	route("GET /drivers/transactions", hand.driverTransactions)

	route("GET /companies/applications", hand.companyApplications)
	route("POST /companies/applications/{application_id}/approve", hand.companyApprove)
	route("POST /companies/applications/{application_id}/reject", hand.companyReject)
	route("POST /companies/invitations", hand.companyInvite)
	route("GET /companies/invitations", hand.companyInvitations)
	route("GET /companies/wallet", hand.companyWallet)
	route("POST /companies/wallet/topup", hand.companyTopUp)
	route("POST /companies/wallet/salary", hand.companyPaySalary)
	route("POST /companies/membership", hand.companyPayMembership)
	route("GET /companies/transactions", hand.companyTransactions)

	route("GET /notifications", hand.listNotifications)
	route("POST /notifications/{notification_id}/read", hand.markNotificationRead)
	route("POST /notifications/read-all", hand.markAllNotificationsRead)

	return &marketServer{
		srv: http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

func (s *marketServer) StartServer() error {
	return s.srv.ListenAndServe()
}

func (s *marketServer) ShutDownServer(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type marketHandler struct {
	secret    []byte
	auth      *service.AuthService
	hiring    *service.HiringService
	finance   *service.FinanceService
	notif     *service.NotificationService
	companies CompanyResolver
}

// requireDriver checks the caller acts as a driver and returns their user id.
func (h *marketHandler) requireDriver(w http.ResponseWriter, r *http.Request) (string, bool) {
	claim, ok := claimsFrom(r)
	if !ok {
		errorWrite(w, http.StatusInternalServerError, fmt.Errorf("context error"))
		return "", false
	}
	if claim.Role != domain.RoleDriver {
		errorWrite(w, http.StatusForbidden, domain.ErrForbidden)
		return "", false
	}
	return claim.UserID, true
}

// requireCompany resolves the caller's company id from the token's user.
func (h *marketHandler) requireCompany(w http.ResponseWriter, r *http.Request) (string, bool) {
	claim, ok := claimsFrom(r)
	if !ok {
		errorWrite(w, http.StatusInternalServerError, fmt.Errorf("context error"))
		return "", false
	}
	if claim.Role != domain.RoleCompany {
		errorWrite(w, http.StatusForbidden, domain.ErrForbidden)
		return "", false
	}
	company, err := h.companies.GetByOwnerUserID(r.Context(), claim.UserID)
	if err != nil {
		businessError(w, err)
		return "", false
	}
	return company.ID, true
}

func (h *marketHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claim, ok := claimsFrom(r)
	if !ok {
		errorWrite(w, http.StatusInternalServerError, fmt.Errorf("context error"))
		return "", false
	}
	return claim.UserID, true
}
