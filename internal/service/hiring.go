package service

import (
	"context"
	"log/slog"

	"github.com/baohm88/mycabs/internal/domain"
)

// Collaborator contracts the hiring core calls into. Persistence lives in
// internal/repo; tests substitute in-memory fakes with the same conditional
// update semantics.

type ApplicationStore interface {
	ExistsPending(ctx context.Context, driverID, companyID string) (bool, error)
	Create(ctx context.Context, driverID, companyID string) (*domain.Application, error)
	GetByID(ctx context.Context, appID string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, appID string, status domain.ApplicationStatus) error
	RejectPendingByDriverExcept(ctx context.Context, driverID, exceptAppID string) (int64, error)
	FindForCompany(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Application, int64, error)
	FindForDriver(ctx context.Context, driverID string, q domain.HiringQuery) ([]domain.Application, int64, error)
}

type InvitationStore interface {
	Create(ctx context.Context, companyID, driverID, candidateEmail, note string) (*domain.Invitation, error)
	GetByID(ctx context.Context, inviteID string) (*domain.Invitation, error)
	UpdateStatus(ctx context.Context, inviteID string, status domain.InvitationStatus) error
	FindForCompany(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Invitation, int64, error)
	FindForCandidate(ctx context.Context, key domain.CandidateKey, q domain.HiringQuery) ([]domain.Invitation, int64, error)
}

type DriverDirectory interface {
	GetByID(ctx context.Context, driverID string) (*domain.Driver, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)
	CreateIfMissing(ctx context.Context, userID string) (*domain.Driver, error)
	AssignToCompanyIfAvailable(ctx context.Context, driverID, companyID string, status domain.DriverStatus) (bool, error)
	SetCompany(ctx context.Context, driverID, companyID string) error
}

type CompanyDirectory interface {
	GetByID(ctx context.Context, companyID string) (*domain.Company, error)
	UpdateMembership(ctx context.Context, companyID string, m domain.MembershipInfo) error
}

type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

// CascadePublisher hands the auto-reject of competing applications to a
// durable queue so it survives a restart of the approving process.
type CascadePublisher interface {
	PublishApproved(ctx context.Context, driverID, exceptAppID string) error
}

type HiringService struct {
	slogger   *slog.Logger
	apps      ApplicationStore
	invites   InvitationStore
	drivers   DriverDirectory
	companies CompanyDirectory
	users     UserDirectory
	cascade   CascadePublisher
}

func NewHiringService(
	slogger *slog.Logger,
	apps ApplicationStore,
	invites InvitationStore,
	drivers DriverDirectory,
	companies CompanyDirectory,
	users UserDirectory,
	cascade CascadePublisher,
) *HiringService {
	return &HiringService{
		slogger:   slogger,
		apps:      apps,
		invites:   invites,
		drivers:   drivers,
		companies: companies,
		users:     users,
		cascade:   cascade,
	}
}

// Apply creates a Pending application from the driver behind userID to the
// company. The driver profile is created on first contact.
func (s *HiringService) Apply(ctx context.Context, userID, companyID string) (*domain.Application, error) {
	driver, err := s.drivers.CreateIfMissing(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	pending, err := s.apps.ExistsPending(ctx, driver.ID, companyID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrApplicationAlreadyPending
	}

	return s.apps.Create(ctx, driver.ID, companyID)
}

// Approve marks the application Approved and hires the driver. The driver
// assignment is conditional: it only wins when the driver is unassigned or
// already with this company. When it loses, the application stays Approved
// and the caller gets DRIVER_NOT_AVAILABLE; there is deliberately no
// compensating transition (the two writes are separate documents).
func (s *HiringService) Approve(ctx context.Context, companyID, appID string) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if app.CompanyID != companyID {
		return domain.ErrForbidden
	}
	// repeated approve is a no-op
	if app.Status == domain.ApplicationApproved {
		return nil
	}

	if _, err := s.drivers.GetByID(ctx, app.DriverID); err != nil {
		return err
	}

	if err := s.apps.UpdateStatus(ctx, appID, domain.ApplicationApproved); err != nil {
		return err
	}

	ok, err := s.drivers.AssignToCompanyIfAvailable(ctx, app.DriverID, companyID, domain.DriverHired)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrDriverNotAvailable
	}

	if err := s.cascade.PublishApproved(ctx, app.DriverID, appID); err != nil {
		// queue unavailable: reject the competitors inline rather than drop them
		s.slogger.Warn("cascade publish failed, rejecting inline", "action", "approve application", "error", err)
		if _, err := s.apps.RejectPendingByDriverExcept(ctx, app.DriverID, appID); err != nil {
			s.slogger.Error("cannot reject competing applications", "action", "approve application", "error", err)
		}
	}
	return nil
}

func (s *HiringService) Reject(ctx context.Context, companyID, appID string) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if app.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if app.Status == domain.ApplicationApproved {
		return domain.ErrCannotRejectApproved
	}
	return s.apps.UpdateStatus(ctx, appID, domain.ApplicationRejected)
}

// Invite creates a Pending invitation for the driver behind userID. The
// candidate's email is recorded alongside the profile id so the invitation
// stays resolvable if the profile is recreated later.
func (s *HiringService) Invite(ctx context.Context, companyID, driverUserID, note string) (*domain.Invitation, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, err
	}

	email := ""
	if u, err := s.users.GetByID(ctx, driverUserID); err == nil {
		email = u.EmailLower
	}
	return s.invites.Create(ctx, companyID, driver.ID, email, note)
}

// RespondInvitation applies the driver's Accept/Decline. Accept assigns the
// driver to the inviting company unconditionally.
func (s *HiringService) RespondInvitation(ctx context.Context, userID, inviteID string, action domain.InvitationAction) error {
	driver, err := s.drivers.CreateIfMissing(ctx, userID)
	if err != nil {
		return err
	}
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if inv.DriverID != driver.ID {
		return domain.ErrInvitationNotFound
	}

	status := domain.InvitationDeclined
	if action == domain.InvitationAccept {
		status = domain.InvitationAccepted
	}
	if err := s.invites.UpdateStatus(ctx, inviteID, status); err != nil {
		return err
	}

	if status == domain.InvitationAccepted {
		return s.drivers.SetCompany(ctx, driver.ID, inv.CompanyID)
	}
	return nil
}

// RejectCompeting is the cascade worker entry point, consumed from the queue.
func (s *HiringService) RejectCompeting(ctx context.Context, driverID, exceptAppID string) error {
	n, err := s.apps.RejectPendingByDriverExcept(ctx, driverID, exceptAppID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.slogger.Info("rejected competing applications", "action", "hiring cascade", "driver_id", driverID, "count", n)
	}
	return nil
}

func (s *HiringService) GetCompanyApplications(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	return s.apps.FindForCompany(ctx, companyID, q)
}

func (s *HiringService) GetMyApplications(ctx context.Context, userID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	driver, err := s.drivers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.apps.FindForDriver(ctx, driver.ID, q)
}

func (s *HiringService) GetCompanyInvitations(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	return s.invites.FindForCompany(ctx, companyID, q)
}

// GetMyInvitations matches by driver profile id when one exists and by the
// user's email otherwise.
func (s *HiringService) GetMyInvitations(ctx context.Context, userID string, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	key := domain.CandidateKey{Email: user.EmailLower}
	if driver, err := s.drivers.GetByUserID(ctx, userID); err == nil {
		key.DriverID = driver.ID
	}
	return s.invites.FindForCandidate(ctx, key, q)
}
