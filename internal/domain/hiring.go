package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Application is a driver's request to join a company.
// At most one Pending application exists per (driver, company) pair.
type Application struct {
	ID        string            `json:"id"`
	DriverID  string            `json:"driver_id"`
	CompanyID string            `json:"company_id"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "Pending"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationDeclined InvitationStatus = "Declined"
)

// Invitation is a company's offer to a driver. CandidateEmail lets a company
// invite a candidate before a driver profile exists for that user.
type Invitation struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"company_id"`
	DriverID       string           `json:"driver_id"`
	CandidateEmail string           `json:"candidate_email,omitempty"`
	Status         InvitationStatus `json:"status"`
	Note           string           `json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
	DriverHired     DriverStatus = "hired"
)

type Driver struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	CompanyID *string      `json:"company_id,omitempty"`
	Status    DriverStatus `json:"status"`
	Phone     string       `json:"phone,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type MembershipInfo struct {
	Plan         string     `json:"plan"`
	BillingCycle string     `json:"billing_cycle"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type Company struct {
	ID          string          `json:"id"`
	OwnerUserID string          `json:"owner_user_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Address     string          `json:"address,omitempty"`
	Membership  *MembershipInfo `json:"membership,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ApplyRequest struct {
	CompanyID string `json:"company_id"`
}

type InviteDriverRequest struct {
	DriverUserID string `json:"driver_user_id"`
	Note         string `json:"note"`
}

type InvitationAction string

const (
	InvitationAccept  InvitationAction = "Accept"
	InvitationDecline InvitationAction = "Decline"
)

type RespondInvitationRequest struct {
	Action InvitationAction `json:"action"`
}

type HiringQuery struct {
	Page     int
	PageSize int
	Status   string
}

// CandidateKey identifies an invitation target: by driver profile id when one
// exists, falling back to the candidate's email.
type CandidateKey struct {
	DriverID string
	Email    string
}
