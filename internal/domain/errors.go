package domain

// Error carries a stable business code. The HTTP layer maps codes to status
// codes; services compare with errors.Is against the sentinels below.
type Error struct {
	Code string
}

func (e *Error) Error() string { return e.Code }

var (
	ErrCompanyNotFound           = &Error{Code: "COMPANY_NOT_FOUND"}
	ErrDriverNotFound            = &Error{Code: "DRIVER_NOT_FOUND"}
	ErrApplicationNotFound       = &Error{Code: "APPLICATION_NOT_FOUND"}
	ErrInvitationNotFound        = &Error{Code: "INVITATION_NOT_FOUND"}
	ErrApplicationAlreadyPending = &Error{Code: "APPLICATION_ALREADY_PENDING"}
	ErrCannotRejectApproved      = &Error{Code: "CANNOT_REJECT_APPROVED"}
	ErrDriverNotAvailable        = &Error{Code: "DRIVER_NOT_AVAILABLE"}
	ErrInsufficientFunds         = &Error{Code: "INSUFFICIENT_FUNDS"}
	ErrEmailTaken                = &Error{Code: "EMAIL_TAKEN"}
	ErrInvalidCredentials        = &Error{Code: "INVALID_CREDENTIALS"}
	ErrForbidden                 = &Error{Code: "FORBIDDEN"}
	ErrNotFound                  = &Error{Code: "NOT_FOUND"}
)
