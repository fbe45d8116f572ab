package domain

import "fmt"

// Role is resolved once from the token at the transport boundary.
// Handlers and services branch on these constants, never on raw strings.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleRider
	RoleDriver
	RoleCompany
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "Rider":
		return RoleRider, nil
	case "Driver":
		return RoleDriver, nil
	case "Company":
		return RoleCompany, nil
	case "Admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("invalid role: %s", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleRider:
		return "Rider"
	case RoleDriver:
		return "Driver"
	case RoleCompany:
		return "Company"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}
