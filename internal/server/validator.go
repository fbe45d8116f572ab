package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/baohm88/mycabs/internal/domain"
)

func validateRegister(req *domain.RegisterRequest) error {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	if !strings.Contains(req.Email, "@") {
		return errors.New("invalid email")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if _, err := domain.ParseRole(req.Role); err != nil {
		return err
	}
	return nil
}

func validatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}

func validateMembership(req *domain.PayMembershipRequest) error {
	switch req.Plan {
	case "Free", "Basic", "Premium":
	default:
		return fmt.Errorf("invalid plan: %s", req.Plan)
	}
	switch req.BillingCycle {
	case "monthly", "quarterly":
	default:
		return fmt.Errorf("invalid billing cycle: %s", req.BillingCycle)
	}
	// a Free plan may carry a zero amount, negative never
	if req.Amount.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

func validateAction(action domain.InvitationAction) error {
	if action != domain.InvitationAccept && action != domain.InvitationDecline {
		return fmt.Errorf("invalid action: %s", action)
	}
	return nil
}

func parsePaging(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
