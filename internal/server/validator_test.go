package server

import (
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/baohm88/mycabs/internal/domain"
)

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, validatePositiveAmount(decimal.NewFromInt(1)))
	assert.Error(t, validatePositiveAmount(decimal.Zero))
	assert.Error(t, validatePositiveAmount(decimal.NewFromInt(-5)))
}

func TestValidateMembership(t *testing.T) {
	ok := &domain.PayMembershipRequest{Plan: "Premium", BillingCycle: "quarterly", Amount: decimal.NewFromInt(600_000)}
	assert.NoError(t, validateMembership(ok))

	free := &domain.PayMembershipRequest{Plan: "Free", BillingCycle: "monthly"}
	assert.NoError(t, validateMembership(free))

	assert.Error(t, validateMembership(&domain.PayMembershipRequest{Plan: "Gold", BillingCycle: "monthly"}))
	assert.Error(t, validateMembership(&domain.PayMembershipRequest{Plan: "Basic", BillingCycle: "yearly"}))
	assert.Error(t, validateMembership(&domain.PayMembershipRequest{
		Plan: "Basic", BillingCycle: "monthly", Amount: decimal.NewFromInt(-1),
	}))
}

func TestValidateAction(t *testing.T) {
	assert.NoError(t, validateAction(domain.InvitationAccept))
	assert.NoError(t, validateAction(domain.InvitationDecline))
	assert.Error(t, validateAction("Maybe"))
}

func TestParsePaging(t *testing.T) {
	r := httptest.NewRequest("GET", "/notifications", nil)
	page, size := parsePaging(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	r = httptest.NewRequest("GET", "/notifications?page=3&page_size=50", nil)
	page, size = parsePaging(r)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	r = httptest.NewRequest("GET", "/notifications?page=-1&page_size=9999", nil)
	page, size = parsePaging(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, size)
}
