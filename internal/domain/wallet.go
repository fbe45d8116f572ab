package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OwnerType string

const (
	OwnerCompany OwnerType = "Company"
	OwnerDriver  OwnerType = "Driver"
)

type Wallet struct {
	ID                  string          `json:"id"`
	OwnerType           OwnerType       `json:"owner_type"`
	OwnerID             string          `json:"owner_id"`
	Balance             decimal.Decimal `json:"balance"`
	LowBalanceThreshold decimal.Decimal `json:"low_balance_threshold"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type TxType string

const (
	TxTopup      TxType = "Topup"
	TxSalary     TxType = "Salary"
	TxMembership TxType = "Membership"
)

type TxStatus string

const (
	TxPending   TxStatus = "Pending"
	TxCompleted TxStatus = "Completed"
	TxFailed    TxStatus = "Failed"
)

// Transaction is an append-only audit record of one funds-movement attempt.
// Status is decided by the caller before the record is written and never
// changes afterwards.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TxType          `json:"type"`
	Status       TxStatus        `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	FromWalletID *string         `json:"from_wallet_id,omitempty"`
	ToWalletID   *string         `json:"to_wallet_id,omitempty"`
	CompanyID    string          `json:"company_id"`
	DriverID     *string         `json:"driver_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

type PaySalaryRequest struct {
	DriverUserID string          `json:"driver_user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
}

type PayMembershipRequest struct {
	Plan         string          `json:"plan"`
	BillingCycle string          `json:"billing_cycle"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
}

type TransactionsQuery struct {
	Page     int
	PageSize int
	Type     TxType
	Status   TxStatus
}
