package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baohm88/mycabs/internal/domain"
)

type WalletStore interface {
	GetOrCreate(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Wallet, error)
	Credit(ctx context.Context, walletID string, amount decimal.Decimal) error
	TryDebit(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error)
}

type TransactionLog interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindForCompany(ctx context.Context, companyID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error)
	FindForDriver(ctx context.Context, driverID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error)
}

// NotificationPublisher is fire-and-forget from the finance core's view:
// publish failures are logged, never surfaced.
type NotificationPublisher interface {
	Publish(ctx context.Context, userID, kind, title, message string, data map[string]any) error
}

// AdminRealtime pushes every recorded transaction to the admin channel.
type AdminRealtime interface {
	TxCreated(ctx context.Context, tx *domain.Transaction) error
}

var DefaultLowBalanceThreshold = decimal.NewFromInt(200_000)

type FinanceService struct {
	slogger   *slog.Logger
	wallets   WalletStore
	txs       TransactionLog
	drivers   DriverDirectory
	companies CompanyDirectory
	notifier  NotificationPublisher
	adminRT   AdminRealtime
	threshold decimal.Decimal
}

func NewFinanceService(
	slogger *slog.Logger,
	wallets WalletStore,
	txs TransactionLog,
	drivers DriverDirectory,
	companies CompanyDirectory,
	notifier NotificationPublisher,
	adminRT AdminRealtime,
	threshold decimal.Decimal,
) *FinanceService {
	if threshold.IsZero() {
		threshold = DefaultLowBalanceThreshold
	}
	return &FinanceService{
		slogger:   slogger,
		wallets:   wallets,
		txs:       txs,
		drivers:   drivers,
		companies: companies,
		notifier:  notifier,
		adminRT:   adminRT,
		threshold: threshold,
	}
}

func (s *FinanceService) GetCompanyWallet(ctx context.Context, companyID string) (*domain.Wallet, error) {
	return s.wallets.GetOrCreate(ctx, domain.OwnerCompany, companyID)
}

func (s *FinanceService) GetDriverWallet(ctx context.Context, driverUserID string) (*domain.Wallet, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, err
	}
	return s.wallets.GetOrCreate(ctx, domain.OwnerDriver, driver.ID)
}

func (s *FinanceService) GetCompanyTransactions(ctx context.Context, companyID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	return s.txs.FindForCompany(ctx, companyID, q)
}

func (s *FinanceService) GetDriverTransactions(ctx context.Context, driverUserID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	driver, err := s.drivers.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.txs.FindForDriver(ctx, driver.ID, q)
}

// TopUp credits the company wallet unconditionally and records a Completed
// Topup transaction.
func (s *FinanceService) TopUp(ctx context.Context, companyID string, req *domain.TopUpRequest) (*domain.Transaction, error) {
	w, err := s.wallets.GetOrCreate(ctx, domain.OwnerCompany, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.Credit(ctx, w.ID, req.Amount); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Type:       domain.TxTopup,
		Status:     domain.TxCompleted,
		Amount:     req.Amount,
		ToWalletID: &w.ID,
		CompanyID:  companyID,
		Note:       req.Note,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.pushAdmin(ctx, tx)
	return tx, nil
}

// PaySalary moves amount from the company wallet to the driver's. The debit is
// a single conditional subtract; the attempt is recorded whether or not it
// succeeded, and only a successful debit is followed by the driver credit.
func (s *FinanceService) PaySalary(ctx context.Context, companyID string, req *domain.PaySalaryRequest) (*domain.Transaction, error) {
	compW, err := s.wallets.GetOrCreate(ctx, domain.OwnerCompany, companyID)
	if err != nil {
		return nil, err
	}
	driver, err := s.drivers.GetByUserID(ctx, req.DriverUserID)
	if err != nil {
		return nil, err
	}
	drvW, err := s.wallets.GetOrCreate(ctx, domain.OwnerDriver, driver.ID)
	if err != nil {
		return nil, err
	}

	debited, err := s.wallets.TryDebit(ctx, compW.ID, req.Amount)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Type:         domain.TxSalary,
		Status:       txStatus(debited),
		Amount:       req.Amount,
		FromWalletID: &compW.ID,
		ToWalletID:   &drvW.ID,
		CompanyID:    companyID,
		DriverID:     &driver.ID,
		Note:         req.Note,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.pushAdmin(ctx, tx)

	if !debited {
		return tx, domain.ErrInsufficientFunds
	}

	if err := s.wallets.Credit(ctx, drvW.ID, req.Amount); err != nil {
		return nil, err
	}
	s.maybeNotifyLowBalance(ctx, companyID)
	return tx, nil
}

// PayMembership debits the membership fee and extends the company plan.
// A zero amount counts as debited without touching the wallet.
func (s *FinanceService) PayMembership(ctx context.Context, companyID string, req *domain.PayMembershipRequest) (*domain.Transaction, error) {
	compW, err := s.wallets.GetOrCreate(ctx, domain.OwnerCompany, companyID)
	if err != nil {
		return nil, err
	}

	debited := true
	if req.Amount.IsPositive() {
		debited, err = s.wallets.TryDebit(ctx, compW.ID, req.Amount)
		if err != nil {
			return nil, err
		}
	}

	note := req.Note
	if note == "" {
		note = fmt.Sprintf("Plan=%s; Cycle=%s", req.Plan, req.BillingCycle)
	}
	tx := &domain.Transaction{
		Type:         domain.TxMembership,
		Status:       txStatus(debited),
		Amount:       req.Amount,
		FromWalletID: &compW.ID,
		CompanyID:    companyID,
		Note:         note,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.pushAdmin(ctx, tx)

	if !debited {
		return tx, domain.ErrInsufficientFunds
	}

	months := 1
	if req.BillingCycle == "quarterly" {
		months = 3
	}
	expires := time.Now().UTC().AddDate(0, months, 0)
	err = s.companies.UpdateMembership(ctx, companyID, domain.MembershipInfo{
		Plan:         req.Plan,
		BillingCycle: req.BillingCycle,
		ExpiresAt:    &expires,
	})
	if err != nil {
		return nil, err
	}

	s.maybeNotifyLowBalance(ctx, companyID)
	return tx, nil
}

func txStatus(debited bool) domain.TxStatus {
	if debited {
		return domain.TxCompleted
	}
	return domain.TxFailed
}

func (s *FinanceService) pushAdmin(ctx context.Context, tx *domain.Transaction) {
	if err := s.adminRT.TxCreated(ctx, tx); err != nil {
		s.slogger.Warn("cannot push tx to admin channel", "action", "admin realtime", "error", err)
	}
}

// maybeNotifyLowBalance re-reads the company wallet and warns the owner when
// the balance fell under the threshold. Everything here is best-effort: a
// lookup or publish failure never fails the payment that triggered it.
func (s *FinanceService) maybeNotifyLowBalance(ctx context.Context, companyID string) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		s.slogger.Warn("cannot load company for low-balance check", "action", "low balance check", "error", err)
		return
	}
	w, err := s.wallets.GetOrCreate(ctx, domain.OwnerCompany, companyID)
	if err != nil {
		s.slogger.Warn("cannot load wallet for low-balance check", "action", "low balance check", "error", err)
		return
	}
	if w.Balance.GreaterThanOrEqual(s.threshold) {
		return
	}

	err = s.notifier.Publish(ctx, company.OwnerUserID, domain.NotifWalletLowBalance,
		"Wallet balance is low",
		fmt.Sprintf("Balance %s is under the %s threshold", w.Balance.String(), s.threshold.String()),
		map[string]any{
			"walletId":  w.ID,
			"balance":   w.Balance,
			"threshold": s.threshold,
		})
	if err != nil {
		s.slogger.Warn("cannot publish low-balance notification", "action", "low balance check", "error", err)
	}
}
