package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/baohm88/mycabs/internal/domain"
)

// In-memory collaborators. The conditional mutations (TryDebit,
// AssignToCompanyIfAvailable, RejectPendingByDriverExcept) hold the same
// check-and-set contract as the SQL they stand in for, under a mutex so the
// concurrency tests exercise real races.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeApps struct {
	mu   sync.Mutex
	seq  int
	apps map[string]*domain.Application
}

func newFakeApps() *fakeApps {
	return &fakeApps{apps: make(map[string]*domain.Application)}
}

func (f *fakeApps) ExistsPending(_ context.Context, driverID, companyID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.DriverID == driverID && a.CompanyID == companyID && a.Status == domain.ApplicationPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) Create(_ context.Context, driverID, companyID string) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	a := &domain.Application{
		ID:        fmt.Sprintf("app-%d", f.seq),
		DriverID:  driverID,
		CompanyID: companyID,
		Status:    domain.ApplicationPending,
	}
	f.apps[a.ID] = a
	return a, nil
}

func (f *fakeApps) GetByID(_ context.Context, appID string) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[appID]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApps) UpdateStatus(_ context.Context, appID string, status domain.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[appID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeApps) RejectPendingByDriverExcept(_ context.Context, driverID, exceptAppID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.apps {
		if a.DriverID == driverID && a.ID != exceptAppID && a.Status == domain.ApplicationPending {
			a.Status = domain.ApplicationRejected
			n++
		}
	}
	return n, nil
}

func (f *fakeApps) FindForCompany(_ context.Context, companyID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Application
	for _, a := range f.apps {
		if a.CompanyID == companyID && (q.Status == "" || string(a.Status) == q.Status) {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeApps) FindForDriver(_ context.Context, driverID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Application
	for _, a := range f.apps {
		if a.DriverID == driverID && (q.Status == "" || string(a.Status) == q.Status) {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

type fakeInvites struct {
	mu      sync.Mutex
	seq     int
	invites map[string]*domain.Invitation
}

func newFakeInvites() *fakeInvites {
	return &fakeInvites{invites: make(map[string]*domain.Invitation)}
}

func (f *fakeInvites) Create(_ context.Context, companyID, driverID, candidateEmail, note string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	inv := &domain.Invitation{
		ID:             fmt.Sprintf("inv-%d", f.seq),
		CompanyID:      companyID,
		DriverID:       driverID,
		CandidateEmail: candidateEmail,
		Status:         domain.InvitationPending,
		Note:           note,
	}
	f.invites[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvites) GetByID(_ context.Context, inviteID string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invites[inviteID]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvites) UpdateStatus(_ context.Context, inviteID string, status domain.InvitationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invites[inviteID]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInvites) FindForCompany(_ context.Context, companyID string, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range f.invites {
		if inv.CompanyID == companyID && (q.Status == "" || string(inv.Status) == q.Status) {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvites) FindForCandidate(_ context.Context, key domain.CandidateKey, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range f.invites {
		byID := key.DriverID != "" && inv.DriverID == key.DriverID
		byEmail := key.Email != "" && strings.EqualFold(inv.CandidateEmail, key.Email)
		if (byID || byEmail) && (q.Status == "" || string(inv.Status) == q.Status) {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

type fakeDrivers struct {
	mu      sync.Mutex
	seq     int
	byID    map[string]*domain.Driver
	byUser  map[string]*domain.Driver
}

func newFakeDrivers() *fakeDrivers {
	return &fakeDrivers{
		byID:   make(map[string]*domain.Driver),
		byUser: make(map[string]*domain.Driver),
	}
}

func (f *fakeDrivers) add(userID string) *domain.Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	d := &domain.Driver{
		ID:     fmt.Sprintf("drv-%d", f.seq),
		UserID: userID,
		Status: domain.DriverAvailable,
	}
	f.byID[d.ID] = d
	f.byUser[userID] = d
	return d
}

func (f *fakeDrivers) GetByID(_ context.Context, driverID string) (*domain.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[driverID]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDrivers) GetByUserID(_ context.Context, userID string) (*domain.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDrivers) CreateIfMissing(ctx context.Context, userID string) (*domain.Driver, error) {
	if d, err := f.GetByUserID(ctx, userID); err == nil {
		return d, nil
	}
	return f.add(userID), nil
}

func (f *fakeDrivers) AssignToCompanyIfAvailable(_ context.Context, driverID, companyID string, status domain.DriverStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[driverID]
	if !ok {
		return false, domain.ErrDriverNotFound
	}
	if d.CompanyID != nil && *d.CompanyID != companyID {
		return false, nil
	}
	d.CompanyID = &companyID
	d.Status = status
	return true, nil
}

func (f *fakeDrivers) SetCompany(_ context.Context, driverID, companyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[driverID]
	if !ok {
		return domain.ErrDriverNotFound
	}
	d.CompanyID = &companyID
	d.Status = domain.DriverHired
	return nil
}

type fakeCompanies struct {
	mu        sync.Mutex
	companies map[string]*domain.Company
}

func newFakeCompanies(ids ...string) *fakeCompanies {
	f := &fakeCompanies{companies: make(map[string]*domain.Company)}
	for _, id := range ids {
		f.companies[id] = &domain.Company{ID: id, OwnerUserID: "owner-" + id, Name: id}
	}
	return f
}

func (f *fakeCompanies) Create(_ context.Context, ownerUserID, name string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &domain.Company{ID: "comp-" + name, OwnerUserID: ownerUserID, Name: name}
	f.companies[c.ID] = c
	return c, nil
}

func (f *fakeCompanies) GetByID(_ context.Context, companyID string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[companyID]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) UpdateMembership(_ context.Context, companyID string, m domain.MembershipInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[companyID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	cp := m
	c.Membership = &cp
	return nil
}

type fakeUsers struct {
	users map[string]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type cascadeCall struct {
	driverID string
	exceptID string
}

type fakeCascade struct {
	mu    sync.Mutex
	err   error
	calls []cascadeCall
}

func (f *fakeCascade) PublishApproved(_ context.Context, driverID, exceptAppID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, cascadeCall{driverID, exceptAppID})
	return nil
}

type fakeWallets struct {
	mu      sync.Mutex
	seq     int
	byOwner map[string]*domain.Wallet
	byID    map[string]*domain.Wallet
}

func newFakeWallets() *fakeWallets {
	return &fakeWallets{
		byOwner: make(map[string]*domain.Wallet),
		byID:    make(map[string]*domain.Wallet),
	}
}

func (f *fakeWallets) GetOrCreate(_ context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := string(ownerType) + "/" + ownerID
	if w, ok := f.byOwner[key]; ok {
		cp := *w
		return &cp, nil
	}
	f.seq++
	w := &domain.Wallet{
		ID:        fmt.Sprintf("wal-%d", f.seq),
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
	}
	f.byOwner[key] = w
	f.byID[w.ID] = w
	cp := *w
	return &cp, nil
}

func (f *fakeWallets) Credit(_ context.Context, walletID string, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[walletID]
	if !ok {
		return domain.ErrNotFound
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

func (f *fakeWallets) TryDebit(_ context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[walletID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if w.Balance.LessThan(amount) {
		return false, nil
	}
	w.Balance = w.Balance.Sub(amount)
	return true, nil
}

func (f *fakeWallets) balance(walletID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[walletID].Balance
}

type fakeTxLog struct {
	mu  sync.Mutex
	seq int
	txs []*domain.Transaction
}

func (f *fakeTxLog) Create(_ context.Context, tx *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tx.ID = fmt.Sprintf("tx-%d", f.seq)
	cp := *tx
	f.txs = append(f.txs, &cp)
	return nil
}

func (f *fakeTxLog) FindForCompany(_ context.Context, companyID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range f.txs {
		if tx.CompanyID != companyID {
			continue
		}
		if q.Type != "" && tx.Type != q.Type {
			continue
		}
		if q.Status != "" && tx.Status != q.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTxLog) FindForDriver(_ context.Context, driverID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range f.txs {
		if tx.DriverID == nil || *tx.DriverID != driverID {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

type published struct {
	userID string
	kind   string
	data   map[string]any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []published
}

func (f *fakeNotifier) Publish(_ context.Context, userID, kind, title, message string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{userID, kind, data})
	return nil
}

type fakeAdminRT struct {
	mu    sync.Mutex
	count int
}

func (f *fakeAdminRT) TxCreated(_ context.Context, _ *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return nil
}
