// Package testutil provides in-memory repositories that mirror the GORM
// implementations closely enough for service and HTTP tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users
// ============================================================

// UserRepo is an in-memory repositories.UserRepository
type UserRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.User
}

// NewUserRepo creates an empty user repo
func NewUserRepo() *UserRepo {
	return &UserRepo{rows: make(map[uint]*models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.AccountNumber == user.AccountNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.rows[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepo) GetByAccountNumber(_ context.Context, accountNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.AccountNumber == accountNumber {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepo) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	_, err := r.GetByAccountNumber(ctx, accountNumber)
	return err == nil, nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	return nil
}

// Stored returns the raw stored row, hash included
func (r *UserRepo) Stored(id uint) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.rows[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

// ============================================================
// Employees
// ============================================================

// EmployeeRepo is an in-memory repositories.EmployeeRepository
type EmployeeRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Employee
}

// NewEmployeeRepo creates an empty employee repo
func NewEmployeeRepo() *EmployeeRepo {
	return &EmployeeRepo{rows: make(map[uint]*models.Employee)}
}

func (r *EmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if employee.CreatedBy == nil {
		return r.CreateSuperAdmin(ctx, employee)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(employee)
}

func (r *EmployeeRepo) CreateSuperAdmin(_ context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.CreatedBy == nil {
			return domain.ErrSuperAdminExists
		}
	}
	employee.CreatedBy = nil
	employee.Role = string(domain.RoleAdmin)
	return r.insertLocked(employee)
}

func (r *EmployeeRepo) insertLocked(employee *models.Employee) error {
	for _, e := range r.rows {
		if e.Username == employee.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	employee.ID = r.nextID
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	cp := *employee
	r.rows[employee.ID] = &cp
	return nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, id uint) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rows[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *EmployeeRepo) GetByUsername(_ context.Context, username string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *EmployeeRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *EmployeeRepo) List(_ context.Context, offset, limit int) ([]*models.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *EmployeeRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok || e.CreatedBy == nil {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

// SuperAdminCount counts creator-less rows
func (r *EmployeeRepo) SuperAdminCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.rows {
		if e.CreatedBy == nil {
			n++
		}
	}
	return n
}

// ============================================================
// Payments
// ============================================================

// PaymentRepo is an in-memory repositories.PaymentRepository
type PaymentRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Payment
	users  *UserRepo
}

// NewPaymentRepo creates an empty payment repo. users resolves owner names.
func NewPaymentRepo(users *UserRepo) *PaymentRepo {
	return &PaymentRepo{rows: make(map[uint]*models.Payment), users: users}
}

func (r *PaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.TransactionID == payment.TransactionID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	payment.ID = r.nextID
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	cp := *payment
	r.rows[payment.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *PaymentRepo) GetByIDForUser(_ context.Context, id, userID uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[id]; ok && p.UserID == userID {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *PaymentRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payment
	for _, p := range r.rows {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, offset, limit), int64(len(out)), nil
}

func (r *PaymentRepo) ListPending(_ context.Context, offset, limit int) ([]*models.PaymentWithOwner, int64, error) {
	rows := r.filterWithOwner(func(p *models.Payment) bool { return p.IsPending() })
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return page(rows, offset, limit), int64(len(rows)), nil
}

func (r *PaymentRepo) ListProcessed(_ context.Context, f repositories.HistoryFilter) ([]*models.PaymentWithOwner, int64, error) {
	rows := r.filterWithOwner(func(p *models.Payment) bool {
		return !p.IsPending() && (f.Status == "" || p.Status == f.Status)
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })
	return page(rows, f.Offset, f.Limit), int64(len(rows)), nil
}

func (r *PaymentRepo) SummaryByUser(_ context.Context, userID uint) ([]models.StatusSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus := map[string]*models.StatusSummary{}
	for _, p := range r.rows {
		if p.UserID != userID {
			continue
		}
		s, ok := byStatus[p.Status]
		if !ok {
			s = &models.StatusSummary{Status: p.Status}
			byStatus[p.Status] = s
		}
		s.Count++
		s.Total += p.Amount
	}
	out := make([]models.StatusSummary, 0, len(byStatus))
	for _, s := range byStatus {
		out = append(out, *s)
	}
	return out, nil
}

func (r *PaymentRepo) TransitionStatus(_ context.Context, t repositories.StatusTransition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[t.PaymentID]
	if !ok {
		return false, nil
	}
	if t.OwnerID != nil && p.UserID != *t.OwnerID {
		return false, nil
	}
	matched := false
	for _, from := range t.From {
		if p.Status == from {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	p.Status = t.To
	p.UpdatedAt = time.Now()
	if t.ProcessedBy != nil {
		by := *t.ProcessedBy
		at := t.At
		p.ProcessedBy = &by
		p.ProcessedAt = &at
	}
	return true, nil
}

func (r *PaymentRepo) DeleteForUser(_ context.Context, id, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *PaymentRepo) filterWithOwner(keep func(*models.Payment) bool) []*models.PaymentWithOwner {
	r.mu.Lock()
	var picked []models.Payment
	for _, p := range r.rows {
		if keep(p) {
			picked = append(picked, *p)
		}
	}
	r.mu.Unlock()

	out := make([]*models.PaymentWithOwner, 0, len(picked))
	for _, p := range picked {
		row := &models.PaymentWithOwner{Payment: p}
		if r.users != nil {
			if u := r.users.Stored(p.UserID); u != nil {
				row.OwnerName = u.FullName
				row.OwnerAccountNumber = u.AccountNumber
			}
		}
		out = append(out, row)
	}
	return out
}

// ============================================================
// Revoked tokens
// ============================================================

// RevokedTokenRepo is an in-memory repositories.RevokedTokenRepository
type RevokedTokenRepo struct {
	mu   sync.Mutex
	rows map[string]models.RevokedToken
}

// NewRevokedTokenRepo creates an empty revoked token repo
func NewRevokedTokenRepo() *RevokedTokenRepo {
	return &RevokedTokenRepo{rows: make(map[string]models.RevokedToken)}
}

func (r *RevokedTokenRepo) Create(_ context.Context, token *models.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := token.Audience + ":" + token.TokenHash
	if _, ok := r.rows[key]; ok {
		return nil
	}
	token.CreatedAt = time.Now()
	r.rows[key] = *token
	return nil
}

func (r *RevokedTokenRepo) ExistsActive(_ context.Context, audience, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[audience+":"+tokenHash]
	return ok && !t.IsExpired(), nil
}

func (r *RevokedTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.rows {
		if t.IsExpired() {
			delete(r.rows, k)
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

var (
	_ repositories.UserRepository         = (*UserRepo)(nil)
	_ repositories.EmployeeRepository     = (*EmployeeRepo)(nil)
	_ repositories.PaymentRepository      = (*PaymentRepo)(nil)
	_ repositories.RevokedTokenRepository = (*RevokedTokenRepo)(nil)
)
