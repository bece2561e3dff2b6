package models

import (
	"time"

	"paysecure/internal/core/domain"
	"paysecure/internal/core/policy"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Principals
// ============================================================

// User represents users table (customer portal)
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FullName      string    `gorm:"size:100;not null" json:"fullName"`
	AccountNumber string    `gorm:"uniqueIndex;size:10;not null" json:"accountNumber"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	FullName      string    `json:"fullName"`
	AccountNumber string    `json:"accountNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		AccountNumber: u.AccountNumber,
		CreatedAt:     u.CreatedAt,
	}
}

// Employee represents employees table (staff portal).
// CreatedBy is nil only for the super admin.
type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'employee'" json:"role"`
	CreatedBy *uint     `gorm:"index" json:"createdBy"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// IsSuperAdmin reports whether this record is the super admin
func (e *Employee) IsSuperAdmin() bool {
	return policy.IsSuperAdmin(domain.Role(e.Role), e.CreatedBy)
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedBy    *uint     `json:"createdBy"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		ID:           e.ID,
		Username:     e.Username,
		Role:         e.Role,
		CreatedBy:    e.CreatedBy,
		IsSuperAdmin: e.IsSuperAdmin(),
		CreatedAt:    e.CreatedAt,
	}
}

// ============================================================
// Payments
// ============================================================

// Payment represents payments table
type Payment struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UserID           uint              `gorm:"index;not null" json:"userId"`
	Amount           float64           `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency         string            `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PaymentMethod    string            `gorm:"size:20;not null" json:"paymentMethod"`
	Status           string            `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedBy      *uint             `gorm:"index" json:"processedBy"`
	ProcessedAt      *time.Time        `json:"processedAt"`
	TransactionID    string            `gorm:"uniqueIndex;size:64;not null" json:"transactionId"`
	Description      string            `gorm:"size:500" json:"description"`
	RecipientName    string            `gorm:"size:100" json:"recipientName,omitempty"`
	RecipientAccount string            `gorm:"size:34" json:"recipientAccount,omitempty"`
	SwiftCode        string            `gorm:"size:11" json:"swiftCode,omitempty"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
	User             User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsPending reports whether the payment still awaits a decision
func (p *Payment) IsPending() bool {
	return domain.PaymentStatus(p.Status) == domain.StatusPending
}

// PaymentWithOwner is used by staff listings
type PaymentWithOwner struct {
	Payment
	OwnerName          string `json:"ownerName"`
	OwnerAccountNumber string `json:"ownerAccountNumber"`
}

// StatusSummary aggregates payments per status
type StatusSummary struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// ============================================================
// Token revocation
// ============================================================

// RevokedToken represents revoked_tokens table
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Audience  string    `gorm:"size:20;not null;uniqueIndex:idx_revoked_audience_hash" json:"audience"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex:idx_revoked_audience_hash" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

func (rt *RevokedToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// AutoMigrate runs auto migration
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Employee{},
		&Payment{},
		&RevokedToken{},
	)
}
