package domain

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleGovernment Role = "government"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleGovernment }

// CanApprove reports whether the role may accept or reject land listings.
func (r Role) CanApprove() bool { return r == RoleGovernment }

// CanViewAnyUser reports whether the role may read records belonging to
// other accounts (registrar oversight).
func (r Role) CanViewAnyUser() bool { return r == RoleGovernment }

type User struct {
	ID            UserID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"type:text;not null" json:"name"`
	Email         string     `gorm:"type:text;uniqueIndex:ux_users_email" json:"email"`
	Contact       string     `gorm:"type:text;not null" json:"contact"`
	Address       string     `gorm:"type:text;not null" json:"address"`
	City          string     `gorm:"type:text;not null" json:"city"`
	PostalCode    string     `gorm:"type:text;not null" json:"postalCode"`
	Role          Role       `gorm:"type:text;not null;default:'user'" json:"role"`
	WalletAddress string     `gorm:"type:text;uniqueIndex:ux_users_wallet" json:"walletAddress"`
	IsActive      bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Actor is the authenticated identity attached to a request after the
// bearer token has been verified.
type Actor struct {
	UserID        UserID
	Email         string
	Role          Role
	WalletAddress string
}
