package models

import "time"

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status values for User.Status.
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
)

// User represents an account created through Google sign-in or the admin seed.
// MaxRequests is how many celebration requests the user may own; nil means
// unlimited.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	GoogleID    *string   `json:"googleId" gorm:"type:varchar(255)"`
	Name        string    `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Avatar      *string   `json:"avatar" gorm:"type:varchar(512)"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:user"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:inactive"`
	MaxRequests *int      `json:"maxRequests"`
	CreatedAt   time.Time `json:"createdAt"`

	// RequestsCount is filled by the admin user listing; it is not a column.
	RequestsCount int64 `json:"requestsCount" gorm:"-"`

	CelebrationRequests []CelebrationRequest `json:"-" gorm:"foreignKey:UserID"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasAccess reports whether the user may use the service: admins always,
// everyone else only while their account is active.
func (u *User) HasAccess() bool {
	return u.Role == RoleAdmin || u.Status == StatusActive
}
