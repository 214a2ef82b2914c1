// Package model provides domain models and DTOs for the user module.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalRole is the account-wide role of a user. It is independent of the
// scoped roles held inside teams and projects.
type GlobalRole string

const (
	GlobalRoleMember  GlobalRole = "Member"
	GlobalRoleManager GlobalRole = "Manager"
	GlobalRoleAdmin   GlobalRole = "Admin"
)

// User represents an identity in the system.
// Matches the users table schema.
type User struct {
	ID           string     `gorm:"primaryKey;column:id;type:varchar(36)"                              json:"id"`
	Name         string     `gorm:"column:name;type:varchar(255);not null"                             json:"name"`
	Email        string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	Password     string     `gorm:"column:password;type:varchar(255);not null"                         json:"-"`
	Phone        string     `gorm:"column:phone;type:varchar(32)"                                      json:"phone,omitempty"`
	GlobalRole   GlobalRole `gorm:"column:global_role;type:varchar(16);not null"                       json:"global_role"`
	ProfileImage string     `gorm:"column:profile_image;type:varchar(512)"                             json:"profile_image,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"                                         json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null"                                         json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and normalizes the email.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.GlobalRole == "" {
		u.GlobalRole = GlobalRoleMember
	}
	return nil
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
