package postgres

import (
	"time"

	"github.com/google/uuid"
)

type identityModel struct {
	IdentityID          uuid.UUID  `gorm:"column:identity_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string     `gorm:"column:email"`
	PasswordHash        string     `gorm:"column:password_hash"`
	FirstName           string     `gorm:"column:first_name"`
	LastName            string     `gorm:"column:last_name"`
	IsActive            bool       `gorm:"column:is_active"`
	EmailVerified       bool       `gorm:"column:email_verified"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
	LastLoginAt         *time.Time `gorm:"column:last_login_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	Version             int        `gorm:"column:version"`
}

func (identityModel) TableName() string { return "identities" }

type identityRoleModel struct {
	IdentityID uuid.UUID `gorm:"column:identity_id;primaryKey"`
	Role       string    `gorm:"column:role;primaryKey"`
}

func (identityRoleModel) TableName() string { return "identity_roles" }

type loginAttemptModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	IdentityID    *uuid.UUID `gorm:"column:identity_id"`
	AttemptAt     time.Time  `gorm:"column:attempt_at"`
	IPAddress     *string    `gorm:"column:ip_address"`
	Status        string     `gorm:"column:status"`
	FailureReason string     `gorm:"column:failure_reason"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }
