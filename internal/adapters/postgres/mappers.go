package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/meridianbank/auth-service/internal/domain"
)

func toDomainIdentity(row identityModel, roles []string) domain.Identity {
	return domain.Identity{
		ID:                  row.IdentityID,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		FirstName:           row.FirstName,
		LastName:            row.LastName,
		Roles:               roles,
		IsActive:            row.IsActive,
		EmailVerified:       row.EmailVerified,
		FailedLoginAttempts: row.FailedLoginAttempts,
		LockedUntil:         row.LockedUntil,
		LastLoginAt:         row.LastLoginAt,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		Version:             row.Version,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
