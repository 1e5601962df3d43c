package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meridianbank/auth-service/internal/domain"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

func (r *loginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := loginAttemptModel{
		IdentityID:    attempt.IdentityID,
		AttemptAt:     attempt.AttemptAt,
		IPAddress:     nullableString(attempt.IPAddress),
		Status:        attempt.Status,
		FailureReason: attempt.FailureReason,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
