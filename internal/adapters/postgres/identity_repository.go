package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianbank/auth-service/internal/domain"
)

type identityRepository struct {
	db *gorm.DB
}

func (r *identityRepository) FindActiveByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var rec identityModel
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
		}
		return domain.Identity{}, err
	}
	roles, err := r.loadRoles(ctx, rec.IdentityID)
	if err != nil {
		return domain.Identity{}, err
	}
	return toDomainIdentity(rec, roles), nil
}

func (r *identityRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Identity, error) {
	var rec identityModel
	if err := r.db.WithContext(ctx).Where("identity_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
		}
		return domain.Identity{}, err
	}
	roles, err := r.loadRoles(ctx, rec.IdentityID)
	if err != nil {
		return domain.Identity{}, err
	}
	return toDomainIdentity(rec, roles), nil
}

func (r *identityRepository) Create(ctx context.Context, identity domain.Identity) (domain.Identity, error) {
	var created domain.Identity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := identityModel{
			Email:         identity.Email,
			PasswordHash:  identity.PasswordHash,
			FirstName:     identity.FirstName,
			LastName:      identity.LastName,
			IsActive:      identity.IsActive,
			EmailVerified: identity.EmailVerified,
			CreatedAt:     identity.CreatedAt,
			UpdatedAt:     identity.CreatedAt,
			Version:       1,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.NewError(domain.KindConflict, "email already registered")
			}
			return err
		}
		for _, role := range identity.Roles {
			if err := tx.Create(&identityRoleModel{IdentityID: rec.IdentityID, Role: role}).Error; err != nil {
				return err
			}
		}
		created = toDomainIdentity(rec, identity.Roles)
		return nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return created, nil
}

// Save persists the mutable login-state fields under optimistic versioning.
// The role set and credentials are immutable through this path.
func (r *identityRepository) Save(ctx context.Context, identity domain.Identity) (domain.Identity, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&identityModel{}).
		Where("identity_id = ? AND version = ?", identity.ID, identity.Version).
		Updates(map[string]any{
			"failed_login_attempts": identity.FailedLoginAttempts,
			"locked_until":          identity.LockedUntil,
			"last_login_at":         identity.LastLoginAt,
			"updated_at":            now,
			"version":               identity.Version + 1,
		})
	if res.Error != nil {
		return domain.Identity{}, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&identityModel{}).
			Where("identity_id = ?", identity.ID).
			Count(&count).Error; err != nil {
			return domain.Identity{}, err
		}
		if count == 0 {
			return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
		}
		return domain.Identity{}, domain.ErrConcurrentUpdate("")
	}

	identity.Version++
	identity.UpdatedAt = now
	return identity, nil
}

func (r *identityRepository) loadRoles(ctx context.Context, id uuid.UUID) ([]string, error) {
	var rows []identityRoleModel
	if err := r.db.WithContext(ctx).Where("identity_id = ?", id).Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}
	return roles, nil
}
