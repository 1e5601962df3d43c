package postgres

import (
	"gorm.io/gorm"

	"github.com/meridianbank/auth-service/internal/ports"
)

// Repositories bundles the Postgres-backed repository implementations.
type Repositories struct {
	Identities    ports.IdentityRepository
	LoginAttempts ports.LoginAttemptRepository
}

// NewRepositories wires repository implementations over a shared connection.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Identities:    &identityRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
	}
}
