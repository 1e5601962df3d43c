package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/domain"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type RegisterResponse struct {
	UserID uuid.UUID `json:"userId"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	IPAddress  string `json:"-"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is the public identity snapshot returned with token responses.
type UserInfo struct {
	UserID        uuid.UUID  `json:"userId"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Roles         []string   `json:"roles"`
	EmailVerified bool       `json:"emailVerified"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

type LoginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         UserInfo `json:"user"`
}

func toUserInfo(snapshot domain.IdentitySnapshot) UserInfo {
	return UserInfo{
		UserID:        snapshot.ID,
		Email:         snapshot.Email,
		FirstName:     snapshot.FirstName,
		LastName:      snapshot.LastName,
		Roles:         snapshot.Roles,
		EmailVerified: snapshot.EmailVerified,
		LastLoginAt:   snapshot.LastLoginAt,
	}
}
