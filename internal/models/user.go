package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает сущность пользователя платформы.
// Баланс баллов хранится прямо на записи пользователя двумя полями:
// available_points — свободные баллы, held_points — баллы, замороженные
// под активные запросы на обмен. Оба поля меняются только внутри
// операций леджера (hold/refund/settle), никогда напрямую из хэндлеров.
type User struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	Username        string     `db:"username" json:"username"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        *string    `db:"full_name" json:"full_name,omitempty"`
	University      *string    `db:"university" json:"university,omitempty"`
	Bio             *string    `db:"bio" json:"bio,omitempty"`
	Role            string     `db:"role" json:"role"`
	AvailablePoints int        `db:"available_points" json:"available_points"`
	HeldPoints      int        `db:"held_points" json:"held_points"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	LastLoginAt     *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// UserBalance представляет срез баланса пользователя.
type UserBalance struct {
	UserID    uuid.UUID `db:"id" json:"user_id"`
	Available int       `db:"available_points" json:"available"`
	Held      int       `db:"held_points" json:"held"`
}

// PublicUser — публичное представление пользователя (без email и баланса hold).
type PublicUser struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	FullName   *string   `db:"full_name" json:"full_name,omitempty"`
	University *string   `db:"university" json:"university,omitempty"`
	Points     int       `db:"available_points" json:"points"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
