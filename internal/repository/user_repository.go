package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository/common"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// UserRepository отвечает за таблицы users, user_sessions и user_skills.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя. Балансы инициализируются нулями;
// приветственные баллы начисляет леджер отдельной операцией deposit.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, full_name, university, bio, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, available_points, held_points, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash, user.FullName, user.University, user.Bio, user.Role,
	).Scan(&user.ID, &user.AvailablePoints, &user.HeldPoints, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, ErrUserNotFound)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// GetByUsername возвращает пользователя по username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "username", username, ErrUserNotFound)
}

// UpdateProfile обновляет редактируемые поля профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $2, university = $3, bio = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, user.ID, user.FullName, user.University, user.Bio).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("user repository: update profile %w", err)
	}
	return nil
}

// UpdateLastLoginAt фиксирует время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}

// Search ищет пользователей по подстроке имени и/или навыку.
// mode: teach — искать тех, кто учит навыку; learn — тех, кто хочет учиться.
// Текущий пользователь исключается из результатов.
func (r *UserRepository) Search(ctx context.Context, selfID uuid.UUID, query, skill, mode string, limit, offset int) ([]models.PublicUser, error) {
	sqlQuery := `
		SELECT DISTINCT u.id, u.username, u.full_name, u.university, u.available_points
		FROM users u
	`
	args := []interface{}{selfID}
	where := ` WHERE u.id <> $1 AND u.is_active`

	if skill != "" {
		if mode != models.UserSkillLearn {
			mode = models.UserSkillTeach
		}
		args = append(args, mode, "%"+skill+"%")
		sqlQuery += fmt.Sprintf(`
			JOIN user_skills us ON us.user_id = u.id AND us.kind = $%d
			JOIN skills s ON s.id = us.skill_id AND s.name ILIKE $%d
		`, len(args)-1, len(args))
	}

	if query != "" {
		args = append(args, "%"+query+"%")
		where += fmt.Sprintf(` AND (u.username ILIKE $%d OR u.full_name ILIKE $%d)`, len(args), len(args))
	}

	args = append(args, limit, offset)
	sqlQuery += where + fmt.Sprintf(` ORDER BY u.username LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	var users []models.PublicUser
	if err := r.db.SelectContext(ctx, &users, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("user repository: search %w", err)
	}
	return users, nil
}

// SetSkills заменяет список навыков пользователя указанного вида.
func (r *UserRepository) SetSkills(ctx context.Context, userID uuid.UUID, kind string, skillIDs []uuid.UUID) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_skills WHERE user_id = $1 AND kind = $2`, userID, kind); err != nil {
			return fmt.Errorf("user repository: clear skills %w", err)
		}
		if len(skillIDs) == 0 {
			return nil
		}

		query := `
			INSERT INTO user_skills (user_id, skill_id, kind)
			SELECT $1, s.id, $2 FROM skills s WHERE s.id = ANY($3)
		`
		if _, err := tx.ExecContext(ctx, query, userID, kind, pq.Array(skillIDs)); err != nil {
			return fmt.Errorf("user repository: set skills %w", err)
		}
		return nil
	})
}

// ListSkills возвращает навыки пользователя указанного вида.
func (r *UserRepository) ListSkills(ctx context.Context, userID uuid.UUID, kind string) ([]models.Skill, error) {
	var skills []models.Skill
	query := `
		SELECT s.id, s.slug, s.name, s.description, s.experience_years, s.created_at
		FROM skills s
		JOIN user_skills us ON us.skill_id = s.id
		WHERE us.user_id = $1 AND us.kind = $2
		ORDER BY s.name
	`
	if err := r.db.SelectContext(ctx, &skills, query, userID, kind); err != nil {
		return nil, fmt.Errorf("user repository: list skills %w", err)
	}
	return skills, nil
}

// CreateSession сохраняет refresh-сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}
	return nil
}

// GetSessionByToken возвращает сессию по refresh-токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	query := `SELECT * FROM user_sessions WHERE refresh_token = $1 AND expires_at > NOW()`
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get session %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh-токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}
