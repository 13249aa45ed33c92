package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if session, ok := m.sessions[refreshToken]; ok {
		return session, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

// mockLedger запоминает начисления баллов.
type mockLedger struct {
	deposits map[uuid.UUID]int
}

func newMockLedger() *mockLedger {
	return &mockLedger{deposits: make(map[uuid.UUID]int)}
}

func (m *mockLedger) Deposit(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	m.deposits[userID] += amount
	return nil
}

func newAuthServiceForTest() (*AuthService, *mockAuthRepository, *mockLedger) {
	repo := newMockAuthRepository()
	ledger := newMockLedger()
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(repo, ledger, tm, 20), repo, ledger
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, ledger := newAuthServiceForTest()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:      "Student@Example.Com",
		Password:   "Password123",
		FullName:   "Иван Иванов",
		University: "МГУ",
	}, nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.Email != "student@example.com" {
		t.Errorf("email не приведён к нижнему регистру: %s", result.User.Email)
	}
	if result.User.Username == "" {
		t.Error("username должен быть сгенерирован из email")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("пара токенов должна быть выпущена")
	}
	if got := ledger.deposits[result.User.ID]; got != 20 {
		t.Errorf("приветственные баллы = %d, ожидалось 20", got)
	}
	if result.User.AvailablePoints != 20 {
		t.Errorf("available = %d, ожидалось 20", result.User.AvailablePoints)
	}
	if len(repo.sessions) != 1 {
		t.Errorf("должна быть создана одна сессия, получено %d", len(repo.sessions))
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	input := RegisterInput{Email: "dup@example.com", Password: "Password123"}
	if _, err := svc.Register(ctx, input, nil); err != nil {
		t.Fatalf("первая регистрация должна пройти: %v", err)
	}
	if _, err := svc.Register(ctx, input, nil); err == nil {
		t.Error("повторная регистрация с тем же email должна вернуть ошибку")
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	weak := []string{"short1A", "nouppercase1", "NOLOWERCASE1", "NoDigitsHere"}
	for _, password := range weak {
		if _, err := svc.Register(ctx, RegisterInput{Email: "weak@example.com", Password: password}, nil); err == nil {
			t.Errorf("пароль %q должен быть отклонён", password)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "login@example.com", Password: "Password123"}, nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "login@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.LastLoginAt == nil {
		t.Error("last_login_at должен обновиться")
	}
	if result.TokenPair.AccessToken == "" {
		t.Error("access токен должен быть выпущен")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "wrong@example.com", Password: "Password123"}, nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "wrong@example.com", Password: "Password456"}, nil); err == nil {
		t.Error("вход с неверным паролем должен вернуть ошибку")
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, repo, _ := newAuthServiceForTest()
	ctx := context.Background()

	passHash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	user := &models.User{Email: "inactive@example.com", PasswordHash: string(passHash)}
	_ = repo.Create(ctx, user)
	user.IsActive = false

	if _, err := svc.Login(ctx, LoginInput{Email: "inactive@example.com", Password: "Password123"}, nil); err == nil {
		t.Error("вход деактивированного пользователя должен вернуть ошибку")
	}
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, repo, _ := newAuthServiceForTest()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "refresh@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	oldToken := result.TokenPair.RefreshToken

	pair, err := svc.Refresh(ctx, oldToken, nil)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if pair.RefreshToken == oldToken {
		t.Error("refresh токен должен ротироваться")
	}
	if _, ok := repo.sessions[oldToken]; ok {
		t.Error("старая сессия должна быть удалена")
	}
	if _, ok := repo.sessions[pair.RefreshToken]; !ok {
		t.Error("новая сессия должна быть сохранена")
	}

	// Повторное использование старого токена невозможно
	if _, err := svc.Refresh(ctx, oldToken, nil); err == nil {
		t.Error("повторный refresh со старым токеном должен вернуть ошибку")
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, repo, _ := newAuthServiceForTest()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "logout@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.Logout(ctx, result.TokenPair.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Error("сессия должна быть удалена после logout")
	}
}
