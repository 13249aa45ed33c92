package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository"
)

// SeedService генерирует фейковые данные для тестирования.
type SeedService struct {
	userRepo      *repository.UserRepository
	skillRepo     *repository.SkillRepository
	ledgerRepo    *repository.LedgerRepository
	exchangeRepo  *repository.ExchangeRepository
	welcomePoints int
}

// SeedResult описывает итог генерации.
type SeedResult struct {
	NumUsers     int      `json:"num_users"`
	NumSkills    int      `json:"num_skills"`
	NumExchanges int      `json:"num_exchanges"`
	Emails       []string `json:"emails"`
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository, ledgerRepo *repository.LedgerRepository, exchangeRepo *repository.ExchangeRepository, welcomePoints int) *SeedService {
	return &SeedService{
		userRepo:      userRepo,
		skillRepo:     skillRepo,
		ledgerRepo:    ledgerRepo,
		exchangeRepo:  exchangeRepo,
		welcomePoints: welcomePoints,
	}
}

// SeedData генерирует фейковых пользователей, каталог навыков и несколько
// запросов на обмен между ними. Все аккаунты получают пароль "Password123".
func (s *SeedService) SeedData(ctx context.Context, numUsers, numExchanges int) (*SeedResult, error) {
	skills, err := s.generateSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to generate skills: %w", err)
	}

	users, err := s.generateUsers(ctx, numUsers, skills)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to generate users: %w", err)
	}

	created, err := s.generateExchanges(ctx, users, skills, numExchanges)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to generate exchanges: %w", err)
	}

	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}

	return &SeedResult{
		NumUsers:     len(users),
		NumSkills:    len(skills),
		NumExchanges: created,
		Emails:       emails,
	}, nil
}

// generateSkills наполняет каталог навыков. Уже существующие пропускаются.
func (s *SeedService) generateSkills(ctx context.Context) ([]*models.Skill, error) {
	names := []string{
		"Английский язык", "Испанский язык", "Китайский язык", "Программирование на Go",
		"Программирование на Python", "Веб-разработка", "Математический анализ",
		"Линейная алгебра", "Статистика", "Игра на гитаре", "Игра на фортепиано",
		"Вокал", "Рисование", "Фотография", "Видеомонтаж", "Публичные выступления",
		"Шахматы", "Кулинария", "Йога", "Плавание",
	}

	skills := make([]*models.Skill, 0, len(names))
	for _, name := range names {
		if existing, err := s.skillRepo.GetBySlug(ctx, models.Slugify(name)); err == nil {
			skills = append(skills, existing)
			continue
		}

		skill := &models.Skill{Name: name}
		if err := s.skillRepo.Create(ctx, skill); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// generateUsers создаёт фейковых пользователей с профилями и навыками.
func (s *SeedService) generateUsers(ctx context.Context, count int, skills []*models.Skill) ([]*models.User, error) {
	firstNames := []string{
		"Александр", "Дмитрий", "Максим", "Сергей", "Андрей", "Алексей", "Артём", "Илья",
		"Иван", "Михаил", "Никита", "Роман", "Егор", "Павел", "Владимир", "Константин",
		"Анна", "Мария", "Елена", "Ольга", "Татьяна", "Наталья", "Ирина", "Светлана",
		"Екатерина", "Юлия", "Анастасия", "Дарья", "Виктория", "Полина", "София", "Алиса",
	}
	lastNames := []string{
		"Иванов", "Петров", "Смирнов", "Козлов", "Соколов", "Попов", "Лебедев", "Новиков",
		"Морозов", "Волков", "Соловьёв", "Васильев", "Зайцев", "Павлов", "Семёнов", "Голубев",
	}
	universities := []string{
		"МГУ", "СПбГУ", "МФТИ", "ВШЭ", "ИТМО", "МГТУ им. Баумана", "НГУ", "УрФУ", "КФУ", "ТГУ",
	}
	bios := []string{
		"Студент, люблю учиться новому и делиться тем, что умею сам.",
		"Обмениваюсь знаниями уже второй год. Лучший способ выучить предмет — объяснить его другому.",
		"Готов помочь с учёбой в обмен на пару уроков чего-нибудь нового.",
		"Преподаю то, что знаю, учу то, чего не знаю.",
	}
	domains := []string{"gmail.com", "yandex.ru", "mail.ru", "outlook.com"}

	passwordHash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		firstName := firstNames[rand.Intn(len(firstNames))]
		lastName := lastNames[rand.Intn(len(lastNames))]
		fullName := fmt.Sprintf("%s %s", firstName, lastName)
		username := fmt.Sprintf("user_%d_%d", i, rand.Intn(10000))
		email := fmt.Sprintf("%s.%d@%s", username, rand.Intn(10000), domains[rand.Intn(len(domains))])
		university := universities[rand.Intn(len(universities))]
		bio := bios[rand.Intn(len(bios))]

		user := &models.User{
			Email:        email,
			Username:     username,
			PasswordHash: string(passwordHash),
			Role:         "user",
			IsActive:     true,
			FullName:     &fullName,
			University:   &university,
			Bio:          &bio,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		if s.welcomePoints > 0 {
			if err := s.ledgerRepo.Deposit(ctx, user.ID, s.welcomePoints, "Приветственные баллы"); err != nil {
				return nil, err
			}
			user.AvailablePoints = s.welcomePoints
		}

		// Каждому пользователю 2-4 преподаваемых и 1-3 изучаемых навыка
		teach := pickSkillIDs(skills, rand.Intn(3)+2)
		learn := pickSkillIDs(skills, rand.Intn(3)+1)
		if err := s.userRepo.SetSkills(ctx, user.ID, models.UserSkillTeach, teach); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetSkills(ctx, user.ID, models.UserSkillLearn, learn); err != nil {
			return nil, err
		}

		users = append(users, user)
	}
	return users, nil
}

// generateExchanges создаёт запросы на обмен между случайными парами.
func (s *SeedService) generateExchanges(ctx context.Context, users []*models.User, skills []*models.Skill, count int) (int, error) {
	if len(users) < 2 || len(skills) == 0 {
		return 0, nil
	}

	created := 0
	for i := 0; i < count; i++ {
		sender := users[rand.Intn(len(users))]
		receiver := users[rand.Intn(len(users))]
		if sender.ID == receiver.ID {
			continue
		}

		price := rand.Intn(10) + 1
		if price > sender.AvailablePoints {
			continue
		}

		ex := &models.ExchangeRequest{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			SkillID:    skills[rand.Intn(len(skills))].ID,
			Price:      price,
		}
		if err := s.exchangeRepo.Create(ctx, ex); err != nil {
			return created, err
		}
		sender.AvailablePoints -= price
		created++
	}
	return created, nil
}

// pickSkillIDs выбирает n уникальных навыков из каталога.
func pickSkillIDs(skills []*models.Skill, n int) []uuid.UUID {
	if n > len(skills) {
		n = len(skills)
	}
	perm := rand.Perm(len(skills))
	ids := make([]uuid.UUID, 0, n)
	for _, idx := range perm[:n] {
		ids = append(ids, skills[idx].ID)
	}
	return ids
}
