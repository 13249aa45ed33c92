package dto

// RegisterRequest представляет запрос на регистрацию.
type RegisterRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	University string `json:"university"`
}

// LoginRequest представляет запрос на вход.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest представляет запрос на обновление пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest представляет запрос на обновление профиля.
// Отсутствующее поле оставляет прежнее значение.
type UpdateProfileRequest struct {
	FullName   *string `json:"full_name"`
	University *string `json:"university"`
	Bio        *string `json:"bio"`
}

// SetSkillsRequest представляет запрос на замену навыков пользователя.
type SetSkillsRequest struct {
	SkillIDs []string `json:"skill_ids" binding:"required"`
}

// CreateSkillRequest представляет запрос на добавление навыка в каталог.
type CreateSkillRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     *string `json:"description"`
	ExperienceYears *int    `json:"experience_years"`
}

// CreateExchangeRequest представляет запрос на создание обмена.
type CreateExchangeRequest struct {
	ReceiverID string  `json:"receiver_id" binding:"required"`
	SkillID    string  `json:"skill_id" binding:"required"`
	Price      int     `json:"price" binding:"required"`
	Message    *string `json:"message"`
}

// AdminDepositRequest представляет запрос на начисление баллов администратором.
type AdminDepositRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// SeedRequest представляет запрос на генерацию тестовых данных.
type SeedRequest struct {
	NumUsers     int `json:"num_users" form:"num_users"`
	NumExchanges int `json:"num_exchanges" form:"num_exchanges"`
}
