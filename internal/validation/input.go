package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength        = 3
	MaxUsernameLength        = 30
	MinFullNameLength        = 2
	MaxFullNameLength        = 100
	MaxUniversityLength      = 200
	MaxBioLength             = 1000
	MaxSkillNameLength       = 50
	MaxSkillsCount           = 50
	MinExchangeMessageLength = 1
	MaxExchangeMessageLength = 2000
	MinExchangePrice         = 1
	MaxExchangePrice         = 100000
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	// Проверка на валидные символы в локальной части
	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	// Проверка на валидные символы в доменной части
	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	// Проверка длины
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Проверка на допустимые символы (только буквы, цифры и подчеркивание)
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	// Проверка, что не начинается с цифры
	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateFullName проверяет полное имя пользователя.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return nil
	}

	fullName = strings.TrimSpace(fullName)

	if err := ValidateLength("имя", fullName, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}

	fullNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !fullNameRegex.MatchString(fullName) {
		return fmt.Errorf("имя содержит недопустимые символы")
	}

	return nil
}

// ValidateUniversity проверяет название университета.
func ValidateUniversity(university *string) error {
	if university != nil && *university != "" {
		value := strings.TrimSpace(*university)
		if err := ValidateLength("университет", value, 0, MaxUniversityLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBio проверяет биографию.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		bioStr := strings.TrimSpace(*bio)
		if err := ValidateLength("биография", bioStr, 0, MaxBioLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSkillName проверяет название навыка.
func ValidateSkillName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название навыка обязательно")
	}

	name = strings.TrimSpace(name)

	if err := ValidateLength("название навыка", name, 1, MaxSkillNameLength); err != nil {
		return err
	}

	return nil
}

// ValidateExchangePrice проверяет цену обмена в баллах.
func ValidateExchangePrice(price int) error {
	if price < MinExchangePrice {
		return fmt.Errorf("цена обмена должна быть не менее %d балла", MinExchangePrice)
	}
	if price > MaxExchangePrice {
		return fmt.Errorf("цена обмена не может превышать %d баллов", MaxExchangePrice)
	}
	return nil
}

// ValidateExchangeMessage проверяет сопроводительное сообщение запроса.
func ValidateExchangeMessage(message *string) error {
	if message != nil && *message != "" {
		content := strings.TrimSpace(*message)
		if err := ValidateLength("сообщение", content, MinExchangeMessageLength, MaxExchangeMessageLength); err != nil {
			return err
		}
	}
	return nil
}
