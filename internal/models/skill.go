package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Виды связи пользователя с навыком.
const (
	UserSkillTeach = "teach"
	UserSkillLearn = "learn"
)

// ValidUserSkillKinds список валидных видов связи.
var ValidUserSkillKinds = map[string]struct{}{
	UserSkillTeach: {},
	UserSkillLearn: {},
}

// Skill представляет навык из каталога.
type Skill struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Slug            string    `db:"slug" json:"slug"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	ExperienceYears *int      `db:"experience_years" json:"experience_years,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// UserSkill связывает пользователя с навыком: kind = teach | learn.
type UserSkill struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	SkillID uuid.UUID `db:"skill_id" json:"skill_id"`
	Kind    string    `db:"kind" json:"kind"`
}

// Slugify приводит имя навыка к URL-безопасному виду: строчные буквы и
// цифры, остальное схлопывается в дефисы. Уникальность slug обеспечивает
// репозиторий суффиксом.
func Slugify(name string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		case !prevHyphen:
			b.WriteRune('-')
			prevHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
