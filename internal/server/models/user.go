// Серверная модель пользователя
package models

import (
	"time"

	smodels "github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// User: учётная запись в хранилище аккаунтов.
//
// ID назначает хранилище: UUID в PostgreSQL, hex ObjectID в MongoDB.
// PasswordHash наружу не отдаётся, для ответов API есть Public.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Public возвращает представление пользователя для ответов API.
func (u User) Public() smodels.UserInfo {
	return smodels.UserInfo{ID: u.ID, Email: u.Email}
}
