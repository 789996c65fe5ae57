// Package jwt реализует генерацию и парсинг ID-токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// uid и email пользователя. MakerImpl — конкретная реализация с
// секретным ключом и сроком жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга ID-токенов.
type Maker interface {
	// GenerateToken создает токен для пользователя с uid и email
	GenerateToken(uid, email string) (string, error)
	// ParseToken возвращает *CustomClaims с uid и email
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
