// Package storage реализует хранилище данных на основе PostgreSQL
// для записей пользователей и платежей шлюза пожертвований.
//
// Вся логика "прочитать, затем условно записать" (лимитер AI-запросов,
// идемпотентное зачисление платежа) выполняется внутри одной транзакции
// через Store.RunTransaction; хранилище отвечает за блокировки строк и
// повтор транзакции при конфликте сериализации.
package storage

import (
	"context"
	"time"

	"github.com/magabrotheeeer/donation-gateway/internal/models"
)

// Tx набор операций, доступных внутри транзакции.
//
// LockUser и LockPayment создают запись лениво, если её ещё нет, и
// блокируют её до конца транзакции, сериализуя конкурентные запросы
// по одному и тому же ключу.
type Tx interface {
	// LockUser возвращает запись пользователя, создавая пустую при отсутствии.
	LockUser(ctx context.Context, uid string) (*models.UserRecord, error)
	// UpdateRateLimit записывает счётчик и начало окна лимитера.
	UpdateRateLimit(ctx context.Context, uid string, count int, windowStart time.Time) error
	// LockPayment возвращает запись платежа, создавая заготовку при отсутствии.
	LockPayment(ctx context.Context, reference string) (*models.PaymentRecord, error)
	// MarkPaymentProcessed заполняет запись платежа и выставляет processed = true.
	MarkPaymentProcessed(ctx context.Context, rec models.PaymentRecord) error
	// ApplyDonation применяет ровно одну мутацию статуса поддержки к пользователю.
	ApplyDonation(ctx context.Context, uid, email string, amount float64, now time.Time) error
}

// Store транзакционное хранилище записей пользователей и платежей.
type Store interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// GetUser обычное чтение без блокировки; (nil, nil), если записи нет.
	GetUser(ctx context.Context, uid string) (*models.UserRecord, error)
}
