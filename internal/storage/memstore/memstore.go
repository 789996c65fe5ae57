// Package memstore реализует хранилище storage.Store в памяти.
//
// Транзакции сериализуются одним мьютексом: fn выполняется над копией
// данных, и только успешное завершение публикует изменения. Этого
// достаточно, чтобы в тестах воспроизводить конкурентные доставки
// webhook и параллельные запросы одного пользователя.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/donation-gateway/internal/models"
	"github.com/magabrotheeeer/donation-gateway/internal/storage"
)

// Store хранит записи пользователей и платежей в памяти.
type Store struct {
	mu       sync.Mutex
	users    map[string]models.UserRecord
	payments map[string]models.PaymentRecord

	// FailWith, будучи ненулевым, заставляет RunTransaction вернуть эту
	// ошибку, не трогая данные. Используется для проверки политики
	// fail-open / fail-closed.
	FailWith error
}

var _ storage.Store = (*Store)(nil)

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		users:    make(map[string]models.UserRecord),
		payments: make(map[string]models.PaymentRecord),
	}
}

// RunTransaction выполняет fn над копией данных под мьютексом.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	tx := &memTx{
		users:    cloneMap(s.users),
		payments: clonePayments(s.payments),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.users = tx.users
	s.payments = tx.payments
	return nil
}

// GetUser возвращает копию записи пользователя; (nil, nil), если её нет.
func (s *Store) GetUser(_ context.Context, uid string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[uid]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetPayment возвращает копию записи платежа для проверок в тестах.
func (s *Store) GetPayment(reference string) (*models.PaymentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.payments[reference]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// PaymentsCount возвращает число записей платежей.
func (s *Store) PaymentsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

// PutUser кладёт запись пользователя напрямую, минуя транзакцию.
func (s *Store) PutUser(rec models.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[rec.UID] = rec
}

type memTx struct {
	users    map[string]models.UserRecord
	payments map[string]models.PaymentRecord
}

func (t *memTx) LockUser(_ context.Context, uid string) (*models.UserRecord, error) {
	user, ok := t.users[uid]
	if !ok {
		user = models.UserRecord{UID: uid}
		t.users[uid] = user
	}
	return &user, nil
}

func (t *memTx) UpdateRateLimit(_ context.Context, uid string, count int, windowStart time.Time) error {
	user := t.users[uid]
	user.UID = uid
	user.AIRequestCount = count
	user.LastAIRequestTime = windowStart
	t.users[uid] = user
	return nil
}

func (t *memTx) LockPayment(_ context.Context, reference string) (*models.PaymentRecord, error) {
	rec, ok := t.payments[reference]
	if !ok {
		rec = models.PaymentRecord{Reference: reference}
		t.payments[reference] = rec
	}
	return &rec, nil
}

func (t *memTx) MarkPaymentProcessed(_ context.Context, rec models.PaymentRecord) error {
	t.payments[rec.Reference] = rec
	return nil
}

func (t *memTx) ApplyDonation(_ context.Context, uid, email string, amount float64, now time.Time) error {
	user := t.users[uid]
	user.UID = uid
	user.SupporterStatus = true
	if user.SupporterSince == nil {
		since := now
		user.SupporterSince = &since
	}
	user.TotalDonated += amount
	if user.Email == "" {
		user.Email = email
	}
	t.users[uid] = user
	return nil
}

func cloneMap(src map[string]models.UserRecord) map[string]models.UserRecord {
	dst := make(map[string]models.UserRecord, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func clonePayments(src map[string]models.PaymentRecord) map[string]models.PaymentRecord {
	dst := make(map[string]models.PaymentRecord, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
