// Package ratelimit реализует лимитер AI-запросов с фиксированным окном
// на пользователя поверх транзакционного хранилища.
//
// Решение принимается внутри одной транзакции над записью пользователя,
// чтобы конкурентные запросы не теряли инкременты счётчика. При отказе
// самого хранилища поведение задаётся политикой FailOpen: AI-функция
// некритична, и по умолчанию запрос пропускается.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/donation-gateway/internal/config"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/storage"
)

// Service принимает решения allow/deny для AI-запросов пользователя.
type Service struct {
	store    storage.Store
	log      *slog.Logger
	limit    int
	window   time.Duration
	failOpen bool

	now func() time.Time
}

// New создает лимитер с настройками из конфига.
func New(store storage.Store, log *slog.Logger, cfg config.RateLimit) *Service {
	return &Service{
		store:    store,
		log:      log,
		limit:    cfg.Requests,
		window:   cfg.Window,
		failOpen: cfg.FailOpen,
		now:      time.Now,
	}
}

// Allow атомарно учитывает запрос пользователя и возвращает решение.
//
// Алгоритм фиксированного окна: если с начала окна прошло строго больше
// window, окно начинается заново со счётчиком 1; иначе счётчик
// инкрементируется, пока не достигнут лимит. Отказ по лимиту ничего не
// записывает.
func (s *Service) Allow(ctx context.Context, userUID string) bool {
	const op = "ratelimit.Allow"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	allowed := false
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := tx.LockUser(ctx, userUID)
		if err != nil {
			return err
		}

		now := s.now()
		if now.Sub(user.LastAIRequestTime) > s.window {
			allowed = true
			return tx.UpdateRateLimit(ctx, userUID, 1, now)
		}
		if user.AIRequestCount >= s.limit {
			allowed = false
			return nil
		}
		allowed = true
		return tx.UpdateRateLimit(ctx, userUID, user.AIRequestCount+1, user.LastAIRequestTime)
	})
	if err != nil {
		if s.failOpen {
			log.Error("rate limit check failed, allowing request", sl.Err(err))
			return true
		}
		log.Error("rate limit check failed, denying request", sl.Err(err))
		return false
	}
	return allowed
}
