// Package payment реализует идемпотентную обработку платёжных webhook-событий
// и чтение статуса поддержки пользователя.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/models"
	"github.com/magabrotheeeer/donation-gateway/internal/storage"
)

// Outcome результат обработки webhook-события.
type Outcome int

const (
	// OutcomeIgnored событие не относится к пожертвованиям, записей нет.
	OutcomeIgnored Outcome = iota
	// OutcomeDuplicate платёж уже был зачислен, повторная доставка - no-op.
	OutcomeDuplicate
	// OutcomeApplied платёж зачислен ровно один раз.
	OutcomeApplied
)

// ErrMissingFields в событии нет reference или userId - постоянная ошибка,
// провайдер не должен её повторять.
var ErrMissingFields = errors.New("missing reference or user id in webhook payload")

const (
	eventChargeSuccess       = "charge.success"
	purposeSupporterDonation = "supporter_donation"
	supporterStatusTTL       = time.Minute
)

// Publisher публикует квитанцию о зачисленном пожертвовании.
type Publisher interface {
	PublishReceipt(receipt models.DonationReceipt) error
}

// Cache кэш статуса поддержки; допускается nil.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service обрабатывает платёжные события поверх транзакционного хранилища.
// Путь зачисления работает fail-closed: ошибка хранилища поднимается до
// HTTP 500, чтобы провайдер повторил доставку.
type Service struct {
	store     storage.Store
	log       *slog.Logger
	publisher Publisher // nil - квитанции не отправляются
	cache     Cache     // nil - чтение всегда из хранилища

	now func() time.Time
}

// New создает сервис платежей.
func New(store storage.Store, log *slog.Logger, publisher Publisher, cache Cache) *Service {
	return &Service{
		store:     store,
		log:       log,
		publisher: publisher,
		cache:     cache,
		now:       time.Now,
	}
}

// ProcessWebhookEvent идемпотентно обрабатывает событие провайдера.
//
// Событие без reference или userId отклоняется как некорректное; события
// кроме успешного списания на пожертвование игнорируются без записей.
// Для остального вся проверка "уже обработано" и зачисление выполняются
// в одной транзакции над записями платежа и пользователя: сколько бы раз
// ни пришло событие с одним reference, totalDonated увеличивается ровно
// один раз.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *models.WebhookEvent) (Outcome, error) {
	const op = "payment.ProcessWebhookEvent"
	log := s.log.With(slog.String("op", op), slog.String("reference", event.Data.Reference))

	reference := event.Data.Reference
	userUID := event.Data.Metadata.UserID
	if reference == "" || userUID == "" {
		return OutcomeIgnored, ErrMissingFields
	}
	if event.Event != eventChargeSuccess || event.Data.Metadata.Purpose != purposeSupporterDonation {
		log.Info("ignored webhook event", slog.String("event", event.Event))
		return OutcomeIgnored, nil
	}

	// сумма приходит в кобо, зачисляется в найрах
	amount := float64(event.Data.Amount) / 100

	outcome := OutcomeApplied
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
		payment, err := tx.LockPayment(ctx, reference)
		if err != nil {
			return err
		}
		if payment.Processed {
			outcome = OutcomeDuplicate
			return nil
		}

		now := s.now()
		rec := models.PaymentRecord{
			Reference:      reference,
			UserUID:        userUID,
			Email:          event.Data.Customer.Email,
			Amount:         amount,
			Processed:      true,
			ProcessedAt:    &now,
			ProviderStatus: event.Data.Status,
			Channel:        event.Data.Channel,
			PaidAt:         event.Data.PaidAt,
		}
		if err := tx.MarkPaymentProcessed(ctx, rec); err != nil {
			return err
		}
		return tx.ApplyDonation(ctx, userUID, event.Data.Customer.Email, amount, now)
	})
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("%s: %w", op, err)
	}

	if outcome == OutcomeApplied {
		log.Info("donation applied",
			slog.String("user_uid", userUID), slog.Float64("amount", amount))
		s.afterApplied(ctx, event, userUID, amount)
	} else {
		log.Info("duplicate webhook delivery, skipping", slog.String("user_uid", userUID))
	}
	return outcome, nil
}

// afterApplied выполняет побочные действия после фиксации транзакции:
// сбрасывает кэш статуса и публикует квитанцию. Обе операции best-effort.
func (s *Service) afterApplied(ctx context.Context, event *models.WebhookEvent, userUID string, amount float64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, supporterStatusKey(userUID)); err != nil {
			s.log.Error("failed to invalidate supporter status cache", sl.Err(err))
		}
	}
	if s.publisher != nil {
		receipt := models.DonationReceipt{
			ID:        uuid.New().String(),
			UserUID:   userUID,
			Email:     event.Data.Customer.Email,
			Reference: event.Data.Reference,
			Amount:    amount,
			PaidAt:    event.Data.PaidAt,
		}
		if err := s.publisher.PublishReceipt(receipt); err != nil {
			s.log.Error("failed to publish donation receipt", sl.Err(err))
		}
	}
}

// SupporterStatus возвращает статус поддержки пользователя. Для
// неизвестного пользователя возвращается пустой статус - запись заводится
// лениво и её отсутствие не ошибка.
func (s *Service) SupporterStatus(ctx context.Context, userUID string) (*models.SupporterStatus, error) {
	const op = "payment.SupporterStatus"

	key := supporterStatusKey(userUID)
	if s.cache != nil {
		var cached models.SupporterStatus
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Error("supporter status cache read failed", sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	user, err := s.store.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := &models.SupporterStatus{}
	if user != nil {
		status.SupporterStatus = user.SupporterStatus
		status.SupporterSince = user.SupporterSince
		status.TotalDonated = user.TotalDonated
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, status, supporterStatusTTL); err != nil {
			s.log.Error("supporter status cache write failed", sl.Err(err))
		}
	}
	return status, nil
}

func supporterStatusKey(userUID string) string {
	return "supporter_status:" + userUID
}
