// Package paymentwebhook обрабатывает webhook-уведомления платёжного провайдера.
//
// Подпись проверяется по сырому телу запроса до любого разбора JSON:
// повторная сериализация может изменить порядок ключей и сломать проверку.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/signature"
	"github.com/magabrotheeeer/donation-gateway/internal/models"
	paymentservice "github.com/magabrotheeeer/donation-gateway/internal/services/payment"
)

// Service определяет интерфейс сервиса зачисления пожертвований.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, event *models.WebhookEvent) (paymentservice.Outcome, error)
}

// Handler обрабатывает webhook-уведомления.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет провайдера для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Принимает уведомления о платежах, проверяет подпись HMAC-SHA512 и идемпотентно зачисляет пожертвования
// @Tags Payments
// @Accept  json
// @Produce  plain
// @Success 200 {string} string "Webhook processed successfully"
// @Failure 400 {string} string "Некорректное тело или отсутствуют обязательные поля"
// @Failure 401 {string} string "Невалидная подпись"
// @Failure 500 {string} string "Ошибка зачисления, провайдер повторит доставку"
// @Router /paystackWebhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get("X-Paystack-Signature")
	if !signature.Verify(body, sig, h.webhookSecret) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Invalid signature"))
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid payload"))
		return
	}

	outcome, err := h.service.ProcessWebhookEvent(r.Context(), &event)
	if err != nil {
		if errors.Is(err, paymentservice.ErrMissingFields) {
			log.Error("webhook payload missing required fields", slog.String("event", event.Event))
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Missing required fields"))
			return
		}
		// 500 приглашает провайдера к повторной доставке, зачисление идемпотентно.
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Processing error"))
		return
	}

	switch outcome {
	case paymentservice.OutcomeIgnored:
		log.Info("ignored webhook event", slog.String("event", event.Event))
		_, _ = w.Write([]byte("Event ignored"))
	case paymentservice.OutcomeDuplicate:
		log.Info("duplicate webhook delivery", slog.String("reference", event.Data.Reference))
		_, _ = w.Write([]byte("Already processed"))
	case paymentservice.OutcomeApplied:
		log.Info("webhook processed successfully",
			slog.String("event", event.Event),
			slog.String("reference", event.Data.Reference))
		_, _ = w.Write([]byte("Webhook processed successfully"))
	}
}
