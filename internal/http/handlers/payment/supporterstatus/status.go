// Package supporterstatus обрабатывает запросы статуса поддержки пользователя.
package supporterstatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/donation-gateway/internal/http/response"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/models"
)

// Service определяет интерфейс чтения статуса поддержки.
type Service interface {
	SupporterStatus(ctx context.Context, userUID string) (*models.SupporterStatus, error)
}

// Handler обрабатывает запросы статуса поддержки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус поддержки
// @Description Возвращает статус поддержки пользователя и сумму пожертвований
// @Tags Payments
// @Produce  json
// @Success 200 {object} models.SupporterStatus "Статус поддержки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /supporterStatus [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.supporterstatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status, err := h.service.SupporterStatus(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read supporter status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, status)
}
