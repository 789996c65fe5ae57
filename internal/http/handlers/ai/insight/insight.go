// Package insight обрабатывает запросы на генерацию текстовых подсказок через AI-провайдера.
package insight

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/donation-gateway/internal/http/response"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
)

// GenerateRequest представляет запрос на генерацию текста.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Type   string `json:"type,omitempty" validate:"omitempty,oneof=prayer insight"`
}

// GenerateResponse представляет успешный ответ с сгенерированным текстом.
type GenerateResponse struct {
	Content string `json:"content"`
}

// Service определяет интерфейс сервиса генерации текста.
type Service interface {
	Generate(ctx context.Context, prompt, kind string) (string, error)
}

// Limiter определяет интерфейс проверки индивидуального лимита запросов пользователя.
type Limiter interface {
	Allow(ctx context.Context, userUID string) bool
}

// Handler обрабатывает запросы на генерацию подсказок.
type Handler struct {
	log      *slog.Logger
	service  Service
	limiter  Limiter
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, limiter Limiter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		limiter:  limiter,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать подсказку
// @Description Генерирует молитву или духовную подсказку по стиху через AI-провайдера с учетом лимита запросов пользователя
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body GenerateRequest true "Текст запроса и тип подсказки"
// @Success 200 {object} GenerateResponse "Сгенерированный текст"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой prompt"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит запросов"
// @Failure 500 {object} response.ErrorResponse "AI-провайдер недоступен"
// @Router /geminiProxy [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.insight"
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

	// Лимит проверяется до чтения тела: некорректный запрос тоже
	// расходует квоту пользователя.
	if !h.limiter.Allow(r.Context(), userUID) {
		log.Info("rate limit exceeded", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Error("Rate limit exceeded. Please wait a moment before requesting more insights."))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	content, err := h.service.Generate(r.Context(), req.Prompt, req.Type)
	if err != nil {
		log.Error("failed to generate content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("AI service temporarily unavailable. Please try again later."))
		return
	}

	log.Info("content generated", slog.String("user_uid", userUID), slog.Int("length", len(content)))
	render.JSON(w, r, GenerateResponse{Content: content})
}
