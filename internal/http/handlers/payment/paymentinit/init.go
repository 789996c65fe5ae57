// Package paymentinit обрабатывает инициализацию платежей через платёжного провайдера.
package paymentinit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/donation-gateway/internal/http/response"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/paymentprovider"
)

// InitPaymentRequest представляет запрос на инициализацию платежа.
// Amount указывается в найрах, минимальная сумма — 100 NGN.
type InitPaymentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gte=100"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	CallbackURL string `json:"callback_url,omitempty" validate:"omitempty,url"`
}

// InitPaymentResponse представляет успешный ответ с данными для оплаты.
type InitPaymentResponse struct {
	Success          bool   `json:"success"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// ProviderClient определяет интерфейс для работы с платёжным провайдером.
type ProviderClient interface {
	InitializeTransaction(ctx context.Context, req paymentprovider.InitializeRequest) (*paymentprovider.InitializeData, error)
}

// Handler обрабатывает запросы на инициализацию платежей.
type Handler struct {
	log            *slog.Logger
	providerClient ProviderClient
	callbackURL    string // URL возврата по умолчанию из конфигурации
	validate       *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, providerClient ProviderClient, callbackURL string) *Handler {
	return &Handler{
		log:            log,
		providerClient: providerClient,
		callbackURL:    callbackURL,
		validate:       validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Инициализировать платёж
// @Description Создает транзакцию у платёжного провайдера и возвращает ссылку для оплаты пожертвования
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body InitPaymentRequest true "Сумма в найрах и необязательные email и callback_url"
// @Success 200 {object} InitPaymentResponse "Ссылка для оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма, отсутствует email или отказ провайдера"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Платёжный провайдер недоступен"
// @Router /initializePayment [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.init"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req InitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid amount. Minimum is 100 NGN."))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	email := req.Email
	if email == "" {
		email, _ = r.Context().Value(middlewarectx.Email).(string)
	}
	if email == "" {
		log.Error("email not provided and missing in token", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email required for payment."))
		return
	}

	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = h.callbackURL
	}

	providerReq := paymentprovider.InitializeRequest{
		Email:       email,
		Amount:      req.Amount * 100, // найры -> кобо
		CallbackURL: callbackURL,
		Metadata: paymentprovider.TransactionMetadata{
			UserID:  userUID,
			Purpose: "supporter_donation",
		},
	}

	data, err := h.providerClient.InitializeTransaction(r.Context(), providerReq)
	if err != nil {
		var rejection *paymentprovider.RejectionError
		if errors.As(err, &rejection) {
			log.Error("provider rejected transaction", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(rejection.Message))
			return
		}
		log.Error("failed to initialize transaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("payment provider error"))
		return
	}

	log.Info("payment initialized",
		slog.String("user_uid", userUID),
		slog.String("reference", data.Reference))
	render.JSON(w, r, InitPaymentResponse{
		Success:          true,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	})
}
