// Package models содержит структуры данных, общие для хранилища,
// сервисов и HTTP-обработчиков шлюза пожертвований.
package models

import "time"

// UserRecord запись пользователя в хранилище. Создаётся лениво при первой
// записи (лимит AI-запросов или зачисление пожертвования), никогда не удаляется.
type UserRecord struct {
	UID               string
	Email             string
	AIRequestCount    int       // счётчик AI-запросов в текущем окне
	LastAIRequestTime time.Time // начало окна; нулевое значение - запросов ещё не было
	SupporterStatus   bool
	SupporterSince    *time.Time
	TotalDonated      float64 // накопленная сумма в найрах
}

// PaymentRecord запись платежа, ключ - reference, выданный провайдером.
// Поле Processed переходит из false в true не более одного раза.
type PaymentRecord struct {
	Reference      string
	UserUID        string
	Email          string
	Amount         float64 // в найрах
	Processed      bool
	ProcessedAt    *time.Time
	ProviderStatus string
	Channel        string
	PaidAt         string
}

// WebhookEvent конверт события Paystack, как он приходит в webhook.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"` // в кобо
		Status    string `json:"status"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata struct {
			UserID  string `json:"userId"`
			Purpose string `json:"purpose"`
		} `json:"metadata"`
	} `json:"data"`
}

// DonationReceipt сообщение для отправки квитанции о пожертвовании,
// публикуется в очередь после успешного зачисления.
type DonationReceipt struct {
	ID        string  `json:"id"`
	UserUID   string  `json:"user_uid"`
	Email     string  `json:"email"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	PaidAt    string  `json:"paid_at"`
}

// SupporterStatus статус поддержки для выдачи клиенту.
type SupporterStatus struct {
	SupporterStatus bool       `json:"supporterStatus"`
	SupporterSince  *time.Time `json:"supporterSince,omitempty"`
	TotalDonated    float64    `json:"totalDonated"`
}
