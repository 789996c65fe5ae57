package paymentprovider

// InitializeRequest запрос на создание транзакции Paystack.
// Metadata прокидывается провайдером обратно в webhook и служит фильтром
// при идемпотентном зачислении.
type InitializeRequest struct {
	Email       string              `json:"email"`
	Amount      int64               `json:"amount"` // в кобо
	CallbackURL string              `json:"callback_url,omitempty"`
	Metadata    TransactionMetadata `json:"metadata"`
}

// TransactionMetadata служебные поля транзакции.
type TransactionMetadata struct {
	UserID  string `json:"userId"`
	Purpose string `json:"purpose"`
}

// InitializeResponse ответ Paystack на создание транзакции.
type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

// InitializeData данные созданной транзакции.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}
