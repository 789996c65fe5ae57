// Package paymentprovider реализует REST-клиент Paystack.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RejectionError провайдер принял запрос, но отклонил транзакцию.
// Сообщение провайдера допустимо показать клиенту.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return "payment provider rejected transaction: " + e.Message
}

// Client клиент Paystack API.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Paystack.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// InitializeTransaction создаёт транзакцию через /transaction/initialize.
// Отклонение провайдером возвращается как *RejectionError, недоступность
// провайдера - как обычная ошибка.
func (c *Client) InitializeTransaction(ctx context.Context, reqParams InitializeRequest) (*InitializeData, error) {
	const op = "paymentprovider.InitializeTransaction"

	req, err := c.newRequest(ctx, http.MethodPost, "/transaction/initialize", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var initResp InitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !initResp.Status {
		msg := initResp.Message
		if msg == "" {
			msg = "payment initialization failed"
		}
		return nil, &RejectionError{Message: msg}
	}
	return &initResp.Data, nil
}
