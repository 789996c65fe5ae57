// Package receiptsender запускает воркер отправки квитанций о пожертвованиях.
package receiptsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/donation-gateway/internal/config"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/donation-gateway/internal/services/sender"
)

// App инкапсулирует подключение к очереди и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает воркер: подключение к RabbitMQ, канал с очередью квитанций
// и SMTP транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDonationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди квитанций и ждет отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ReceiptsQueue, a.senderService.SendDonationReceipt)
	if err != nil {
		a.logger.Error("failed to start receipts consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("receipt sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
