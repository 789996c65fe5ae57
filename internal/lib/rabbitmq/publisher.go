package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/donation-gateway/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReceiptPublisher публикует квитанции о пожертвованиях в обменник donations.
type ReceiptPublisher struct {
	ch *amqp.Channel
}

// NewReceiptPublisher создает новый экземпляр ReceiptPublisher.
func NewReceiptPublisher(ch *amqp.Channel) *ReceiptPublisher {
	return &ReceiptPublisher{ch: ch}
}

// PublishReceipt публикует квитанцию о зачисленном пожертвовании.
func (p *ReceiptPublisher) PublishReceipt(receipt models.DonationReceipt) error {
	return PublishMessage(p.ch, DonationsExchange, ReceiptRoutingKey, receipt)
}
