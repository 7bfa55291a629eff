package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

// LedgerEvent сообщение об изменении журнала, публикуется после фиксации
type LedgerEvent struct {
	Type            string                 `json:"type"`
	TransactionID   string                 `json:"transaction_id"`
	UserID          string                 `json:"user_id"`
	TransactionType models.TransactionType `json:"transaction_type"`
	Amount          float64                `json:"amount"`
	Adjustment      float64                `json:"balance_adjustment"`
	OccurredAt      time.Time              `json:"occurred_at"`
}

// EventPublisher публикует события журнала
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}

// NoopPublisher отбрасывает события
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, LedgerEvent) error { return nil }

// AMQPPublisher публикует события в topic exchange, ключ маршрутизации = тип события
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher подключается к брокеру и объявляет exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish отправляет событие. Канал AMQP не потокобезопасен, поэтому публикация под мьютексом.
func (p *AMQPPublisher) Publish(ctx context.Context, event LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// publishBestEffort публикует событие и только логирует ошибку: журнал уже зафиксирован
func publishBestEffort(ctx context.Context, publisher EventPublisher, event LedgerEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		utils.LogError("Failed to publish %s for transaction %s: %v", event.Type, event.TransactionID, err)
	}
}
