package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names consumed by the notification service.
const (
	BillingEventsQueue = "billing_events"
)

// Event types carried on the billing_events queue.
const (
	TypePaymentRecorded  = "payment.recorded"
	TypeChargesPaid      = "charges.paid"
	TypeRolloverExecuted = "rollover.executed"
)

type PaymentRecorded struct {
	PaymentID   string `json:"payment_id"`
	AccountID   int64  `json:"account_id"`
	CollectorID int64  `json:"collector_id"`
	Amount      string `json:"amount"`
	NewBalance  string `json:"new_balance"`
	DebtStatus  string `json:"debt_status"`
}

type ChargesPaid struct {
	AccountID     int64  `json:"account_id"`
	CollectorID   int64  `json:"collector_id"`
	Amount        string `json:"amount"`
	ChargesTotal  int    `json:"charges_touched"`
	RemainingDebt string `json:"remaining_debt"`
}

type RolloverExecuted struct {
	Year              int    `json:"year"`
	CollectorID       int64  `json:"collector_id"`
	AccountsProcessed int    `json:"accounts_processed"`
	ChargesCreated    int    `json:"charges_created"`
	CarryOverTotal    string `json:"carry_over_total"`
}

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher emits billing events to RabbitMQ. Publishing is best-effort
// notification fan-out: the ledger transaction has already committed, so
// failures are logged and never propagated back to the caller.
type Publisher struct {
	conn *RabbitMQConnection
}

// NewPublisher accepts a nil connection so the service can run without
// a broker (tests, degraded startup); events are then dropped with a
// debug log.
func NewPublisher(conn *RabbitMQConnection) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PaymentRecorded(ctx context.Context, payload PaymentRecorded) {
	p.publish(ctx, TypePaymentRecorded, payload)
}

func (p *Publisher) ChargesPaid(ctx context.Context, payload ChargesPaid) {
	p.publish(ctx, TypeChargesPaid, payload)
}

func (p *Publisher) RolloverExecuted(ctx context.Context, payload RolloverExecuted) {
	p.publish(ctx, TypeRolloverExecuted, payload)
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload any) {
	if p == nil || p.conn == nil || p.conn.Channel == nil {
		slog.Debug("event dropped, no broker connection", "type", eventType)
		return
	}

	if err := p.doPublish(ctx, eventType, payload); err != nil {
		slog.Error("failed to publish billing event", "type", eventType, "error", err)
	}
}

func (p *Publisher) doPublish(ctx context.Context, eventType string, payload any) error {
	_, err := p.conn.Channel.QueueDeclare(
		BillingEventsQueue, // queue name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                 // exchange
		BillingEventsQueue, // routing key (queue name)
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
