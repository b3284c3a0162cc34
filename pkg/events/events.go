package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/caredesk/caredesk-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Account lifecycle events
	AccountRegistered      = "account.registered"
	AccountActivated       = "account.activated"
	AccountDeleted         = "account.deleted"
	PasswordResetRequested = "account.password_reset.requested"
	PasswordResetCompleted = "account.password_reset.completed"

	// Care events
	CareRequestCreated = "care.request.created"
	AppointmentCreated = "care.appointment.created"
)

// Event payloads
type AccountRegisteredEvent struct {
	UserID       int64     `json:"user_id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

type AccountActivatedEvent struct {
	UserID      int64     `json:"user_id"`
	Login       string    `json:"login"`
	ActivatedAt time.Time `json:"activated_at"`
}

type AccountDeletedEvent struct {
	Login     string    `json:"login"`
	DeletedAt time.Time `json:"deleted_at"`
}

type PasswordResetRequestedEvent struct {
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

type PasswordResetCompletedEvent struct {
	UserID      int64     `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type CareRequestCreatedEvent struct {
	RequestID  int64     `json:"request_id"`
	PatientCin int64     `json:"patient_cin"`
	DoctorID   int64     `json:"doctor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type AppointmentCreatedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	RequestID     int64     `json:"request_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	CreatedAt     time.Time `json:"created_at"`
}
