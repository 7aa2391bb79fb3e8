package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Message stores a notification event for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	EventID       uuid.UUID           `json:"event_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *notification.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.EventID,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: shared.Now(),
	}, nil
}

// Event decodes the notification event from the payload
func (m *Message) Event() (*notification.Event, error) {
	var event notification.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ExhaustedAfterFailure reports whether one more failed attempt reaches the limit
func (m *Message) ExhaustedAfterFailure(maxAttempts int) bool {
	return m.Attempts+1 >= maxAttempts
}
