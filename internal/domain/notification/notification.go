package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Category groups notifications for the admin inbox
type Category string

const (
	CategorySupervisor  Category = "supervisor"
	CategoryWorker      Category = "worker"
	CategoryVendor      Category = "vendor"
	CategoryTransaction Category = "transaction"
	CategoryLocation    Category = "location"
	CategoryAdmin       Category = "admin"
)

// Valid reports whether the category is known
func (c Category) Valid() bool {
	switch c {
	case CategorySupervisor, CategoryWorker, CategoryVendor, CategoryTransaction, CategoryLocation, CategoryAdmin:
		return true
	}
	return false
}

// Event is what the API emits and the relay carries over Kafka
type Event struct {
	EventID       uuid.UUID `json:"event_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Category      Category  `json:"category"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent builds an event stamped with a fresh id
func NewEvent(title, message string, category Category) *Event {
	return &Event{
		EventID:    uuid.New(),
		Title:      strings.TrimSpace(title),
		Message:    strings.TrimSpace(message),
		Category:   category,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks an event decoded off the wire
func (e *Event) Validate() error {
	switch {
	case e.EventID == uuid.Nil:
		return shared.InvalidArgument("event_id", "is required")
	case e.Title == "":
		return shared.InvalidArgument("title", "is required")
	case e.Message == "":
		return shared.InvalidArgument("message", "is required")
	case !e.Category.Valid():
		return shared.InvalidArgument("category", "is not a known category")
	}
	return nil
}

// Notification is a stored inbox item. Its id is the originating event id,
// which makes recording idempotent.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Category  Category  `json:"category" bson:"category"`
	IsRead    bool      `json:"is_read" bson:"is_read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// FromEvent converts a relayed event into an unread notification
func FromEvent(e *Event) *Notification {
	return &Notification{
		ID:        e.EventID.String(),
		Title:     e.Title,
		Message:   e.Message,
		Category:  e.Category,
		IsRead:    false,
		CreatedAt: e.OccurredAt,
	}
}

// Repository manages notification persistence
type Repository interface {
	// Record stores the notification, a repeated id is a no-op
	Record(ctx context.Context, n *Notification) error
	// List returns notifications newest first
	List(ctx context.Context, limit, offset int) ([]*Notification, error)
	Count(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

// ErrNotificationNotFound indicates missing notification
type ErrNotificationNotFound struct {
	ID string
}

func (e ErrNotificationNotFound) Error() string {
	return "notification not found: " + e.ID
}

func (e ErrNotificationNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrNotificationNotFound) Is(target error) bool {
	t, ok := target.(ErrNotificationNotFound)
	if !ok {
		return false
	}
	return t.ID == "" || e.ID == t.ID
}
