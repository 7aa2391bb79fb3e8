package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitebooks-ledger/internal/domain/notification"
)

const (
	// NotificationCollectionName is the name of the notification inbox collection in MongoDB
	NotificationCollectionName = "notifications"
)

// NotificationRepository implements the notification.Repository interface for MongoDB
type NotificationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewNotificationRepository creates a new MongoDB notification repository
func NewNotificationRepository(logger *slog.Logger, db *mongo.Database) notification.Repository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores a notification. The event id is the document _id, so a
// redelivered event hits the duplicate key and is treated as already stored.
func (r *NotificationRepository) Record(ctx context.Context, n *notification.Notification) error {
	collection := r.db.Collection(NotificationCollectionName)

	_, err := collection.InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debug("Notification already recorded", "notification_id", n.ID)
			return nil
		}
		r.logger.Error("Failed to record notification",
			"notification_id", n.ID,
			"error", err)
		return fmt.Errorf("failed to record notification: %w", err)
	}

	return nil
}

// List retrieves paginated notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, limit, offset int) ([]*notification.Notification, error) {
	collection := r.db.Collection(NotificationCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error("Failed to list notifications", "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*notification.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		r.logger.Error("Failed to decode notifications", "error", err)
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

// Count returns the total number of stored notifications
func (r *NotificationRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(NotificationCollectionName)

	count, err := collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		r.logger.Error("Failed to count notifications", "error", err)
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

// MarkRead flags a notification as read.
// Returns ErrNotificationNotFound if the notification doesn't exist.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	collection := r.db.Collection(NotificationCollectionName)

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to mark notification read",
			"notification_id", id,
			"error", err)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.MatchedCount == 0 {
		return notification.ErrNotificationNotFound{ID: id}
	}

	return nil
}
