package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/db"
	"github.com/umorjyoti/trip-sub006/internal/models"
)

// INotificationService stores the admin notification feed.
type INotificationService interface {
	List(ctx context.Context, filter models.NotificationFilter, page, limit int) (*models.NotificationPage, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllRead(ctx context.Context) (int64, error)
	Create(ctx context.Context, t models.NotificationType, title, message string, data map[string]interface{}, priority models.Priority) (*models.Notification, error)
}

type notificationService struct {
	db  *mongo.Database
	log logr.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(database *mongo.Database, log logr.Logger) INotificationService {
	return &notificationService{db: database, log: log}
}

func (s *notificationService) collection() *mongo.Collection {
	return s.db.Collection(db.NotificationsCollection)
}

// notificationQuery ANDs the set filter fields.
func notificationQuery(f models.NotificationFilter) bson.M {
	q := bson.M{}
	if f.IsRead != nil {
		q["isRead"] = *f.IsRead
	}
	if f.Type != nil {
		q["type"] = *f.Type
	}
	if f.Priority != nil {
		q["priority"] = *f.Priority
	}
	return q
}

func (s *notificationService) List(ctx context.Context, filter models.NotificationFilter, page, limit int) (*models.NotificationPage, error) {
	page, limit = models.NormalizePage(page, limit)
	query := notificationQuery(filter)

	total, err := s.collection().CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(models.Skip(page, limit)).
		SetLimit(int64(limit))
	cursor, err := s.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	items := []models.Notification{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return &models.NotificationPage{
		Notifications: items,
		Pagination:    models.NewPagination(page, limit, total),
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	n, err := s.collection().CountDocuments(ctx, bson.M{"isRead": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead is idempotent. An already read notification keeps its first readAt.
func (s *notificationService) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
		opts,
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// either missing or already read
		err = s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&n)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("notification", id.Hex())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification %s read: %w", id.Hex(), err)
	}
	return &n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := s.collection().UpdateMany(ctx,
		bson.M{"isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *notificationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("notification", id.Hex())
	}
	return nil
}

func (s *notificationService) DeleteAllRead(ctx context.Context) (int64, error) {
	res, err := s.collection().DeleteMany(ctx, bson.M{"isRead": true})
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	s.log.Info("read notifications deleted", "count", res.DeletedCount)
	return res.DeletedCount, nil
}

func (s *notificationService) Create(ctx context.Context, t models.NotificationType, title, message string, data map[string]interface{}, priority models.Priority) (*models.Notification, error) {
	n, err := models.NewNotification(t, title, message, data, priority)
	if err != nil {
		return nil, err
	}
	if _, err := s.collection().InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}
	s.log.V(1).Info("notification created", "id", n.ID.Hex(), "type", n.Type, "priority", n.Priority)
	return n, nil
}
