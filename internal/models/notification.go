package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
)

// NotificationType is the business event that produced a notification.
type NotificationType string

const (
	NotificationBookingConfirmed    NotificationType = "booking_confirmed"
	NotificationLeadCreated         NotificationType = "lead_created"
	NotificationSupportTicket       NotificationType = "support_ticket"
	NotificationCancellationRequest NotificationType = "cancellation_request"
	NotificationRescheduleRequest   NotificationType = "reschedule_request"
)

var notificationTypes = map[NotificationType]bool{
	NotificationBookingConfirmed:    true,
	NotificationLeadCreated:         true,
	NotificationSupportTicket:       true,
	NotificationCancellationRequest: true,
	NotificationRescheduleRequest:   true,
}

func (t NotificationType) Valid() bool { return notificationTypes[t] }

// Priority orders notifications for the admin.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Notification is an admin-facing event record. IsRead only ever goes false to true.
type Notification struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	Type      NotificationType       `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Data      map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	IsRead    bool                   `bson:"isRead" json:"isRead"`
	Priority  Priority               `bson:"priority" json:"priority"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	ReadAt    *time.Time             `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// NewNotification builds an unread notification, defaulting priority to medium.
func NewNotification(t NotificationType, title, message string, data map[string]interface{}, priority Priority) (*Notification, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	n := &Notification{
		ID:        primitive.NewObjectID(),
		Type:      t,
		Title:     title,
		Message:   message,
		Data:      data,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notification) Validate() error {
	v := &apperr.ValidationError{}
	if !n.Type.Valid() {
		v.Add("type", "unknown notification type %q", n.Type)
	}
	if strings.TrimSpace(n.Title) == "" {
		v.Add("title", "is required")
	}
	if strings.TrimSpace(n.Message) == "" {
		v.Add("message", "is required")
	}
	if !n.Priority.Valid() {
		v.Add("priority", "must be low, medium or high")
	}
	return v.OrNil()
}

// NotificationFilter narrows a listing. Nil fields do not filter.
type NotificationFilter struct {
	IsRead   *bool
	Type     *NotificationType
	Priority *Priority
}

// NotificationPage is one page of a filtered listing.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}
