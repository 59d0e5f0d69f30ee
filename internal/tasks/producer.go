package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/hibiken/asynq"

	"github.com/umorjyoti/trip-sub006/internal/models"
)

// NotificationProducer lets other subsystems raise admin notifications without
// touching the store. Tasks are not retried: a lost event is logged, not replayed.
type NotificationProducer struct {
	client TaskEnqueuer
	log    logr.Logger
}

// NewNotificationProducer creates a new NotificationProducer.
func NewNotificationProducer(client TaskEnqueuer, log logr.Logger) *NotificationProducer {
	return &NotificationProducer{client: client, log: log}
}

// Emit validates payload and enqueues it.
func (p *NotificationProducer) Emit(ctx context.Context, payload NotificationPayload) error {
	if _, err := models.NewNotification(payload.Type, payload.Title, payload.Message, payload.Data, payload.Priority); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	info, err := p.client.EnqueueContext(ctx, asynq.NewTask(TypeNotificationCreate, body),
		asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	p.log.V(1).Info("notification enqueued", "task", info.ID, "type", payload.Type)
	return nil
}

func (p *NotificationProducer) BookingConfirmed(ctx context.Context, bookingID, customer, trek string) error {
	return p.Emit(ctx, NotificationPayload{
		Type:    models.NotificationBookingConfirmed,
		Title:   "Booking confirmed",
		Message: fmt.Sprintf("%s booked %s", customer, trek),
		Data:    map[string]interface{}{"bookingId": bookingID, "trekName": trek},
	})
}

func (p *NotificationProducer) LeadCreated(ctx context.Context, leadID, name, trek string) error {
	return p.Emit(ctx, NotificationPayload{
		Type:    models.NotificationLeadCreated,
		Title:   "New lead",
		Message: fmt.Sprintf("%s enquired about %s", name, trek),
		Data:    map[string]interface{}{"leadId": leadID, "trekName": trek},
	})
}

// SupportTicket keeps the ticket's own priority.
func (p *NotificationProducer) SupportTicket(ctx context.Context, ticketID, subject string, priority models.Priority) error {
	return p.Emit(ctx, NotificationPayload{
		Type:     models.NotificationSupportTicket,
		Title:    "New support ticket",
		Message:  subject,
		Data:     map[string]interface{}{"ticketId": ticketID},
		Priority: priority,
	})
}

func (p *NotificationProducer) CancellationRequest(ctx context.Context, bookingID, customer, reason string) error {
	return p.Emit(ctx, NotificationPayload{
		Type:     models.NotificationCancellationRequest,
		Title:    "Cancellation requested",
		Message:  fmt.Sprintf("%s asked to cancel: %s", customer, reason),
		Data:     map[string]interface{}{"bookingId": bookingID},
		Priority: models.PriorityHigh,
	})
}

func (p *NotificationProducer) RescheduleRequest(ctx context.Context, bookingID, customer, requestedDate string) error {
	return p.Emit(ctx, NotificationPayload{
		Type:     models.NotificationRescheduleRequest,
		Title:    "Reschedule requested",
		Message:  fmt.Sprintf("%s asked to move their booking to %s", customer, requestedDate),
		Data:     map[string]interface{}{"bookingId": bookingID, "requestedDate": requestedDate},
		Priority: models.PriorityHigh,
	})
}
