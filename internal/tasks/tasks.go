package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/hibiken/asynq"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/email"
	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// Task types handled by the background worker.
const (
	TypeNotificationCreate     = "notification:create"
	TypeNotificationAlertEmail = "notification:alert_email"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// TaskEnqueuer is the part of *asynq.Client producers use.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOpt builds the asynq connection from the Redis settings in cfg.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

// NewClient creates the asynq client used to enqueue tasks.
func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// NotificationPayload is the body of a notification:create task.
type NotificationPayload struct {
	Type     models.NotificationType `json:"type"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Data     map[string]interface{}  `json:"data,omitempty"`
	Priority models.Priority         `json:"priority,omitempty"`
}

// AlertEmailPayload is the body of a notification:alert_email task.
type AlertEmailPayload struct {
	NotificationID string                  `json:"notification_id"`
	Type           models.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	CreatedAt      time.Time               `json:"created_at"`
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
type TaskProcessor struct {
	cfg           *config.Config
	notifications services.INotificationService
	emailSender   email.Sender
	taskClient    TaskEnqueuer
	log           logr.Logger
}

func NewTaskProcessor(
	cfg *config.Config,
	notifications services.INotificationService,
	emailSender email.Sender,
	taskClient TaskEnqueuer,
	log logr.Logger,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:           cfg,
		notifications: notifications,
		emailSender:   emailSender,
		taskClient:    taskClient,
		log:           log,
	}
}

// SetupServer configures an Asynq server and the mux with every handler registered.
func SetupServer(cfg *config.Config, processor *TaskProcessor, log logr.Logger) (*asynq.Server, *asynq.ServeMux) {
	taskLog := log.WithName("asynq")
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
			},
			Logger: NewLogger(taskLog),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskLog.Error(err, "task failed", "type", task.Type(), "payload", string(task.Payload()))
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationCreate, processor.HandleNotificationCreateTask)
	mux.HandleFunc(TypeNotificationAlertEmail, processor.HandleNotificationAlertEmailTask)
	return srv, mux
}

// HandleNotificationCreateTask stores a notification and, for high priority ones,
// queues the admin alert mail.
func (p *TaskProcessor) HandleNotificationCreateTask(ctx context.Context, t *asynq.Task) error {
	var payload NotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %v: %w", err, asynq.SkipRetry)
	}

	n, err := p.notifications.Create(ctx, payload.Type, payload.Title, payload.Message, payload.Data, payload.Priority)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid notification: %v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	if n.Priority != models.PriorityHigh || p.cfg.AdminAlertEmail == "" {
		return nil
	}
	body, err := json.Marshal(AlertEmailPayload{
		NotificationID: n.ID.Hex(),
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %v: %w", err, asynq.SkipRetry)
	}
	// the notification is stored; a failed alert enqueue must not create it twice
	if _, err := p.taskClient.EnqueueContext(ctx, asynq.NewTask(TypeNotificationAlertEmail, body),
		asynq.Queue(QueueCritical), asynq.MaxRetry(3)); err != nil {
		p.log.Error(err, "failed to enqueue admin alert", "notification", n.ID.Hex())
	}
	return nil
}

// HandleNotificationAlertEmailTask mails a high priority notification to the admin inbox.
func (p *TaskProcessor) HandleNotificationAlertEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload AlertEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal alert payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.cfg.AdminAlertEmail == "" {
		return fmt.Errorf("%w: %w", &apperr.ConfigError{Key: "ADMIN_ALERT_EMAIL"}, asynq.SkipRetry)
	}

	to := []string{p.cfg.AdminAlertEmail}
	subject := fmt.Sprintf("[High priority] %s", payload.Title)
	body := fmt.Sprintf("%s\n\nType: %s\nNotification: %s\nCreated: %s\n",
		payload.Message, payload.Type, payload.NotificationID, payload.CreatedAt.Format(time.RFC1123))

	msg := email.BuildMessage(p.cfg.SmtpFromAddress, to, subject, body, time.Now())
	if err := p.emailSender.Send(ctx, to, subject, msg); err != nil {
		return err
	}
	p.log.Info("admin alert sent", "notification", payload.NotificationID)
	return nil
}
