package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barberbook/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the task that fires at fireAt for the given payload.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.TaskID("reminder:" + payload.BookingID)}

	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used to queue tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder lead before each booking starts.
type ReminderScheduler struct {
	client Enqueuer
	lead   time.Duration
	now    func() time.Time
}

func NewReminderScheduler(client Enqueuer, lead time.Duration) *ReminderScheduler {
	return &ReminderScheduler{client: client, lead: lead, now: time.Now}
}

// ScheduleReminder queues the reminder. Bookings starting sooner than the lead
// time get their reminder right away.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	fireAt := b.StartsAt.Add(-s.lead)
	if now := s.now(); fireAt.Before(now) {
		fireAt = now
	}
	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID: b.ID,
		ShopID:    b.ShopID,
		Name:      b.Customer.Name,
		Phone:     b.Customer.Phone,
		StartsAt:  b.StartsAt.Format(time.RFC3339),
		Language:  b.Language,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
