package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barberbook/models"
	"barberbook/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to the customer. Delivery channels live outside
// this service.
type Notifier interface {
	SendReminder(ctx context.Context, p models.ReminderPayload) error
}

// LogNotifier records reminders in the log instead of sending them.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) SendReminder(_ context.Context, p models.ReminderPayload) error {
	n.Logger.Info("reminder due",
		zap.String("bookingID", p.BookingID),
		zap.String("shopID", p.ShopID),
		zap.String("phone", p.Phone),
		zap.String("startsAt", p.StartsAt),
		zap.String("language", string(p.Language)),
	)
	return nil
}

// redisPingInterval is how often the queue's Redis is checked.
var redisPingInterval = 10 * time.Second

// InitReminderWorker runs the async worker in background and returns the server so
// the caller can shut it down. Background loops stop when ctx is done.
func InitReminderWorker(ctx context.Context, redisOpts asynq.RedisClientOpt, notifier Notifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(notifier, logger))

	go monitorRedisConnection(ctx, redisOpts, logger)

	go func() {
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("reminder worker: giving up")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleReminderTask decodes a reminder task and hands it to the notifier.
func HandleReminderTask(notifier Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder task: invalid payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := notifier.SendReminder(ctx, p); err != nil {
			logger.Error("reminder task: delivery failed", zap.String("bookingID", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue's Redis periodically to surface outages
// until ctx is done.
func monitorRedisConnection(ctx context.Context, opts asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(redisPingInterval)
	defer ticker.Stop()
	for {
		if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
			logger.Warn("reminder worker: redis connection lost", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
