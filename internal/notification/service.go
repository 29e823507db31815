package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"coopfund/internal/logger"
	"coopfund/internal/metrics"
)

const (
	queueKey   = "notifications"
	maxTries   = 3
	retryDelay = 5 * time.Second
)

// Notifier is the sink the rest of the system talks to. Delivery is
// best-effort: callers log failures but never roll back on them.
type Notifier interface {
	Notify(ctx context.Context, memberID int, title, message string) error
}

// Service queues notifications on a Redis list and drains them into the
// notifications table from a background worker.
type Service struct {
	redis *redis.Client
	repo  Repository
}

func New(redisAddr string, repo Repository) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		repo: repo,
	}
}

func (s *Service) Notify(ctx context.Context, memberID int, title, message string) error {
	j := job{
		MemberID: memberID,
		Title:    title,
		Message:  message,
		Tries:    0,
		Created:  time.Now(),
	}

	data, err := json.Marshal(j)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification for member %d: %v", memberID, err)
		metrics.RecordNotification("queue_failed")
		return err
	}

	metrics.RecordNotification("queued")
	logger.Infof("Notification queued: %q for member %d", title, memberID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	if length, err := s.redis.LLen(ctx, queueKey).Result(); err == nil {
		metrics.NotificationQueueLength.Set(float64(length))
	}

	var j job
	if err := json.Unmarshal([]byte(result[1]), &j); err != nil {
		logger.Errorf("Bad notification payload: %v", err)
		return
	}

	j.Tries++
	if _, err := s.repo.Insert(ctx, j.MemberID, j.Title, j.Message); err != nil {
		logger.Errorf("Failed to persist notification for member %d: %v", j.MemberID, err)

		if j.Tries < maxTries {
			time.Sleep(retryDelay)
			data, _ := json.Marshal(j)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification for member %d (attempt %d)", j.MemberID, j.Tries+1)
		} else {
			metrics.RecordNotification("dropped")
			logger.Errorf("Notification for member %d dropped after %d attempts", j.MemberID, maxTries)
		}
		return
	}

	metrics.RecordNotification("delivered")
}

func (s *Service) Close() error {
	return s.redis.Close()
}
