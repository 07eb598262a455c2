package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
)

// QuotationExpirer marks stale SENT quotations EXPIRED.
type QuotationExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

// FollowUpSource lists follow-ups whose reminder date has passed.
type FollowUpSource interface {
	DueFollowUps(ctx context.Context) ([]customers.FollowUp, error)
}

// NewSendEmailHandler processes mail:send tasks. Delivery is logged only;
// SMTP integration hangs off this handler.
func NewSendEmailHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("send email",
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject))
		return nil
	}
}

// NewQuotationExpireHandler sweeps quotations past their validity date.
func NewQuotationExpireHandler(expirer QuotationExpirer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		count, err := expirer.ExpireStale(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("expire quotations: %w", err)
		}
		if count > 0 {
			logger.Info("quotations expired", slog.Int("count", count))
		}
		return nil
	}
}

// NewFollowUpRemindHandler queues a reminder email for every due follow-up
// whose customer has an email address.
func NewFollowUpRemindHandler(source FollowUpSource, customerRepo customers.Repository, client *Client, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		due, err := source.DueFollowUps(ctx)
		if err != nil {
			return fmt.Errorf("list due follow-ups: %w", err)
		}
		for _, fu := range due {
			customer, err := customerRepo.Get(ctx, fu.CustomerID)
			if err != nil {
				logger.Warn("follow-up reminder skipped",
					slog.Int64("follow_up_id", fu.ID), slog.Any("error", err))
				continue
			}
			if customer.Email == nil {
				continue
			}
			_, err = client.EnqueueSendEmail(ctx, SendEmailPayload{
				To:      *customer.Email,
				Subject: fmt.Sprintf("Follow-up due: %s", customer.Name),
				Body:    fu.Notes,
			})
			if err != nil {
				return fmt.Errorf("enqueue reminder: %w", err)
			}
		}
		return nil
	}
}
