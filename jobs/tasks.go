package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskTypeSendEmail sends a transactional email.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeQuotationExpire sweeps SENT quotations past their validity date.
	TaskTypeQuotationExpire = "quotation:expire"
	// TaskTypeFollowUpRemind mails reminders for follow-ups that are due.
	TaskTypeFollowUpRemind = "followup:remind"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs a mail:send task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewQuotationExpireTask constructs the expiry sweep task. It carries no
// payload; the handler works off the current time.
func NewQuotationExpireTask() *asynq.Task {
	return asynq.NewTask(TaskTypeQuotationExpire, nil)
}

// NewFollowUpRemindTask constructs the follow-up reminder task.
func NewFollowUpRemindTask() *asynq.Task {
	return asynq.NewTask(TaskTypeFollowUpRemind, nil)
}
