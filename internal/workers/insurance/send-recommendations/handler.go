package sendrecommendations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insurance-workers/internal/common/camunda"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
	"insurance-workers/internal/models"
	"insurance-workers/internal/notification"
)

const TaskType = "send-recommendations"

// Sender is satisfied by *notification.Sender.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) (*models.Notification, error)
}

type Handler struct {
	config     *Config
	sender     Sender
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, sender Sender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sender:     sender,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := metrics.StartJob(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, timer, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, timer, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		timer.Failed(string(errors.ErrCodeInternal))
		return
	}
	timer.Completed()
	h.logger.Info("recommendations sent", map[string]interface{}{
		"jobKey":         job.Key,
		"notificationId": output.NotificationID,
		"channel":        input.Channel,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	n, err := h.sender.Send(ctx, notification.Message{
		Channel:   channel,
		Recipient: strings.TrimSpace(input.Recipient),
		Name:      input.Name,
		Policies:  input.Policies,
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(channel, "failed").Inc()
		switch {
		case stderrors.Is(err, notification.ErrChannelDisabled):
			return nil, errors.NewNotificationChannelDisabledError(channel)
		case stderrors.Is(err, notification.ErrInvalidRecipient),
			stderrors.Is(err, notification.ErrUnsupportedChannel),
			stderrors.Is(err, notification.ErrNothingToSend):
			return nil, errors.NewInvalidInputError(err.Error())
		default:
			return nil, errors.NewNotificationSendFailedError(channel, err)
		}
	}
	metrics.NotificationsSent.WithLabelValues(channel, n.Status).Inc()

	return &Output{
		NotificationID: n.ID,
		Status:         n.Status,
		SentAt:         n.SentAt,
	}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
