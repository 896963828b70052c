package managesession

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
	"insurance-workers/internal/session"
)

const TaskType = "manage-session"

type Handler struct {
	config     *Config
	sessions   session.Repository
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, sessions session.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sessions:   sessions,
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
	h.logger.Info("session action completed", map[string]interface{}{
		"jobKey": job.Key,
		"action": input.Action,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	switch input.Action {
	case ActionLogin:
		s, err := session.Login(ctx, h.sessions, session.Credentials{
			Email:    input.Email,
			Password: input.Password,
			Name:     input.Name,
		})
		if err != nil {
			if stderrors.Is(err, session.ErrInvalidCredentials) {
				return nil, errors.NewAuthenticationFailedError(err.Error())
			}
			return nil, errors.NewSessionStoreFailedError(err)
		}
		return &Output{Session: s, Authenticated: true}, nil

	case ActionGet:
		token := strings.TrimSpace(input.Token)
		if token == "" {
			return nil, errors.NewInvalidInputError("token is required")
		}
		s, err := h.sessions.Get(ctx, token)
		if err != nil {
			if stderrors.Is(err, session.ErrNotFound) {
				return nil, errors.NewSessionNotFoundError(token)
			}
			return nil, errors.NewSessionStoreFailedError(err)
		}
		return &Output{Session: s, Authenticated: true}, nil

	case ActionLogout:
		token := strings.TrimSpace(input.Token)
		if token == "" {
			return nil, errors.NewInvalidInputError("token is required")
		}
		if err := h.sessions.Delete(ctx, token); err != nil {
			return nil, errors.NewSessionStoreFailedError(err)
		}
		return &Output{Authenticated: false}, nil
	}

	return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown action %q", input.Action))
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
