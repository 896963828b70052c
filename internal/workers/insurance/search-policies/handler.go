package searchpolicies

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
	"insurance-workers/internal/policy"
	"insurance-workers/internal/search"
)

const TaskType = "search-policies"

// Searcher is satisfied by *search.Client.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	config     *Config
	searcher   Searcher
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		searcher:   searcher,
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
	h.logger.Info("search completed", map[string]interface{}{
		"jobKey": job.Key,
		"hits":   len(output.Policies),
		"total":  output.Total,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}
	if input.From < 0 || input.Size < 0 {
		return nil, errors.NewInvalidInputError("from and size must not be negative")
	}

	category := models.Category(strings.TrimSpace(input.Category))
	if category != "" && !policy.ValidCategory(category) {
		return nil, errors.NewInvalidCriteriaError("category", string(category))
	}

	result, err := h.searcher.Search(ctx, search.Query{
		Keywords: input.Keywords,
		Category: category,
		From:     input.From,
		Size:     input.Size,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.NewSearchTimeoutError(h.config.Index)
		case stderrors.Is(err, search.ErrIndexNotFound):
			return nil, errors.NewIndexNotFoundError(h.config.Index)
		default:
			return nil, errors.NewSearchQueryFailedError(h.config.Index, err)
		}
	}

	policies := result.Policies
	if policies == nil {
		policies = []models.PolicyRecord{}
	}
	return &Output{
		Policies: policies,
		Total:    result.Total,
		TookMs:   result.Took,
	}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
