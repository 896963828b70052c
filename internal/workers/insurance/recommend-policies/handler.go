package recommendpolicies

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insurance-workers/internal/catalog"
	"insurance-workers/internal/common/camunda"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
	"insurance-workers/internal/models"
	"insurance-workers/internal/policy"
)

const TaskType = "recommend-policies"

type Handler struct {
	config     *Config
	catalog    catalog.Repository
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, repo catalog.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    repo,
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
	h.logger.Info("recommendations ready", map[string]interface{}{
		"jobKey":      job.Key,
		"count":       output.Count,
		"catalogSize": output.CatalogSize,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	policies := input.Catalog
	if len(policies) == 0 {
		var err error
		policies, err = h.loadCatalog(ctx)
		if err != nil {
			return nil, err
		}
	}

	recommended := policy.RecommendWith(policies, input.Criteria, policy.Options{
		Limit:       h.config.MaxResults,
		BudgetSlack: h.config.BudgetSlack,
	})
	if recommended == nil {
		recommended = []models.PolicyRecord{}
	}
	metrics.RecommendationsReturned.Observe(float64(len(recommended)))

	return &Output{
		Recommendations: recommended,
		Count:           len(recommended),
		AppliedFilters:  policy.AppliedFilters(input.Criteria),
		CatalogSize:     len(policies),
	}, nil
}

func (h *Handler) loadCatalog(ctx context.Context) ([]models.PolicyRecord, error) {
	if h.catalog == nil {
		return nil, errors.NewCatalogUnavailableError(stderrors.New("no catalog repository configured"))
	}
	policies, err := h.catalog.ListPolicies(ctx)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("catalog", err)
		}
		return nil, errors.NewCatalogUnavailableError(err)
	}
	return policies, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
