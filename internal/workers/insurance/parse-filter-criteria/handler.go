package parsefiltercriteria

import (
	"context"
	"encoding/json"
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
)

const TaskType = "parse-filter-criteria"

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
	h.logger.Info("criteria parsed", map[string]interface{}{
		"jobKey":         job.Key,
		"appliedFilters": output.AppliedFilters,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	criteria := models.FilterCriteria{
		Category: models.Category(strings.TrimSpace(input.Category)),
		AgeRange: strings.TrimSpace(input.AgeRange),
		Gender:   strings.TrimSpace(input.Gender),
		Budget:   strings.TrimSpace(input.Budget),
	}

	if criteria.Category != "" && !policy.ValidCategory(criteria.Category) {
		return nil, errors.NewInvalidCriteriaError("category", string(criteria.Category))
	}
	if criteria.AgeRange != "" && !policy.ValidAgeRange(criteria.AgeRange) {
		return nil, errors.NewInvalidCriteriaError("ageRange", criteria.AgeRange)
	}
	if criteria.Gender != "" && !policy.ValidGender(criteria.Gender) {
		return nil, errors.NewInvalidCriteriaError("gender", criteria.Gender)
	}

	history := make([]string, 0, len(input.MedicalHistory))
	for _, c := range input.MedicalHistory {
		history = append(history, strings.TrimSpace(c))
	}
	if h := policy.NormalizeHistory(history); len(h) > 0 {
		criteria.MedicalHistory = h
	}

	output := &Output{
		Criteria:       criteria,
		AppliedFilters: policy.AppliedFilters(criteria),
	}

	if criteria.Budget != "" {
		if !strings.ContainsAny(criteria.Budget, "0123456789") {
			return nil, errors.NewRecommendationBudgetInvalidError(criteria.Budget)
		}
		output.BudgetAmount = policy.ParseAmount(criteria.Budget)
		ceiling := policy.BudgetCeiling(output.BudgetAmount, h.config.BudgetSlack)
		output.BudgetCeiling = policy.FormatRupees(ceiling.Floor().IntPart())
	}

	return output, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
