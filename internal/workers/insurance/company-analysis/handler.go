package companyanalysis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"insurance-workers/internal/catalog"
	"insurance-workers/internal/common/camunda"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
)

const TaskType = "company-analysis"

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
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}
	company := strings.TrimSpace(input.Company)
	if company == "" {
		return nil, errors.NewInvalidInputError("company is required")
	}

	fin, err := h.catalog.CompanyFinancials(ctx, company)
	if err != nil {
		switch {
		case stderrors.Is(err, catalog.ErrCompanyNotFound):
			return nil, errors.NewCompanyNotFoundError(company)
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.NewTimeoutError("catalog", err)
		default:
			return nil, errors.NewCatalogUnavailableError(err)
		}
	}

	return &Output{
		Financials:           *fin,
		ClaimSettlementGrade: ClaimSettlementGrade(fin.ClaimSettlementRatio),
	}, nil
}

// ClaimSettlementGrade buckets a claim settlement ratio (percent).
func ClaimSettlementGrade(ratio float64) string {
	switch {
	case ratio >= 95:
		return GradeExcellent
	case ratio >= 90:
		return GradeGood
	default:
		return GradeAverage
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
