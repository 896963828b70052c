// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"insurance-workers/internal/common/config"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
)

// JobHandler is the Zeebe handler signature every task handler implements.
type JobHandler func(client worker.JobClient, job entities.Job)

// Validator checks job variables before a handler sees them.
type Validator interface {
	Validate(taskType string, variables map[string]interface{}) error
}

// WithValidation rejects jobs whose variables fail the task's input schema.
// Rejected jobs are reported through errHandler and never reach next.
func WithValidation(taskType string, v Validator, errHandler *errors.ErrorHandler, next JobHandler) JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		vars, err := job.GetVariablesAsMap()
		if err != nil {
			err = errors.NewInvalidInputError("job variables are not a JSON object: " + err.Error())
		} else {
			err = v.Validate(taskType, vars)
		}
		if err != nil {
			metrics.WorkerJobsFailed.WithLabelValues(taskType, string(errors.ErrCodeInvalidInput)).Inc()
			errHandler.HandleJobError(context.Background(), client, job, err)
			return
		}
		next(client, job)
	}
}

// StartWorker opens a job worker for taskType. Disabled workers return nil.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}
