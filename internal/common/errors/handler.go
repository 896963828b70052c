// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the error handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports a failed job to Zeebe, either as a failure with
// remaining retries or as a BPMN error caught by the process model.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Outcome is the decision taken for a failed job.
type Outcome struct {
	Standard *StandardError
	BPMN     *BPMNError
	// Retries is the retry count handed back to Zeebe; zero means the error is thrown.
	Retries int
}

// Throw reports whether the error ends the job with a BPMN error.
func (o Outcome) Throw() bool {
	return o.Retries == 0
}

// Resolve decides how a job that failed with err and has jobRetries remaining is reported.
func Resolve(err error, jobRetries int32) Outcome {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	// Zeebe expects the remaining retries after this attempt.
	retries := bpmnErr.Retries
	if remaining := int(jobRetries) - 1; remaining < retries {
		retries = remaining
	}
	if retries < 0 {
		retries = 0
	}
	return Outcome{Standard: stdErr, BPMN: bpmnErr, Retries: retries}
}

// Normalize returns the StandardError carried by err, mapping context errors
// to a retryable timeout and anything else to INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("job", err)
	}
	return NewInternalError(err)
}

// HandleJobError reports err for job through client.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	outcome := Resolve(err, job.Retries)
	h.logError(job, outcome)

	if outcome.Throw() {
		h.throwBPMNError(ctx, client, job, outcome.BPMN)
		return
	}
	h.failJobWithRetries(ctx, client, job, outcome.BPMN, outcome.Retries)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := withVars.Send(ctx); err != nil {
				h.logSendFailure(job, "fail job", err)
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "fail job", err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := withVars.Send(ctx); err != nil {
				h.logSendFailure(job, "throw error", err)
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "throw error", err)
	}
}

func (h *ErrorHandler) logSendFailure(job entities.Job, command string, err error) {
	h.logger.Error("failed to send "+command+" command", map[string]interface{}{
		"jobKey": job.Key,
		"error":  err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, outcome Outcome) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(outcome.Standard.Code),
		"bpmnErrorCode":    outcome.BPMN.Code,
		"message":          outcome.BPMN.Message,
		"details":          outcome.Standard.Details,
		"retryable":        outcome.Standard.Retryable,
		"retries":          outcome.Retries,
		"errorCategory":    GetErrorCategory(outcome.Standard.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
