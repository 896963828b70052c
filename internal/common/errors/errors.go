// Package errors provides the standard error model shared by the insurance
// workers and its mapping onto BPMN errors.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is a stable, machine readable error identifier.
type ErrorCode string

const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidCriteria ErrorCode = "INVALID_CRITERIA"

	ErrCodeCatalogUnavailable          ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodePolicyNotFound              ErrorCode = "POLICY_NOT_FOUND"
	ErrCodeComparisonSelectionInvalid  ErrorCode = "COMPARISON_SELECTION_INVALID"
	ErrCodeCompanyNotFound             ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeRecommendationBudgetInvalid ErrorCode = "RECOMMENDATION_BUDGET_INVALID"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired       ErrorCode = "SESSION_EXPIRED"
	ErrCodeSessionStoreFailed   ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeNotificationSendFailed      ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationChannelDisabled ErrorCode = "NOTIFICATION_CHANNEL_DISABLED"

	ErrCodeTimeout  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair that is forwarded to the process as an error variable.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables sent along with a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job variables failed validation", details, false, nil)
}

// NewInvalidCriteriaError reports a filter answer outside the allowed values.
func NewInvalidCriteriaError(field, value string) *StandardError {
	return newError(ErrCodeInvalidCriteria, "Invalid filter criteria",
		fmt.Sprintf("%s: %q is not an accepted value", field, value), false, nil).
		WithMetadata("field", field)
}

// NewRecommendationBudgetInvalidError reports a budget answer with no digits in it.
func NewRecommendationBudgetInvalidError(budget string) *StandardError {
	return newError(ErrCodeRecommendationBudgetInvalid, "Budget is not an amount",
		fmt.Sprintf("budget: %q", budget), false, nil).
		WithMetadata("field", "budget")
}

func NewCatalogUnavailableError(err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Policy catalog is unavailable", err.Error(), true, err)
}

func NewPolicyNotFoundError(names []string) *StandardError {
	return newError(ErrCodePolicyNotFound, "Policy not found in catalog",
		strings.Join(names, ", "), false, nil).
		WithMetadata("missingPolicies", names)
}

func NewComparisonSelectionInvalidError(err error) *StandardError {
	return newError(ErrCodeComparisonSelectionInvalid, "Invalid comparison selection", err.Error(), false, err)
}

func NewCompanyNotFoundError(company string) *StandardError {
	return newError(ErrCodeCompanyNotFound, "No financial analysis for company",
		fmt.Sprintf("company: %s", company), false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Failed to connect to PostgreSQL", err.Error(), true, err)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Query execution failed",
		fmt.Sprintf("queryType: %s, error: %v", queryType, err), true, err)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Query timed out", fmt.Sprintf("queryType: %s", queryType), true, nil)
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return newError(ErrCodeInvalidQueryType, "Query type not registered", fmt.Sprintf("queryType: %s", queryType), false, nil)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Failed to connect to Elasticsearch", err.Error(), true, err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search query failed",
		fmt.Sprintf("index: %s, error: %v", index, err), true, err)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Search timed out", fmt.Sprintf("index: %s", index), true, nil)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Search index not found", fmt.Sprintf("index: %s", index), false, nil)
}

func NewAuthenticationFailedError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Authentication failed", details, false, nil)
}

func NewSessionNotFoundError(token string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found", "", false, nil).WithMetadata("token", token)
}

func NewSessionExpiredError(token string) *StandardError {
	return newError(ErrCodeSessionExpired, "Session has expired", "", false, nil).WithMetadata("token", token)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error", err.Error(), true, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), err.Error(), true, err)
}

func NewNotificationChannelDisabledError(channel string) *StandardError {
	return newError(ErrCodeNotificationChannelDisabled, "Notification channel is disabled",
		fmt.Sprintf("channel: %s", channel), false, nil)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by boundary
// events in the process models. Codes absent from the map are thrown as-is.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeInvalidCriteria:               "INVALID_CRITERIA",
	ErrCodeRecommendationBudgetInvalid:   "INVALID_CRITERIA",
	ErrCodeCatalogUnavailable:            "CATALOG_UNAVAILABLE",
	ErrCodePolicyNotFound:                "POLICY_NOT_FOUND",
	ErrCodeComparisonSelectionInvalid:    "COMPARISON_SELECTION_INVALID",
	ErrCodeCompanyNotFound:               "COMPANY_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed:      "CATALOG_UNAVAILABLE",
	ErrCodeQueryExecutionFailed:          "CATALOG_UNAVAILABLE",
	ErrCodeQueryTimeout:                  "CATALOG_UNAVAILABLE",
	ErrCodeInvalidQueryType:              "INVALID_QUERY_TYPE",
	ErrCodeElasticsearchConnectionFailed: "SEARCH_UNAVAILABLE",
	ErrCodeSearchQueryFailed:             "SEARCH_UNAVAILABLE",
	ErrCodeSearchTimeout:                 "SEARCH_UNAVAILABLE",
	ErrCodeIndexNotFound:                 "SEARCH_UNAVAILABLE",
	ErrCodeAuthenticationFailed:          "AUTHENTICATION_FAILED",
	ErrCodeSessionNotFound:               "SESSION_INVALID",
	ErrCodeSessionExpired:                "SESSION_INVALID",
	ErrCodeSessionStoreFailed:            "SESSION_STORE_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
	ErrCodeNotificationChannelDisabled:   "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns how many times a job failing with code should be retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SESSION") || strings.HasPrefix(codeStr, "AUTHENTICATION"):
		return "SESSION"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "POLICY") ||
		strings.Contains(codeStr, "COMPARISON") || strings.Contains(codeStr, "COMPANY") ||
		strings.Contains(codeStr, "RECOMMENDATION"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
