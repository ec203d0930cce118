package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates input validation failure
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a business rule violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainNotFoundError indicates a resource was not found
	DomainNotFoundError DomainErrorType = "NOT_FOUND"

	// DomainConflictError indicates a conflict with existing state
	DomainConflictError DomainErrorType = "CONFLICT"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type       DomainErrorType        `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		StatusCode: domainErrorTypeToStatusCode(errorType),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRetryable sets whether the error is retryable
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	e.Retryable = retryable
	return e
}

// Is matches on type and code so fresh instances compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// clone copies the sentinel so details are never written to the shared value.
func (e *DomainError) clone() *DomainError {
	c := *e
	c.Details = make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		c.Details[k] = v
	}
	return &c
}

func domainErrorTypeToStatusCode(errorType DomainErrorType) int {
	switch errorType {
	case DomainValidationError:
		return 400
	case DomainBusinessRuleError:
		return 422
	case DomainNotFoundError:
		return 404
	case DomainConflictError:
		return 409
	default:
		return 500
	}
}

// Sentinels for errors.Is checks. Use the constructors below to build
// instances that carry details.
var (
	ErrIndexOutOfRange = NewDomainError(
		DomainValidationError,
		"INDEX_OUT_OF_RANGE",
		"index is out of range",
	)

	ErrRequiredField = NewDomainError(
		DomainValidationError,
		"FIELD_REQUIRED",
		"field is required",
	)

	ErrDuplicateCode = NewDomainError(
		DomainValidationError,
		"DUPLICATE_CODE",
		"code already exists",
	)

	ErrLimitExceeded = NewDomainError(
		DomainValidationError,
		"LIMIT_EXCEEDED",
		"maximum number of entries reached",
	)

	ErrSelfAssociation = NewDomainError(
		DomainValidationError,
		"SELF_ASSOCIATION",
		"a term cannot be associated with a term of its own category",
	)

	ErrNoCandidates = NewDomainError(
		DomainBusinessRuleError,
		"NO_CANDIDATES",
		"no terms in other categories to associate with",
	)

	ErrNoSourceSelected = NewDomainError(
		DomainValidationError,
		"NO_SOURCE_SELECTED",
		"select a category and term",
	)

	ErrUnknownCandidate = NewDomainError(
		DomainValidationError,
		"UNKNOWN_CANDIDATE",
		"term is not an association candidate",
	)

	ErrChannelCodeRequired = NewDomainError(
		DomainValidationError,
		"CHANNEL_CODE_REQUIRED",
		"channel code is required before continuing",
	)

	ErrStepOutOfBounds = NewDomainError(
		DomainBusinessRuleError,
		"STEP_OUT_OF_BOUNDS",
		"wizard cannot move past its first or last step",
	)

	ErrFrameworkNotCreated = NewDomainError(
		DomainBusinessRuleError,
		"FRAMEWORK_NOT_CREATED",
		"framework has not been created yet",
	)

	ErrDefaultCategoryUnknown = NewDomainError(
		DomainNotFoundError,
		"DEFAULT_CATEGORY_NOT_FOUND",
		"no default category with this code",
	)

	ErrSessionNotFound = NewDomainError(
		DomainNotFoundError,
		"SESSION_NOT_FOUND",
		"wizard session does not exist",
	)

	ErrSessionBusy = NewDomainError(
		DomainConflictError,
		"SESSION_BUSY",
		"a submission is already in progress for this session",
	).WithRetryable(true)
)

// IndexOutOfRange reports an index outside [0, length).
func IndexOutOfRange(what string, index, length int) *DomainError {
	return ErrIndexOutOfRange.clone().
		WithDetail("field", what).
		WithDetail("index", index).
		WithDetail("length", length)
}

// RequiredField reports a blank mandatory field.
func RequiredField(field string) *DomainError {
	e := ErrRequiredField.clone().WithDetail("field", field)
	e.Message = fmt.Sprintf("%s is required", field)
	return e
}

// DuplicateCode reports a code already present in its scope.
func DuplicateCode(scope, code string) *DomainError {
	e := ErrDuplicateCode.clone().
		WithDetail("field", "code").
		WithDetail("scope", scope).
		WithDetail("code", code)
	e.Message = fmt.Sprintf("%s code %q already exists", scope, code)
	return e
}

// LimitExceeded reports a collection that reached its configured size.
func LimitExceeded(scope string, limit int) *DomainError {
	return ErrLimitExceeded.clone().
		WithDetail("scope", scope).
		WithDetail("limit", limit)
}

// SelfAssociation reports an association pointing back into the source category.
func SelfAssociation(categoryCode string) *DomainError {
	return ErrSelfAssociation.clone().WithDetail("category", categoryCode)
}

// UnknownCandidate reports a toggle key outside the candidate set.
func UnknownCandidate(categoryCode, termCode string) *DomainError {
	return ErrUnknownCandidate.clone().
		WithDetail("category", categoryCode).
		WithDetail("code", termCode)
}

// DefaultCategoryNotFound reports a quick-add code with no template
func DefaultCategoryNotFound(code string) *DomainError {
	return ErrDefaultCategoryUnknown.clone().WithDetail("code", code)
}

// SessionNotFound reports a missing or expired wizard session.
func SessionNotFound(id string) *DomainError {
	return ErrSessionNotFound.clone().WithDetail("session_id", id)
}

// SessionBusy reports a session with an outstanding submission.
func SessionBusy(id string) *DomainError {
	return ErrSessionBusy.clone().WithDetail("session_id", id)
}

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainType checks if an error chain holds a DomainError of the given type
func IsDomainType(err error, errType DomainErrorType) bool {
	if d := AsDomainError(err); d != nil {
		return d.Type == errType
	}
	var verrs *ValidationErrors
	return errType == DomainValidationError && errors.As(err, &verrs)
}

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// Add adds a validation error
func (v *ValidationErrors) Add(field string, message string) {
	err := NewDomainError(DomainValidationError, "FIELD_VALIDATION_ERROR", message).
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ErrOrNil returns the collection as an error, or nil when it is empty.
func (v *ValidationErrors) ErrOrNil() error {
	if v == nil || !v.HasErrors() {
		return nil
	}
	return v
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v *ValidationErrors) Unwrap() []error {
	out := make([]error, len(v.Errors))
	for i, err := range v.Errors {
		out[i] = err
	}
	return out
}

// ToMap converts validation errors to a map for JSON serialization
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}
