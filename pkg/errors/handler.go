package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Fields    map[string][]string    `json:"fields,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger        *zap.Logger
	debug         bool
	defaultStatus int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger:        logger,
		debug:         debug,
		defaultStatus: http.StatusInternalServerError,
	}
}

// Resolve maps an error to its HTTP status and response body without writing anything.
func (h *ErrorHandler) Resolve(err error) (int, ErrorResponse) {
	var verrs *ValidationErrors
	if errors.As(err, &verrs) && verrs.HasErrors() {
		resp := ErrorResponse{
			Error:   true,
			Type:    string(DomainValidationError),
			Code:    "VALIDATION_FAILED",
			Message: verrs.Error(),
			Fields:  verrs.ToMap(),
		}
		if len(verrs.Errors) == 1 {
			resp.Code = verrs.Errors[0].Code
			resp.Message = verrs.Errors[0].Message
			resp.Details = verrs.Errors[0].Details
		}
		return http.StatusBadRequest, resp
	}

	if domainErr := AsDomainError(err); domainErr != nil {
		status := domainErr.StatusCode
		if status == 0 {
			status = h.defaultStatus
		}
		return status, ErrorResponse{
			Error:     true,
			Type:      string(domainErr.Type),
			Code:      domainErr.Code,
			Message:   domainErr.Message,
			Details:   domainErr.Details,
			Retryable: domainErr.Retryable,
		}
	}

	if appErr := GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = h.defaultStatus
		}
		resp := ErrorResponse{
			Error:   true,
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		}
		if h.debug && appErr.StackTrace != "" {
			details := make(map[string]interface{}, len(appErr.Details)+1)
			for k, v := range appErr.Details {
				details[k] = v
			}
			details["stack_trace"] = appErr.StackTrace
			resp.Details = details
		}
		return status, resp
	}

	resp := ErrorResponse{
		Error:   true,
		Type:    string(ErrorTypeInternal),
		Message: "An internal error occurred",
	}
	if h.debug {
		resp.Message = err.Error()
	}
	return h.defaultStatus, resp
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status, response := h.Resolve(err)
	response.RequestID = r.Header.Get("X-Request-ID")

	h.logError(r, err, status, response)
	h.sendJSON(w, status, response)
}

// HandleStatus sends an error response with a specific status code
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := ErrorResponse{
		Error:     true,
		Type:      h.statusToErrorType(status),
		Message:   message,
		RequestID: r.Header.Get("X-Request-ID"),
	}

	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	h.sendJSON(w, status, response)
}

// logError logs an error with a level matching its status
func (h *ErrorHandler) logError(r *http.Request, err error, status int, resp ErrorResponse) {
	fields := []zap.Field{
		zap.String("error_type", resp.Type),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", resp.RequestID),
		zap.Error(err),
	}

	if resp.Code != "" {
		fields = append(fields, zap.String("error_code", resp.Code))
	}

	switch {
	case status >= 500:
		h.logger.Error(resp.Message, fields...)
	case status >= 400:
		h.logger.Warn(resp.Message, fields...)
	default:
		h.logger.Info(resp.Message, fields...)
	}
}

// sendJSON sends a JSON response
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(err),
			zap.Any("data", data),
		)
	}
}

// statusToErrorType maps HTTP status to error type
func (h *ErrorHandler) statusToErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(ErrorTypeValidation)
	case http.StatusNotFound:
		return string(ErrorTypeNotFound)
	case http.StatusConflict:
		return string(ErrorTypeConflict)
	case http.StatusGatewayTimeout:
		return string(ErrorTypeTimeout)
	case http.StatusServiceUnavailable:
		return string(ErrorTypeUnavailable)
	case http.StatusBadGateway:
		return string(ErrorTypeExternal)
	default:
		return string(ErrorTypeInternal)
	}
}

// Middleware returns an HTTP middleware that converts panics into error responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := NewInternalError(fmt.Sprintf("panic: %v", rec))
				h.Handle(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
