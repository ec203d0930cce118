// Package taxonomy is the HTTP client for the external taxonomy service.
package taxonomy

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taxonomy-console/domain/core/entities"
	"taxonomy-console/pkg/errors"
)

const serviceName = "taxonomy"

// Endpoint paths relative to the base URL
const (
	pathCompositeSearch = "/action/composite/v3/search"
	pathFrameworkRead   = "/api/framework/v1/read/"
	pathFrameworkCreate = "/api/framework/v1/create"
	pathCategoryCreate  = "/api/framework/v1/category/create"
	pathPublish         = "/api/framework/v1/publish"
	pathChannelCreate   = "/api/channel/v1/create"
)

// Object types understood by composite search
const (
	ObjectTypeFramework = "Framework"
	ObjectTypeChannel   = "Channel"
)

// CallRecorder receives the outcome of every remote call
type CallRecorder interface {
	RecordRemoteCall(operation, outcome string, duration time.Duration)
}

// Config holds the connection settings for the taxonomy service
type Config struct {
	BaseURL   string
	TenantID  string
	AuthToken string
	Cookie    string
	Timeout   time.Duration
	Breaker   BreakerConfig
}

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// trip once this share of at least MinRequests calls failed
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             serviceName,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client talks to the taxonomy service. Every call goes through one circuit
// breaker; 5xx responses and transport failures count against it.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	tracer     trace.Tracer
	recorder   CallRecorder
	logger     *zap.Logger
}

// NewClient creates a taxonomy client. recorder may be nil.
func NewClient(cfg Config, recorder CallRecorder, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid taxonomy base URL %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg = DefaultBreakerConfig()
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	if cfg.TenantID != "" {
		headers.Set("tenantId", cfg.TenantID)
	}
	if cfg.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+cfg.AuthToken)
	}
	if cfg.Cookie != "" {
		headers.Set("Cookie", cfg.Cookie)
	}

	c := &Client{
		baseURL:    base,
		headers:    headers,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     otel.Tracer("taxonomy-console/taxonomy"),
		recorder:   recorder,
		logger:     logger,
	}
	c.breaker = newBreaker(breakerCfg, logger)
	return c, nil
}

func newBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// 4xx answers mean the service is up
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *statusError
			return stderrors.As(err, &se) && se.status < 500
		},
	})
}

// envelope is the response wrapper every endpoint uses
type envelope struct {
	ID           string          `json:"id"`
	Ver          string          `json:"ver"`
	ResponseCode string          `json:"responseCode"`
	Params       responseParams  `json:"params"`
	Result       json.RawMessage `json:"result"`
}

type responseParams struct {
	Status string `json:"status"`
	Err    string `json:"err"`
	ErrMsg string `json:"errmsg"`
}

type request struct {
	Request interface{} `json:"request"`
}

type searchFilters struct {
	Status     []string `json:"status"`
	ObjectType string   `json:"objectType"`
}

type searchRequest struct {
	Filters searchFilters `json:"filters"`
}

type createResult struct {
	NodeID     string `json:"node_id"`
	Identifier string `json:"identifier"`
	VersionKey string `json:"versionKey"`
}

func (r createResult) id() string {
	if r.NodeID != "" {
		return r.NodeID
	}
	return r.Identifier
}

// statusError is a non-2xx answer from the service
type statusError struct {
	status  int
	code    string
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.status, e.message)
	}
	return fmt.Sprintf("HTTP %d", e.status)
}

// SearchFrameworks runs a composite search for frameworks
func (c *Client) SearchFrameworks(ctx context.Context, statuses []string) ([]entities.FrameworkRecord, error) {
	var result struct {
		Framework []entities.FrameworkRecord `json:"Framework"`
	}
	body := request{Request: searchRequest{Filters: searchFilters{Status: statuses, ObjectType: ObjectTypeFramework}}}
	if err := c.do(ctx, "search_frameworks", http.MethodPost, pathCompositeSearch, nil, body, &result); err != nil {
		return nil, err
	}
	if result.Framework == nil {
		return []entities.FrameworkRecord{}, nil
	}
	return result.Framework, nil
}

// SearchChannels runs a composite search for channels
func (c *Client) SearchChannels(ctx context.Context, statuses []string) ([]entities.ChannelRecord, error) {
	var result struct {
		Channel []entities.ChannelRecord `json:"Channel"`
	}
	body := request{Request: searchRequest{Filters: searchFilters{Status: statuses, ObjectType: ObjectTypeChannel}}}
	if err := c.do(ctx, "search_channels", http.MethodPost, pathCompositeSearch, nil, body, &result); err != nil {
		return nil, err
	}
	if result.Channel == nil {
		return []entities.ChannelRecord{}, nil
	}
	return result.Channel, nil
}

// ReadFramework fetches one framework with its categories and terms
func (c *Client) ReadFramework(ctx context.Context, identifier string) (*entities.FrameworkRecord, error) {
	var result struct {
		Framework *entities.FrameworkRecord `json:"framework"`
	}
	err := c.do(ctx, "read_framework", http.MethodGet, pathFrameworkRead+url.PathEscape(identifier), nil, nil, &result)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("framework").WithDetail("identifier", identifier)
		}
		return nil, err
	}
	if result.Framework == nil {
		return nil, errors.NewNotFoundError("framework").WithDetail("identifier", identifier)
	}
	return result.Framework, nil
}

// CreateFramework creates the framework and returns its identifier
func (c *Client) CreateFramework(ctx context.Context, framework entities.Framework) (string, error) {
	payload := map[string]interface{}{
		"framework": map[string]interface{}{
			"name":        framework.Name,
			"code":        framework.Code,
			"description": framework.Description,
			"channels":    framework.Channels,
		},
	}
	var result createResult
	if err := c.do(ctx, "create_framework", http.MethodPost, pathFrameworkCreate, nil, request{Request: payload}, &result); err != nil {
		return "", err
	}
	return result.id(), nil
}

// CreateCategory creates one category under a framework. The category's
// terms and their associations travel in the same payload.
func (c *Client) CreateCategory(ctx context.Context, frameworkID string, category entities.Category) (string, error) {
	payload := map[string]interface{}{"category": category}
	query := url.Values{"framework": []string{frameworkID}}
	var result createResult
	if err := c.do(ctx, "create_category", http.MethodPost, pathCategoryCreate, query, request{Request: payload}, &result); err != nil {
		return "", err
	}
	return result.id(), nil
}

// PublishFramework publishes a framework
func (c *Client) PublishFramework(ctx context.Context, frameworkID string) error {
	query := url.Values{"framework": []string{frameworkID}}
	return c.do(ctx, "publish_framework", http.MethodPost, pathPublish, query, struct{}{}, nil)
}

// CreateChannel creates a channel and returns its identifier
func (c *Client) CreateChannel(ctx context.Context, channel entities.Channel) (string, error) {
	payload := map[string]interface{}{"channel": channel}
	var result createResult
	if err := c.do(ctx, "create_channel", http.MethodPost, pathChannelCreate, nil, request{Request: payload}, &result); err != nil {
		return "", err
	}
	return result.id(), nil
}

// do sends one request through the breaker and decodes envelope.result into out
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "taxonomy."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("taxonomy.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out)
	})
	duration := time.Since(start)

	err = c.classify(err)
	outcome := "success"
	if err != nil {
		outcome = outcomeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Taxonomy call failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		span.SetStatus(codes.Ok, "")
		c.logger.Debug("Taxonomy call completed",
			zap.String("operation", operation),
			zap.Duration("duration", duration),
		)
	}
	if c.recorder != nil {
		c.recorder.RecordRemoteCall(operation, outcome, duration)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{status: resp.StatusCode}
		if decodeErr == nil {
			se.code = env.Params.Err
			se.message = env.Params.ErrMsg
		}
		return se
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// classify maps transport, breaker and status failures to application errors
func (c *Client) classify(err error) error {
	if err == nil {
		return nil
	}

	var se *statusError
	switch {
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.NewUnavailableError(serviceName).WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError(serviceName + " call").WithCause(err)
	case stderrors.As(err, &se):
		if se.status == http.StatusNotFound {
			return errors.NewNotFoundError("taxonomy resource").WithCause(err)
		}
		appErr := errors.NewExternalError(serviceName, err).WithDetail("status", se.status)
		if se.code != "" {
			appErr = appErr.WithDetail("remote_code", se.code)
		}
		return appErr
	default:
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			if urlErr.Timeout() {
				return errors.NewTimeoutError(serviceName + " call").WithCause(err)
			}
			return errors.NewNetworkError("taxonomy service unreachable", err)
		}
		return errors.NewExternalError(serviceName, err)
	}
}

func outcomeOf(err error) string {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return "error"
	}
	return strings.ToLower(string(appErr.Type))
}
