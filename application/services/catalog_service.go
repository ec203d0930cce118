package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"taxonomy-console/application/ports"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/domain/events"
	"taxonomy-console/pkg/utils"
)

// DefaultSearchStatuses are searched when no status filter is given
var DefaultSearchStatuses = []string{"Draft", "Live"}

// recentLimit is the number of frameworks on the dashboard activity list
const recentLimit = 5

// FrameworkSummary is one row of the framework lists
type FrameworkSummary struct {
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
	StatusLabel   string `json:"statusLabel"`
	Channel       string `json:"channel,omitempty"`
	LastUpdatedOn string `json:"lastUpdatedOn,omitempty"`
}

// Dashboard holds the framework counts and the recent activity list
type Dashboard struct {
	TotalFrameworks int                `json:"totalFrameworks"`
	LiveFrameworks  int                `json:"liveFrameworks"`
	DraftFrameworks int                `json:"draftFrameworks"`
	Recent          []FrameworkSummary `json:"recent"`
}

// ChannelFilter narrows the channel list. Search matches name or code
// without regard to case; an empty status set matches every status.
type ChannelFilter struct {
	Search   string
	Statuses []string
}

// CatalogService serves the read views over the taxonomy service and the
// standalone channel creation page
type CatalogService struct {
	client    ports.TaxonomyClient
	validator *validators.DraftValidator
	publisher ports.EventPublisher
	cache     ports.Cache
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	client ports.TaxonomyClient,
	validator *validators.DraftValidator,
	publisher ports.EventPublisher,
	cache ports.Cache,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		client:    client,
		validator: validator,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// ListFrameworks searches frameworks in the given statuses
func (s *CatalogService) ListFrameworks(ctx context.Context, statuses []string) ([]FrameworkSummary, error) {
	if len(statuses) == 0 {
		statuses = DefaultSearchStatuses
	}
	records, err := s.client.SearchFrameworks(ctx, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]FrameworkSummary, 0, len(records))
	for _, r := range records {
		out = append(out, summarize(r))
	}
	return out, nil
}

// GetFramework reads one framework with its categories and terms
func (s *CatalogService) GetFramework(ctx context.Context, identifier string) (*entities.FrameworkRecord, error) {
	return s.client.ReadFramework(ctx, identifier)
}

// ListChannels searches draft and live channels and applies the filter locally
func (s *CatalogService) ListChannels(ctx context.Context, filter ChannelFilter) ([]entities.ChannelRecord, error) {
	records, err := s.client.SearchChannels(ctx, DefaultSearchStatuses)
	if err != nil {
		return nil, err
	}
	return FilterChannels(records, filter), nil
}

// FilterChannels keeps the channels matching filter, in their original order
func FilterChannels(records []entities.ChannelRecord, filter ChannelFilter) []entities.ChannelRecord {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]entities.ChannelRecord, 0, len(records))
	for _, r := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Code), search) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsFold(filter.Statuses, r.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Dashboard counts frameworks by status and lists the most recently updated
func (s *CatalogService) Dashboard(ctx context.Context) (*Dashboard, error) {
	records, err := s.client.SearchFrameworks(ctx, DefaultSearchStatuses)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(records), nil
}

// BuildDashboard computes the dashboard from a framework search result.
// Frameworks without a parseable lastUpdatedOn sort last.
func BuildDashboard(records []entities.FrameworkRecord) *Dashboard {
	d := &Dashboard{TotalFrameworks: len(records)}
	for _, r := range records {
		if r.IsLive() {
			d.LiveFrameworks++
		} else {
			d.DraftFrameworks++
		}
	}

	type dated struct {
		record entities.FrameworkRecord
		at     time.Time
		ok     bool
	}
	rows := make([]dated, 0, len(records))
	for _, r := range records {
		at, ok := utils.ParseTimestamp(r.LastUpdatedOn)
		rows = append(rows, dated{record: r, at: at, ok: ok})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].at.After(rows[j].at)
	})

	limit := recentLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	d.Recent = make([]FrameworkSummary, 0, limit)
	for _, row := range rows[:limit] {
		d.Recent = append(d.Recent, summarize(row.record))
	}
	return d
}

// CreateChannel creates a channel on the taxonomy service. Both name and
// code are required.
func (s *CatalogService) CreateChannel(ctx context.Context, channel entities.Channel) (string, error) {
	channel.Name = strings.TrimSpace(channel.Name)
	channel.Code = strings.TrimSpace(channel.Code)
	if err := s.validator.ValidateChannel(channel, true); err != nil {
		return "", err
	}

	identifier, err := s.client.CreateChannel(ctx, channel)
	if err != nil {
		return "", err
	}
	s.logger.Info("Channel created",
		zap.String("identifier", identifier),
		zap.String("code", channel.Code),
	)

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear read view cache", zap.Error(err))
		}
	}
	if s.publisher != nil {
		event := events.NewChannelCreated(identifier, channel.Code, s.now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish channel event", zap.Error(err))
		}
	}
	return identifier, nil
}

func summarize(r entities.FrameworkRecord) FrameworkSummary {
	return FrameworkSummary{
		Identifier:    r.Identifier,
		Name:          r.Name,
		Code:          r.Code,
		Description:   r.Description,
		Status:        r.Status,
		StatusLabel:   entities.StatusLabel(r.Status),
		Channel:       r.Channel,
		LastUpdatedOn: r.LastUpdatedOn,
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
