package export

import (
	"context"
	"strings"
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

// Input is a validated export request.
type Input struct {
	ExportType string `json:"exportType" validate:"required,exporttype"`
}

// Document wraps an aggregate snapshot for download. Exports run for the
// authenticated owner, so the full repository set is always included.
type Document struct {
	Type        stats.Kind      `json:"type"`
	Username    string          `json:"username"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Data        stats.Aggregate `json:"data"`
}

// Aggregator builds the variant payload backing the export.
type Aggregator interface {
	Aggregate(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error)
}

type Service struct {
	aggregator Aggregator
	now        func() time.Time
}

func NewService(aggregator Aggregator) *Service {
	return &Service{aggregator: aggregator, now: time.Now}
}

func (s *Service) Export(ctx context.Context, token, username string, in Input) (*Document, error) {
	kind, err := stats.ParseKind(strings.TrimSpace(in.ExportType))
	if err != nil {
		return nil, err
	}

	data, err := s.aggregator.Aggregate(ctx, token, username, kind, true)
	if err != nil {
		return nil, err
	}

	return &Document{
		Type:        kind,
		Username:    username,
		GeneratedAt: s.now().UTC(),
		Data:        data,
	}, nil
}
