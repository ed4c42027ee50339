package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

type mockAggregator struct {
	aggregateFn func(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error)
}

func (m *mockAggregator) Aggregate(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error) {
	return m.aggregateFn(ctx, token, username, kind, showPrivate)
}

func TestExport_IncludesFullRepositorySet(t *testing.T) {
	agg := &mockAggregator{
		aggregateFn: func(_ context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error) {
			if !showPrivate {
				t.Error("exports run for the owner and must include private repos")
			}
			if kind != stats.KindRepositories {
				t.Errorf("kind = %q, want repositories", kind)
			}
			return &stats.RepositoryList{TotalRepositories: 7}, nil
		},
	}

	svc := NewService(agg)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	doc, err := svc.Export(context.Background(), "tok", "octocat", Input{ExportType: "repositories"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Username != "octocat" {
		t.Errorf("Username = %q", doc.Username)
	}
	if !doc.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", doc.GeneratedAt, now)
	}
	if doc.Data.(*stats.RepositoryList).TotalRepositories != 7 {
		t.Error("aggregate payload not passed through")
	}
}

func TestExport_RejectsUnknownType(t *testing.T) {
	svc := NewService(&mockAggregator{})
	if _, err := svc.Export(context.Background(), "tok", "octocat", Input{ExportType: "spreadsheet"}); !errors.Is(err, stats.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestExport_PropagatesUpstreamError(t *testing.T) {
	upstream := errors.New("github 500")
	agg := &mockAggregator{
		aggregateFn: func(context.Context, string, string, stats.Kind, bool) (stats.Aggregate, error) {
			return nil, upstream
		},
	}
	svc := NewService(agg)
	if _, err := svc.Export(context.Background(), "tok", "octocat", Input{ExportType: "dashboard"}); !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
