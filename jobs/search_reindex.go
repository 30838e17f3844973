package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/inkwell-press/inkwell/internal/jobs"
	"github.com/inkwell-press/inkwell/internal/search"
)

// SearchReindexJob drops cached search results so readers see fresh content
// after a post write.
type SearchReindexJob struct {
	Search  *search.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewSearchReindexJob wires dependencies for the reindex handler.
func NewSearchReindexJob(svc *search.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *SearchReindexJob {
	return &SearchReindexJob{Search: svc, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTypeSearchReindex tasks.
func (j *SearchReindexJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Search == nil {
		return errors.New("search reindex: handler not configured")
	}
	tracker := j.metrics().Track(TaskTypeSearchReindex)
	err := j.Search.Invalidate(ctx)
	if err != nil {
		j.logger().Error("search reindex", slog.Any("error", err))
	}
	return tracker.End(err)
}

func (j *SearchReindexJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SearchReindexJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
