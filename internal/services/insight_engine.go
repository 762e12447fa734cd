package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sestako/eunio-core/internal/logging"
	"github.com/sestako/eunio-core/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInsightLogsLoadFailed   = errors.New("load logs for insights failed")
	ErrInsightCyclesLoadFailed = errors.New("load cycles for insights failed")
	ErrInsightSaveFailed       = errors.New("save insights failed")
)

type InsightLogReader interface {
	ListLogsInRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]models.DailyLog, error)
}

type InsightCycleReader interface {
	ListHistory(ctx context.Context, userID uint, limit int) ([]models.Cycle, error)
}

// InsightWriter persists a user's new insights in one atomic batch so
// observers never see a partial set.
type InsightWriter interface {
	BatchSave(ctx context.Context, insights []models.Insight) error
}

// RunReport tallies one scheduled insight run. A skipped user (too few
// logs) counts as succeeded.
type RunReport struct {
	Processed       int `json:"processed"`
	Succeeded       int `json:"succeeded"`
	Failed          int `json:"failed"`
	InsightsWritten int `json:"insights_written"`
}

type InsightEngine struct {
	logs     InsightLogReader
	cycles   InsightCycleReader
	insights InsightWriter
	logger   *logging.Logger
}

func NewInsightEngine(logs InsightLogReader, cycles InsightCycleReader, insights InsightWriter, logger *logging.Logger) *InsightEngine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InsightEngine{
		logs:     logs,
		cycles:   cycles,
		insights: insights,
		logger:   logger,
	}
}

// GenerateInsightsForUser is the pure per-user pipeline: it runs every
// pattern and early-warning analyzer over the snapshot and materializes
// the candidates as Insight records. Fewer than MinLogsForInsights logs
// yields nothing, which is a success, not a failure.
func GenerateInsightsForUser(userID uint, logs []models.DailyLog, cycles []models.Cycle, now time.Time) []models.Insight {
	if len(logs) < MinLogsForInsights {
		return nil
	}

	input := AnalyzerInput{
		UserID: userID,
		Logs:   sortLogsByDate(logs),
		Cycles: cycles,
		Now:    now,
	}

	candidates := make([]InsightCandidate, 0)
	for _, analyze := range PatternAnalyzers() {
		candidates = append(candidates, analyze(input)...)
	}
	for _, analyze := range EarlyWarningAnalyzers() {
		candidates = append(candidates, analyze(input)...)
	}

	generated := dateOnly(now)
	insights := make([]models.Insight, 0, len(candidates))
	for _, candidate := range candidates {
		insights = append(insights, models.Insight{
			ID:            uuid.NewString(),
			UserID:        userID,
			GeneratedDate: generated,
			Text:          candidate.Text,
			Type:          candidate.Type,
			Confidence:    clampFloat(candidate.Confidence, 0, 1),
			Actionable:    candidate.Actionable,
			RelatedLogIDs: candidate.RelatedLogIDs,
		})
	}
	return insights
}

// RunForUser fetches the trailing analysis window for one user, runs the
// pipeline, and writes any insights in a single batch.
func (engine *InsightEngine) RunForUser(ctx context.Context, userID uint, now time.Time) (int, error) {
	to := dateOnly(now).AddDate(0, 0, 1)
	from := dateOnly(now).AddDate(0, -InsightWindowMonths, 0)

	logs, err := engine.logs.ListLogsInRange(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInsightLogsLoadFailed, err)
	}

	cycles, err := engine.cycles.ListHistory(ctx, userID, 12)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInsightCyclesLoadFailed, err)
	}

	insights := GenerateInsightsForUser(userID, logs, cycles, now)
	if len(insights) == 0 {
		return 0, nil
	}

	if err := engine.insights.BatchSave(ctx, insights); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInsightSaveFailed, err)
	}
	return len(insights), nil
}

// Run processes the given users in fixed-size batches: users inside a
// batch run concurrently, batches run strictly sequentially to cap peak
// load. A failure for one user is logged with its user context and
// tallied; it never aborts the run or touches other users.
func (engine *InsightEngine) Run(ctx context.Context, userIDs []uint, now time.Time) RunReport {
	report := RunReport{}
	var mu sync.Mutex

	for batchStart := 0; batchStart < len(userIDs); batchStart += InsightBatchSize {
		batchEnd := minInt(batchStart+InsightBatchSize, len(userIDs))
		batch := userIDs[batchStart:batchEnd]

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(InsightBatchSize)

		for _, userID := range batch {
			userID := userID
			group.Go(func() error {
				written, err := engine.RunForUser(groupCtx, userID, now)

				mu.Lock()
				defer mu.Unlock()
				report.Processed++
				if err != nil {
					report.Failed++
					engine.logger.Error("insight generation failed", "user_id", userID, "error", err)
					return nil
				}
				report.Succeeded++
				report.InsightsWritten += written
				return nil
			})
		}

		// Workers swallow their own errors, so Wait only synchronizes.
		_ = group.Wait()
	}

	engine.logger.Info("insight run complete",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"insights_written", report.InsightsWritten,
	)
	return report
}
