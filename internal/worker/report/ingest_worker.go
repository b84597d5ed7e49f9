package report

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
	"github.com/Vishrutha-23/SafeWalk/internal/worker"
)

const WorkerName = "incident-report-ingest"

// ReportIngester stores one report read from the stream.
type ReportIngester interface {
	Ingest(ctx context.Context, event domain.IncidentReportEvent) (*domain.UserReport, error)
}

// IngestWorker drains stream:incident:report into the report store.
type IngestWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	reports       ReportIngester
	consumerGroup string
	consumerName  string
	maxRetries    int
	retryBackoff  time.Duration
}

func NewIngestWorker(
	streamRepo repository.StreamRepository,
	reports ReportIngester,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *IngestWorker {
	hostname, _ := os.Hostname()
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &IngestWorker{
		BaseWorker:    worker.NewBaseWorker(WorkerName, logger),
		streamRepo:    streamRepo,
		reports:       reports,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxRetries:    maxRetries,
		retryBackoff:  500 * time.Millisecond,
	}
}

// WithRetryBackoff overrides the pause between storage retries.
func (w *IngestWorker) WithRetryBackoff(d time.Duration) *IngestWorker {
	w.retryBackoff = d
	return w
}

func (w *IngestWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting incident report ingest",
		zap.String("stream", domain.StreamIncidentReport),
		zap.String("consumer_group", w.consumerGroup),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamIncidentReport, w.consumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	msgChan, err := w.streamRepo.ConsumeStream(ctx, domain.StreamIncidentReport, w.consumerGroup, w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			return nil

		case <-ctx.Done():
			return nil

		case msg, ok := <-msgChan:
			if !ok {
				if ctx.Err() != nil || w.IsStopped() {
					return nil
				}
				return fmt.Errorf("message channel closed")
			}

			if !w.handle(ctx, msg) {
				// left pending for XPENDING/XCLAIM inspection
				continue
			}

			if err := w.streamRepo.AckMessage(ctx, domain.StreamIncidentReport, w.consumerGroup, msg.ID); err != nil {
				logger.Error("Failed to acknowledge message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
			}
		}
	}
}

// handle reports whether the message is finished with and may be acked.
// Malformed and rejected reports are dropped; storage failures are retried.
func (w *IngestWorker) handle(ctx context.Context, msg domain.StreamMessage) bool {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.IncidentReportEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Dropping malformed report message",
			zap.String("raw_data", msg.Data),
			zap.Error(err))
		return true
	}

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		report, err := w.reports.Ingest(ctx, event)
		if err == nil {
			logger.Debug("Report ingested", zap.String("report_id", report.ID))
			return true
		}

		if permanent(err) {
			logger.Warn("Dropping rejected report", zap.Error(err))
			return true
		}

		logger.Error("Failed to ingest report",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", w.maxRetries),
			zap.Error(err))

		if attempt == w.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-w.StopChan():
			return false
		case <-time.After(w.retryBackoff * time.Duration(attempt)):
		}
	}

	return false
}

// permanent is true for client errors that no retry can fix.
func permanent(err error) bool {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode > 0 && appErr.StatusCode < 500
	}
	return false
}
