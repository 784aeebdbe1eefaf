package workers

import (
	"context"
	"log/slog"
	"tactical-link/observability"
	"time"
)

// ReporterWorker logs a metrics snapshot at every interval.
type ReporterWorker struct {
	log      *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, metrics *observability.Metrics, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, metrics: metrics, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	stats := w.metrics.Snapshot()
	w.log.Info("📊 Engine stats",
		"uptime", stats.Uptime,
		"sent", stats.MessagesSent,
		"delivered", stats.MessagesDelivered,
		"armed", stats.ArmedMessages,
		"destroyed_timeout", stats.DestroyedByTimeout,
		"destroyed_read", stats.DestroyedByRead,
		"destroyed_manual", stats.DestroyedManually,
		"destruction_errors", stats.DestructionErrors,
		"threats", stats.ThreatRecords,
		"restarts", stats.WorkerRestarts,
		"alloc_mb", stats.AllocMemMb,
		"rss_mb", stats.RssMb,
		"goroutines", stats.Goroutines,
	)
}
