package workers

import (
	"context"
	"log/slog"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/threat"
	"time"
)

// ThreatSweepWorker periodically rescores every recently active sender and
// logs the critical ones. It only reads metadata and never touches the
// send or receive paths.
type ThreatSweepWorker struct {
	log      *slog.Logger
	store    contract.MessageStore
	board    *threat.Board
	recorder *threat.Recorder
	interval time.Duration
}

func NewThreatSweepWorker(
	log *slog.Logger,
	store contract.MessageStore,
	board *threat.Board,
	recorder *threat.Recorder,
	interval time.Duration,
) *ThreatSweepWorker {
	return &ThreatSweepWorker{log: log, store: store, board: board, recorder: recorder, interval: interval}
}

func (w *ThreatSweepWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping threat sweep")
			return nil
		case <-ticker.C:
			w.Sweep(time.Now())
		}
	}
}

// Sweep rescores the active senders once and returns the records appended.
func (w *ThreatSweepWorker) Sweep(now time.Time) []domain.ThreatRecord {
	var records []domain.ThreatRecord
	for _, userID := range w.board.Active(now) {
		recent, err := w.store.ListRecent(userID, threat.SweepWindow)
		if err != nil {
			w.log.Warn("Unable to load recent messages", "user", userID, "error", err)
			continue
		}
		assessment := threat.Assess(recent)
		w.board.RecordScore(userID, assessment.Score)
		if assessment.Score <= domain.CriticalThreshold {
			continue
		}
		record, err := w.recorder.Record(userID, assessment, len(recent), threat.ReasonAutomated, now)
		if err != nil {
			w.log.Error("Unable to record threat", "user", userID, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records
}
