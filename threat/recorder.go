package threat

import (
	"fmt"
	"log/slog"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/observability"
	"time"

	"github.com/google/uuid"
)

const (
	ReasonSuspiciousPattern = "High message frequency or suspicious pattern"
	ReasonAutomated         = "Automated threat detection - high risk"

	// SendWindow is the history scored on every send.
	SendWindow = 50
	// SweepWindow is the history scored by the background sweep.
	SweepWindow = 10
)

// Recorder appends threat records to the log and indexes them for search.
// The log is authoritative: an indexing failure is logged, never returned.
type Recorder struct {
	log       *slog.Logger
	threatLog contract.ThreatLog
	index     contract.ThreatIndex
	metrics   *observability.Metrics
}

func NewRecorder(log *slog.Logger, threatLog contract.ThreatLog, index contract.ThreatIndex, metrics *observability.Metrics) *Recorder {
	return &Recorder{log: log, threatLog: threatLog, index: index, metrics: metrics}
}

func (r *Recorder) Record(userID string, assessment Assessment, messageCount int, reason string, at time.Time) (domain.ThreatRecord, error) {
	record := domain.ThreatRecord{
		ID:                 uuid.New(),
		UserID:             userID,
		Score:              assessment.Score,
		Reason:             reason,
		At:                 at.UTC(),
		MessageCount:       messageCount,
		DistinctRecipients: assessment.DistinctRecipients,
	}
	if err := r.threatLog.Append(record); err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("append threat record: %w", err)
	}
	r.metrics.IncrThreatRecords()
	if r.index != nil {
		if err := r.index.Index(record); err != nil {
			r.log.Warn("Threat record not indexed", "id", record.ID, "error", err)
		}
	}
	r.log.Warn("Threat recorded", "user", userID, "score", record.Score, "level", assessment.Level, "reason", reason)
	return record, nil
}
