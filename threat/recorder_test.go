package threat

import (
	"fmt"
	"log/slog"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/mocks"
	"tactical-link/observability"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRecorder_Record(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	threatLog := mocks.NewMockThreatLog(ctrl)
	index := mocks.NewMockThreatIndex(ctrl)
	metrics := observability.NewMetrics()
	recorder := NewRecorder(slog.Default(), threatLog, index, metrics)

	at := time.Now()
	assessment := Assessment{Score: 91.5, Level: domain.RiskHigh, DistinctRecipients: 9}

	var appended domain.ThreatRecord
	threatLog.EXPECT().Append(gomock.Any()).DoAndReturn(func(r domain.ThreatRecord) error {
		appended = r
		return nil
	})
	// Search index failures never fail the record
	index.EXPECT().Index(gomock.Any()).Return(fmt.Errorf("index closed"))

	record, err := recorder.Record("mallory", assessment, 10, ReasonAutomated, at)
	req.NoError(err)
	req.Equal(appended, record)
	req.Equal("mallory", record.UserID)
	req.Equal(91.5, record.Score)
	req.Equal(ReasonAutomated, record.Reason)
	req.Equal(10, record.MessageCount)
	req.Equal(9, record.DistinctRecipients)
	req.Equal(uint64(1), metrics.Snapshot().ThreatRecords)
}

func TestRecorder_AppendFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	threatLog := mocks.NewMockThreatLog(ctrl)
	recorder := NewRecorder(slog.Default(), threatLog, nil, nil)

	threatLog.EXPECT().Append(gomock.Any()).Return(errors.ErrStoreUnavailable)

	_, err := recorder.Record("mallory", Assessment{Score: 90}, 10, ReasonAutomated, time.Now())
	req.ErrorIs(err, errors.ErrStoreUnavailable)
}
