package search

import (
	"context"
	"log/slog"
	"tactical-link/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestThreatIndex_Search(t *testing.T) {
	req := require.New(t)
	index, err := NewThreatIndex("", slog.Default())
	req.NoError(err)
	defer func() { _ = index.Close() }()

	at := time.Now().UTC().Truncate(time.Millisecond)
	records := []domain.ThreatRecord{
		{ID: uuid.New(), UserID: "alice", Score: 72.5, Reason: "High message frequency or suspicious pattern", At: at, MessageCount: 20, DistinctRecipients: 15},
		{ID: uuid.New(), UserID: "alice", Score: 88, Reason: "Automated threat detection - high risk", At: at.Add(time.Minute), MessageCount: 10, DistinctRecipients: 9},
		{ID: uuid.New(), UserID: "bob", Score: 81.3, Reason: "Automated threat detection - high risk", At: at.Add(2 * time.Minute), MessageCount: 10, DistinctRecipients: 6},
	}
	req.NoError(index.Rebuild(records))

	tests := []struct {
		name     string
		query    domain.ThreatQuery
		expected []domain.ThreatRecord
	}{
		{"Everything, highest score first", domain.ThreatQuery{}, []domain.ThreatRecord{records[1], records[2], records[0]}},
		{"Single user", domain.ThreatQuery{UserID: "alice"}, []domain.ThreatRecord{records[1], records[0]}},
		{"Critical only", domain.ThreatQuery{MinScore: domain.CriticalThreshold}, []domain.ThreatRecord{records[1], records[2]}},
		{"Limited", domain.ThreatQuery{Limit: 1}, []domain.ThreatRecord{records[1]}},
		{"Unknown user", domain.ThreatQuery{UserID: "clara"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			found, err := index.Search(context.Background(), tt.query)
			req.NoError(err)
			req.Len(found, len(tt.expected))
			for i := range tt.expected {
				req.Equal(tt.expected[i].ID, found[i].ID)
				req.Equal(tt.expected[i].UserID, found[i].UserID)
				req.Equal(tt.expected[i].Reason, found[i].Reason)
				req.InDelta(tt.expected[i].Score, found[i].Score, 0.001)
				req.True(tt.expected[i].At.Equal(found[i].At))
				req.Equal(tt.expected[i].MessageCount, found[i].MessageCount)
				req.Equal(tt.expected[i].DistinctRecipients, found[i].DistinctRecipients)
			}
		})
	}
}

func TestThreatIndex_UpdateIsIdempotent(t *testing.T) {
	req := require.New(t)
	index, err := NewThreatIndex("", slog.Default())
	req.NoError(err)
	defer func() { _ = index.Close() }()

	record := domain.ThreatRecord{ID: uuid.New(), UserID: "alice", Score: 75, At: time.Now().UTC()}
	req.NoError(index.Index(record))
	req.NoError(index.Index(record))

	found, err := index.Search(context.Background(), domain.ThreatQuery{UserID: "alice"})
	req.NoError(err)
	req.Len(found, 1)

	req.Error(index.Index(domain.ThreatRecord{UserID: "alice"}))
}
