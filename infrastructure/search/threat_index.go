// Package search indexes threat records in bluge so operators can query
// them by user, score and time. The badger threat log stays the source of
// truth, the index can always be rebuilt from it.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"tactical-link/contract"
	"tactical-link/domain"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/search"
	"github.com/google/uuid"
)

const (
	fieldUser               = "user"
	fieldScore              = "score"
	fieldReason             = "reason"
	fieldAt                 = "at"
	fieldMessageCount       = "message_count"
	fieldDistinctRecipients = "distinct_recipients"

	defaultLimit = 50
)

var _ contract.ThreatIndex = (*ThreatIndex)(nil)

type ThreatIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// NewThreatIndex opens an index at path, or in memory when path is empty.
func NewThreatIndex(path string, log *slog.Logger) (*ThreatIndex, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	return &ThreatIndex{writer: writer, log: log}, nil
}

func (i *ThreatIndex) Close() error {
	return i.writer.Close()
}

func (i *ThreatIndex) Index(record domain.ThreatRecord) error {
	if record.ID == uuid.Nil {
		return fmt.Errorf("threat record without id")
	}
	doc := bluge.NewDocument(record.ID.String()).
		AddField(bluge.NewKeywordField(fieldUser, record.UserID).StoreValue()).
		AddField(bluge.NewNumericField(fieldScore, record.Score).StoreValue().Sortable()).
		AddField(bluge.NewTextField(fieldReason, record.Reason).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldAt, record.At).StoreValue().Sortable()).
		AddField(bluge.NewNumericField(fieldMessageCount, float64(record.MessageCount)).StoreValue()).
		AddField(bluge.NewNumericField(fieldDistinctRecipients, float64(record.DistinctRecipients)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Rebuild indexes a batch of records, typically the badger log at startup.
func (i *ThreatIndex) Rebuild(records []domain.ThreatRecord) error {
	for _, record := range records {
		if err := i.Index(record); err != nil {
			return err
		}
	}
	i.log.Debug("Threat index rebuilt", "records", len(records))
	return nil
}

// Search returns matching records, highest score first.
func (i *ThreatIndex) Search(ctx context.Context, query domain.ThreatQuery) ([]domain.ThreatRecord, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewNumericRangeInclusiveQuery(query.MinScore, math.Inf(1), true, true).SetField(fieldScore))
	if query.UserID != "" {
		q.AddMust(bluge.NewTermQuery(query.UserID).SetField(fieldUser))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	request := bluge.NewTopNSearch(limit, q).SortBy([]string{"-" + fieldScore, "-" + fieldAt})

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("threat search failed: %w", err)
	}

	var records []domain.ThreatRecord
	match, err := matches.Next()
	for err == nil && match != nil {
		record, decodeErr := decodeMatch(match)
		if decodeErr != nil {
			i.log.Warn("Skipping unreadable threat document", "error", decodeErr)
		} else {
			records = append(records, record)
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("threat search iteration failed: %w", err)
	}
	return records, nil
}

func decodeMatch(match *search.DocumentMatch) (domain.ThreatRecord, error) {
	var record domain.ThreatRecord
	var decodeErr error
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		switch field {
		case "_id":
			record.ID, decodeErr = uuid.ParseBytes(value)
		case fieldUser:
			record.UserID = string(value)
		case fieldReason:
			record.Reason = string(value)
		case fieldScore:
			record.Score, decodeErr = bluge.DecodeNumericFloat64(value)
		case fieldAt:
			var at time.Time
			at, decodeErr = bluge.DecodeDateTime(value)
			record.At = at.UTC()
		case fieldMessageCount:
			var n float64
			n, decodeErr = bluge.DecodeNumericFloat64(value)
			record.MessageCount = int(n)
		case fieldDistinctRecipients:
			var n float64
			n, decodeErr = bluge.DecodeNumericFloat64(value)
			record.DistinctRecipients = int(n)
		}
		return decodeErr == nil
	})
	if err != nil {
		return domain.ThreatRecord{}, err
	}
	return record, decodeErr
}
