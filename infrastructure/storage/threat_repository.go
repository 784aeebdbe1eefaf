package storage

import (
	"log/slog"
	"tactical-link/contract"
	"tactical-link/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var _ contract.ThreatLog = ThreatRepository{}

// ThreatRepository is the append-only log of threat assessments.
type ThreatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewThreatRepository(db *badger.DB, log *slog.Logger) ThreatRepository {
	return ThreatRepository{db: db, log: log}
}

func (r ThreatRepository) Append(record domain.ThreatRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	data, err := marshalThreat(record)
	if err != nil {
		return storeErr(err)
	}
	return storeErr(update(r.db, func(txn *badger.Txn) error {
		return txn.Set(threatKey(record.At, record.ID), data)
	}))
}

// ListRecent returns up to limit records, newest first.
func (r ThreatRepository) ListRecent(limit int) ([]domain.ThreatRecord, error) {
	var records []domain.ThreatRecord
	if limit <= 0 {
		return records, nil
	}
	prefix := []byte(ThreatPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchSize = limit
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek([]byte(ThreatPrefix + maxTimestamp)); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := unmarshalThreat(value)
			if err != nil {
				r.log.Warn("Skipping unreadable threat record", "key", string(it.Item().Key()), "error", err)
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return records, nil
}
