package storage

import (
	"fmt"
	"tactical-link/domain"
	"tactical-link/infrastructure/wire"
	"time"

	"github.com/google/uuid"
)

func marshalMessage(m domain.Message) ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.ID.String())
	e.String(2, m.SenderID)
	e.String(3, m.RecipientID)
	e.String(4, m.GroupID)
	e.Bytes(5, m.Ciphertext)
	e.Bytes(6, m.WrappedKey)
	e.Bytes(7, m.PlaintextEcho)
	if err := e.Time(8, m.CreatedAt); err != nil {
		return nil, err
	}
	e.Int(9, int64(m.TTLSeconds))
	e.Bool(10, m.ReadOnce)
	e.Bool(11, m.IsRead)
	e.Bool(12, m.IsDestroyed)
	e.Int(13, int64(m.Length))
	return e.Encoded(), nil
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := wire.Decode(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.ID, err = uuid.Parse(f.String())
		case 2:
			m.SenderID = f.String()
		case 3:
			m.RecipientID = f.String()
		case 4:
			m.GroupID = f.String()
		case 5:
			m.Ciphertext = f.Bytes()
		case 6:
			m.WrappedKey = f.Bytes()
		case 7:
			m.PlaintextEcho = f.Bytes()
		case 8:
			m.CreatedAt, err = f.Time()
		case 9:
			m.TTLSeconds = int(f.Int())
		case 10:
			m.ReadOnce = f.Bool()
		case 11:
			m.IsRead = f.Bool()
		case 12:
			m.IsDestroyed = f.Bool()
		case 13:
			m.Length = int(f.Int())
		}
		return err
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

type sentRecord struct {
	MessageID uuid.UUID
	domain.MessageMeta
}

func marshalSent(m domain.Message) ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.ID.String())
	e.String(2, m.RecipientID)
	e.Int(3, int64(m.Length))
	if err := e.Time(4, m.CreatedAt); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func unmarshalSent(b []byte) (sentRecord, error) {
	var s sentRecord
	err := wire.Decode(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			s.MessageID, err = uuid.Parse(f.String())
		case 2:
			s.RecipientID = f.String()
		case 3:
			s.Length = int(f.Int())
		case 4:
			s.At, err = f.Time()
		}
		return err
	})
	if err != nil {
		return sentRecord{}, fmt.Errorf("decode sent index: %w", err)
	}
	return s, nil
}

func marshalArmed(m domain.Message) ([]byte, error) {
	e := wire.Encoder{}
	if at, ok := m.DestructAt(); ok {
		if err := e.Time(1, at); err != nil {
			return nil, err
		}
	}
	e.Bool(2, m.ReadOnce)
	return e.Encoded(), nil
}

func unmarshalArmed(id uuid.UUID, b []byte) (domain.ArmedEntry, error) {
	entry := domain.ArmedEntry{ID: id}
	err := wire.Decode(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			entry.DestructAt, err = f.Time()
		case 2:
			entry.ReadOnce = f.Bool()
		}
		return err
	})
	if err != nil {
		return domain.ArmedEntry{}, fmt.Errorf("decode armed entry: %w", err)
	}
	return entry, nil
}

func marshalThreat(r domain.ThreatRecord) ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, r.ID.String())
	e.String(2, r.UserID)
	e.Double(3, r.Score)
	e.String(4, r.Reason)
	if err := e.Time(5, r.At); err != nil {
		return nil, err
	}
	e.Int(6, int64(r.MessageCount))
	e.Int(7, int64(r.DistinctRecipients))
	return e.Encoded(), nil
}

func unmarshalThreat(b []byte) (domain.ThreatRecord, error) {
	var r domain.ThreatRecord
	err := wire.Decode(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			r.ID, err = uuid.Parse(f.String())
		case 2:
			r.UserID = f.String()
		case 3:
			r.Score = f.Double()
		case 4:
			r.Reason = f.String()
		case 5:
			r.At, err = f.Time()
		case 6:
			r.MessageCount = int(f.Int())
		case 7:
			r.DistinctRecipients = int(f.Int())
		}
		return err
	})
	if err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("decode threat record: %w", err)
	}
	return r, nil
}

type identityRecord struct {
	PublicKey        []byte
	SealedPrivateKey []byte
	CreatedAt        time.Time
}

func marshalIdentity(r identityRecord) ([]byte, error) {
	e := wire.Encoder{}
	e.Bytes(1, r.PublicKey)
	e.Bytes(2, r.SealedPrivateKey)
	if err := e.Time(3, r.CreatedAt); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func unmarshalIdentity(b []byte) (identityRecord, error) {
	var r identityRecord
	err := wire.Decode(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			r.PublicKey = f.Bytes()
		case 2:
			r.SealedPrivateKey = f.Bytes()
		case 3:
			r.CreatedAt, err = f.Time()
		}
		return err
	})
	if err != nil {
		return identityRecord{}, fmt.Errorf("decode identity: %w", err)
	}
	return r, nil
}
