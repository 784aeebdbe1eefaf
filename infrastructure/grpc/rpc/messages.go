package rpc

import (
	"tactical-link/infrastructure/wire"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers are part of the contract, never reuse one.

type ProvisionRequest struct {
	UserID string `json:"user_id"`
}

func (m *ProvisionRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.UserID)
	return e.Encoded(), nil
}

func (m *ProvisionRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.UserID = f.String()
		}
		return nil
	})
}

type TokenResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func (m *TokenResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.UserID)
	e.String(2, m.Token)
	return e.Encoded(), nil
}

func (m *TokenResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.UserID = f.String()
		case 2:
			m.Token = f.String()
		}
		return nil
	})
}

// SendRequest never carries the sender, it is the authenticated caller.
type SendRequest struct {
	RecipientID string `json:"recipient_id"`
	GroupID     string `json:"group_id,omitempty"`
	Content     []byte `json:"content"`
	TTLSeconds  int    `json:"ttl_seconds"`
	ReadOnce    bool   `json:"read_once"`
	KeepEcho    bool   `json:"keep_echo"`
}

func (m *SendRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.RecipientID)
	e.String(2, m.GroupID)
	e.Bytes(3, m.Content)
	e.Int(4, int64(m.TTLSeconds))
	e.Bool(5, m.ReadOnce)
	e.Bool(6, m.KeepEcho)
	return e.Encoded(), nil
}

func (m *SendRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.RecipientID = f.String()
		case 2:
			m.GroupID = f.String()
		case 3:
			m.Content = f.Bytes()
		case 4:
			m.TTLSeconds = int(f.Int())
		case 5:
			m.ReadOnce = f.Bool()
		case 6:
			m.KeepEcho = f.Bool()
		}
		return nil
	})
}

type SendResponse struct {
	MessageID   string  `json:"message_id"`
	ThreatScore float64 `json:"threat_score"`
	RiskLevel   string  `json:"risk_level"`
}

func (m *SendResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	e.Double(2, m.ThreatScore)
	e.String(3, m.RiskLevel)
	return e.Encoded(), nil
}

func (m *SendResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.MessageID = f.String()
		case 2:
			m.ThreatScore = f.Double()
		case 3:
			m.RiskLevel = f.String()
		}
		return nil
	})
}

type ReceiveRequest struct{}

func (m *ReceiveRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *ReceiveRequest) UnmarshalWire(b []byte) error { return wire.Decode(b, skip) }

type Message struct {
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ReadOnce  bool      `json:"read_once"`
}

func (m *Message) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	e.String(2, m.SenderID)
	e.String(3, m.GroupID)
	e.Bytes(4, m.Content)
	if err := e.Time(5, m.CreatedAt); err != nil {
		return nil, err
	}
	e.Bool(6, m.ReadOnce)
	return e.Encoded(), nil
}

func (m *Message) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		switch f.Num {
		case 1:
			m.MessageID = f.String()
		case 2:
			m.SenderID = f.String()
		case 3:
			m.GroupID = f.String()
		case 4:
			m.Content = f.Bytes()
		case 5:
			m.CreatedAt, err = f.Time()
		case 6:
			m.ReadOnce = f.Bool()
		}
		return err
	})
}

// Skipped reports a pending message that could not be delivered.
type Skipped struct {
	MessageID string `json:"message_id"`
	SenderID  string `json:"sender_id"`
	Reason    string `json:"reason"`
}

func (m *Skipped) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	e.String(2, m.SenderID)
	e.String(3, m.Reason)
	return e.Encoded(), nil
}

func (m *Skipped) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.MessageID = f.String()
		case 2:
			m.SenderID = f.String()
		case 3:
			m.Reason = f.String()
		}
		return nil
	})
}

type ReceiveResponse struct {
	Messages []Message `json:"messages"`
	Skipped  []Skipped `json:"skipped,omitempty"`
}

func (m *ReceiveResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	if err := repeated(&e, 1, m.Messages); err != nil {
		return nil, err
	}
	if err := repeated(&e, 2, m.Skipped); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func (m *ReceiveResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		switch f.Num {
		case 1:
			m.Messages, err = appendNested(m.Messages, f)
		case 2:
			m.Skipped, err = appendNested(m.Skipped, f)
		}
		return err
	})
}

type DeleteRequest struct {
	MessageID string `json:"message_id"`
}

func (m *DeleteRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	return e.Encoded(), nil
}

func (m *DeleteRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.MessageID = f.String()
		}
		return nil
	})
}

type DeleteResponse struct{}

func (m *DeleteResponse) MarshalWire() ([]byte, error) { return nil, nil }

func (m *DeleteResponse) UnmarshalWire(b []byte) error { return wire.Decode(b, skip) }

// ScoreRequest scores the caller when UserID is empty.
type ScoreRequest struct {
	UserID string `json:"user_id,omitempty"`
}

func (m *ScoreRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.UserID)
	return e.Encoded(), nil
}

func (m *ScoreRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.UserID = f.String()
		}
		return nil
	})
}

type ScoreResponse struct {
	UserID             string  `json:"user_id"`
	Score              float64 `json:"score"`
	RiskLevel          string  `json:"risk_level"`
	MessagesInWindow   int     `json:"messages_in_window"`
	DistinctRecipients int     `json:"distinct_recipients"`
}

func (m *ScoreResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.UserID)
	e.Double(2, m.Score)
	e.String(3, m.RiskLevel)
	e.Int(4, int64(m.MessagesInWindow))
	e.Int(5, int64(m.DistinctRecipients))
	return e.Encoded(), nil
}

func (m *ScoreResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.UserID = f.String()
		case 2:
			m.Score = f.Double()
		case 3:
			m.RiskLevel = f.String()
		case 4:
			m.MessagesInWindow = int(f.Int())
		case 5:
			m.DistinctRecipients = int(f.Int())
		}
		return nil
	})
}

type ListSentRequest struct{}

func (m *ListSentRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *ListSentRequest) UnmarshalWire(b []byte) error { return wire.Decode(b, skip) }

type SentMessage struct {
	MessageID   string     `json:"message_id"`
	RecipientID string     `json:"recipient_id"`
	GroupID     string     `json:"group_id,omitempty"`
	Echo        []byte     `json:"echo,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DestructAt  *time.Time `json:"destruct_at,omitempty"`
	ReadOnce    bool       `json:"read_once"`
	IsRead      bool       `json:"is_read"`
}

func (m *SentMessage) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	e.String(2, m.RecipientID)
	e.String(3, m.GroupID)
	e.Bytes(4, m.Echo)
	if err := e.Time(5, m.CreatedAt); err != nil {
		return nil, err
	}
	if m.DestructAt != nil {
		if err := e.Time(6, *m.DestructAt); err != nil {
			return nil, err
		}
	}
	e.Bool(7, m.ReadOnce)
	e.Bool(8, m.IsRead)
	return e.Encoded(), nil
}

func (m *SentMessage) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		switch f.Num {
		case 1:
			m.MessageID = f.String()
		case 2:
			m.RecipientID = f.String()
		case 3:
			m.GroupID = f.String()
		case 4:
			m.Echo = f.Bytes()
		case 5:
			m.CreatedAt, err = f.Time()
		case 6:
			m.DestructAt, err = optionalTime(f)
		case 7:
			m.ReadOnce = f.Bool()
		case 8:
			m.IsRead = f.Bool()
		}
		return err
	})
}

type ListSentResponse struct {
	Messages []SentMessage `json:"messages"`
}

func (m *ListSentResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	if err := repeated(&e, 1, m.Messages); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func (m *ListSentResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		if f.Num == 1 {
			m.Messages, err = appendNested(m.Messages, f)
		}
		return err
	})
}

// ConversationRequest lists the live messages exchanged with PeerID.
type ConversationRequest struct {
	PeerID string `json:"peer_id"`
}

func (m *ConversationRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.PeerID)
	return e.Encoded(), nil
}

func (m *ConversationRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.PeerID = f.String()
		}
		return nil
	})
}

// ConversationEntry holds the decrypted content of a received message, or
// the sender's echo of an outgoing one, empty when no echo was kept.
type ConversationEntry struct {
	MessageID   string     `json:"message_id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	GroupID     string     `json:"group_id,omitempty"`
	Content     []byte     `json:"content,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DestructAt  *time.Time `json:"destruct_at,omitempty"`
	Outgoing    bool       `json:"outgoing"`
	IsRead      bool       `json:"is_read"`
}

func (m *ConversationEntry) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.MessageID)
	e.String(2, m.SenderID)
	e.String(3, m.RecipientID)
	e.String(4, m.GroupID)
	e.Bytes(5, m.Content)
	if err := e.Time(6, m.CreatedAt); err != nil {
		return nil, err
	}
	if m.DestructAt != nil {
		if err := e.Time(7, *m.DestructAt); err != nil {
			return nil, err
		}
	}
	e.Bool(8, m.Outgoing)
	e.Bool(9, m.IsRead)
	return e.Encoded(), nil
}

func (m *ConversationEntry) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		switch f.Num {
		case 1:
			m.MessageID = f.String()
		case 2:
			m.SenderID = f.String()
		case 3:
			m.RecipientID = f.String()
		case 4:
			m.GroupID = f.String()
		case 5:
			m.Content = f.Bytes()
		case 6:
			m.CreatedAt, err = f.Time()
		case 7:
			m.DestructAt, err = optionalTime(f)
		case 8:
			m.Outgoing = f.Bool()
		case 9:
			m.IsRead = f.Bool()
		}
		return err
	})
}

type ConversationResponse struct {
	Messages []ConversationEntry `json:"messages"`
}

func (m *ConversationResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	if err := repeated(&e, 1, m.Messages); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func (m *ConversationResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		if f.Num == 1 {
			m.Messages, err = appendNested(m.Messages, f)
		}
		return err
	})
}

type ListThreatsRequest struct {
	Limit int `json:"limit"`
}

func (m *ListThreatsRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.Int(1, int64(m.Limit))
	return e.Encoded(), nil
}

func (m *ListThreatsRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.Limit = int(f.Int())
		}
		return nil
	})
}

type SearchThreatsRequest struct {
	UserID   string  `json:"user_id,omitempty"`
	MinScore float64 `json:"min_score"`
	Limit    int     `json:"limit"`
}

func (m *SearchThreatsRequest) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.UserID)
	e.Double(2, m.MinScore)
	e.Int(3, int64(m.Limit))
	return e.Encoded(), nil
}

func (m *SearchThreatsRequest) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.UserID = f.String()
		case 2:
			m.MinScore = f.Double()
		case 3:
			m.Limit = int(f.Int())
		}
		return nil
	})
}

type ThreatRecord struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Score              float64   `json:"score"`
	Reason             string    `json:"reason"`
	At                 time.Time `json:"at"`
	MessageCount       int       `json:"message_count"`
	DistinctRecipients int       `json:"distinct_recipients"`
}

func (m *ThreatRecord) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	e.String(1, m.ID)
	e.String(2, m.UserID)
	e.Double(3, m.Score)
	e.String(4, m.Reason)
	if err := e.Time(5, m.At); err != nil {
		return nil, err
	}
	e.Int(6, int64(m.MessageCount))
	e.Int(7, int64(m.DistinctRecipients))
	return e.Encoded(), nil
}

func (m *ThreatRecord) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			m.UserID = f.String()
		case 3:
			m.Score = f.Double()
		case 4:
			m.Reason = f.String()
		case 5:
			m.At, err = f.Time()
		case 6:
			m.MessageCount = int(f.Int())
		case 7:
			m.DistinctRecipients = int(f.Int())
		}
		return err
	})
}

type ThreatsResponse struct {
	Records []ThreatRecord `json:"records"`
}

func (m *ThreatsResponse) MarshalWire() ([]byte, error) {
	e := wire.Encoder{}
	if err := repeated(&e, 1, m.Records); err != nil {
		return nil, err
	}
	return e.Encoded(), nil
}

func (m *ThreatsResponse) UnmarshalWire(b []byte) error {
	return wire.Decode(b, func(f wire.Field) (err error) {
		if f.Num == 1 {
			m.Records, err = appendNested(m.Records, f)
		}
		return err
	})
}

// wirePtr is satisfied by the pointer of every element type above.
type wirePtr[T any] interface {
	*T
	WireMessage
}

func repeated[T any, P wirePtr[T]](e *wire.Encoder, num protowire.Number, items []T) error {
	for i := range items {
		nested, err := P(&items[i]).MarshalWire()
		if err != nil {
			return err
		}
		e.Message(num, nested)
	}
	return nil
}

func appendNested[T any, P wirePtr[T]](items []T, f wire.Field) ([]T, error) {
	var item T
	if err := P(&item).UnmarshalWire(f.Raw()); err != nil {
		return items, err
	}
	return append(items, item), nil
}

func optionalTime(f wire.Field) (*time.Time, error) {
	t, err := f.Time()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func skip(wire.Field) error { return nil }
