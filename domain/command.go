package domain

import "github.com/google/uuid"

// SendCommand carries a send intent from the transport to the engine.
// User ids are used as storage key segments, so ':' is refused.
type SendCommand struct {
	SenderID    string `validate:"required,max=128,excludes=:"`
	RecipientID string `validate:"required,max=128,excludes=:"`
	GroupID     string `validate:"max=128"`
	Plaintext   []byte `validate:"required,min=1"`
	TTLSeconds  int    `validate:"gte=0"`
	ReadOnce    bool
	KeepEcho    bool
}

type SendResult struct {
	MessageID   uuid.UUID
	ThreatScore float64
	RiskLevel   RiskLevel
}

// Token is a signed session token.
type Token string

func (t Token) String() string {
	return string(t)
}
