package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ElevatedThreshold is the score above which a send is logged.
	ElevatedThreshold = 70.0
	// CriticalThreshold is the score above which the background sweep logs.
	CriticalThreshold = 80.0
	mediumThreshold   = 40.0
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// LevelOf buckets a score the way operators read it.
func LevelOf(score float64) RiskLevel {
	switch {
	case score > ElevatedThreshold:
		return RiskHigh
	case score > mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Assessment is the explained result of a score.
type Assessment struct {
	Score              float64
	Level              RiskLevel
	MessagesInWindow   int
	DistinctRecipients int
	ShortGaps          int
}

// MessageMeta is everything the threat scorer is allowed to see about a message.
type MessageMeta struct {
	RecipientID string
	Length      int
	At          time.Time
}

// ThreatRecord is an append-only log entry. It is derived data, never authoritative.
type ThreatRecord struct {
	ID                 uuid.UUID
	UserID             string
	Score              float64
	Reason             string
	At                 time.Time
	MessageCount       int
	DistinctRecipients int
}

// ThreatQuery filters the threat index.
type ThreatQuery struct {
	UserID   string
	MinScore float64
	Limit    int
}
