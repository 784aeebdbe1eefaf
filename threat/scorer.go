// Package threat scores senders from message metadata only.
// Nothing in this package ever sees message content.
package threat

import (
	"math"
	"sort"
	"tactical-link/domain"
	"time"

	"github.com/samber/lo"
)

const (
	// Window is the recent period considered for frequency and fan-out.
	Window = 60 * time.Second
	// ShortGap is the inter-arrival time under which two sends count as a burst.
	ShortGap = 2 * time.Second
	// QuietGap is the mean inter-arrival time from which history is considered calm.
	QuietGap = 10 * time.Minute
	// OversizedLength is the average plaintext size regarded as bulk exfiltration.
	OversizedLength = 4096

	frequencyWeight = 4.0
	frequencyCap    = 40.0
	fanOutWeight    = 2.5
	fanOutCap       = 30.0
	burstWeight     = 25.0
	oversizedBonus  = 10.0
	quietDiscount   = 20.0
)

type Assessment = domain.Assessment

// Score is a pure function of the metadata sequence, bounded to [0,100].
func Score(recent []domain.MessageMeta) float64 {
	return Assess(recent).Score
}

// Assess scores a sender's recent metadata. The reference instant is the
// latest timestamp of the input, never the wall clock, so the same
// sequence always yields the same result.
//
// Frequency and distinct recipients inside Window raise the score, as do
// consecutive sends closer than ShortGap and oversized payloads. A history
// whose mean spacing exceeds QuietGap is discounted.
func Assess(recent []domain.MessageMeta) Assessment {
	if len(recent) == 0 {
		return Assessment{Level: domain.RiskLow}
	}

	sorted := make([]domain.MessageMeta, len(recent))
	copy(sorted, recent)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	latest := sorted[len(sorted)-1].At
	inWindow := lo.Filter(sorted, func(m domain.MessageMeta, _ int) bool {
		return latest.Sub(m.At) <= Window
	})
	recipients := len(lo.Uniq(lo.Map(inWindow, func(m domain.MessageMeta, _ int) string {
		return m.RecipientID
	})))

	var score float64
	score += math.Min(frequencyCap, float64(len(inWindow))*frequencyWeight)
	score += math.Min(fanOutCap, float64(recipients)*fanOutWeight)

	shortGaps := 0
	if len(sorted) > 1 {
		for i := 1; i < len(sorted); i++ {
			if sorted[i].At.Sub(sorted[i-1].At) < ShortGap {
				shortGaps++
			}
		}
		score += burstWeight * float64(shortGaps) / float64(len(sorted)-1)

		meanGap := sorted[len(sorted)-1].At.Sub(sorted[0].At) / time.Duration(len(sorted)-1)
		if meanGap >= QuietGap {
			score -= quietDiscount
		}
	}

	averageLength := lo.SumBy(inWindow, func(m domain.MessageMeta) int { return m.Length }) / len(inWindow)
	if averageLength >= OversizedLength {
		score += oversizedBonus
	}

	score = math.Round(math.Max(0, math.Min(100, score))*100) / 100
	return Assessment{
		Score:              score,
		Level:              domain.LevelOf(score),
		MessagesInWindow:   len(inWindow),
		DistinctRecipients: recipients,
		ShortGaps:          shortGaps,
	}
}
