package threat

import (
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Board is the bounded, explicit state shared by the send path and the
// background sweep: which senders were active recently and their last score.
type Board struct {
	mu        sync.Mutex
	active    map[string]time.Time
	maxActive int
	window    time.Duration
	scores    *ristretto.Cache[string, float64]
}

func NewBoard(maxActive int, window time.Duration) (*Board, error) {
	scores, err := ristretto.NewCache(&ristretto.Config[string, float64]{
		NumCounters: int64(maxActive) * 10,
		MaxCost:     int64(maxActive),
		BufferItems: 64,
		// One unit per sender, the map overhead is not what we bound here
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Board{
		active:    make(map[string]time.Time),
		maxActive: maxActive,
		window:    window,
		scores:    scores,
	}, nil
}

// Touch marks the sender active at the given instant.
// When the board is full the least recently seen sender is dropped.
func (b *Board) Touch(userID string, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if last, ok := b.active[userID]; ok && last.After(at) {
		return
	}
	b.active[userID] = at
	if len(b.active) <= b.maxActive {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, seen := range b.active {
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(b.active, oldestID)
}

// Active returns the senders seen within the window before now, sorted, and
// forgets the others.
func (b *Board) Active(now time.Time) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := make([]string, 0, len(b.active))
	for id, seen := range b.active {
		if now.Sub(seen) > b.window {
			delete(b.active, id)
			continue
		}
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

func (b *Board) RecordScore(userID string, score float64) {
	b.scores.Set(userID, score, 1)
	b.scores.Wait()
}

func (b *Board) LastScore(userID string) (float64, bool) {
	return b.scores.Get(userID)
}

func (b *Board) Close() {
	b.scores.Close()
}
