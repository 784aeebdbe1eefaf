package runtime

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/observability"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	requeueDelay        = time.Second
	retryInitialBackoff = 50 * time.Millisecond
	defaultRetryTimeout = 10 * time.Second
)

var _ contract.Scheduler = (*Scheduler)(nil)
var _ contract.Worker = (*Scheduler)(nil)

type armedEntry struct {
	deadline   time.Time // zero when only the read trigger is armed
	readOnce   bool
	destroying bool
}

// Scheduler tracks every armed message and destroys it when the first of
// its triggers fires: the ttl deadline, the first read, or a manual request.
//
// Destruction of one id runs under its own lock and re-checks the store, so
// concurrent triggers for the same message clear its key exactly once. The
// scheduler mutex only guards the in-memory tables and is never held while
// talking to the store or the codec.
type Scheduler struct {
	log          *slog.Logger
	store        contract.MessageStore
	codec        contract.KeyCodec
	metrics      *observability.Metrics
	tick         time.Duration
	parallelism  int
	retryTimeout time.Duration

	mu        sync.Mutex
	entries   map[uuid.UUID]*armedEntry
	deadlines deadlineHeap
	locks     *keyedMutex
}

func NewScheduler(
	log *slog.Logger,
	store contract.MessageStore,
	codec contract.KeyCodec,
	metrics *observability.Metrics,
	tick time.Duration,
	parallelism int,
	retryTimeout time.Duration,
) *Scheduler {
	if parallelism <= 0 {
		parallelism = 1
	}
	if retryTimeout <= 0 {
		retryTimeout = defaultRetryTimeout
	}
	return &Scheduler{
		log:          log,
		store:        store,
		codec:        codec,
		metrics:      metrics,
		tick:         tick,
		parallelism:  parallelism,
		retryTimeout: retryTimeout,
		entries:      make(map[uuid.UUID]*armedEntry),
		locks:        newKeyedMutex(),
	}
}

// Arm registers the triggers of a freshly created message.
// Permanent messages are never armed.
func (s *Scheduler) Arm(id uuid.UUID, ttlSeconds int, readOnce bool) error {
	if ttlSeconds <= 0 && !readOnce {
		return nil
	}
	var at time.Time
	if ttlSeconds > 0 {
		at = time.Now().Add(domain.TTL(ttlSeconds))
	}
	return s.arm(id, at, readOnce)
}

func (s *Scheduler) arm(id uuid.UUID, at time.Time, readOnce bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; ok {
		return fmt.Errorf("%w: %s", errors.ErrAlreadyArmed, id)
	}
	s.entries[id] = &armedEntry{deadline: at, readOnce: readOnce}
	if !at.IsZero() {
		heap.Push(&s.deadlines, deadline{id: id, at: at})
	}
	return nil
}

// OnRead destroys a read-once message after its delivery.
// Anything else is left untouched.
func (s *Scheduler) OnRead(ctx context.Context, id uuid.UUID) error {
	return s.destroy(ctx, id, observability.CauseRead)
}

// ForceDestroy destroys any live message, armed or not.
// It returns ErrNotFound when the message is unknown or already destroyed.
func (s *Scheduler) ForceDestroy(ctx context.Context, id uuid.UUID) error {
	return s.destroy(ctx, id, observability.CauseManual)
}

// Armed returns the number of messages waiting for destruction.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) IsArmed(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// Run fires the timeout trigger of every due message until ctx is done.
// Due messages of one tick are destroyed in parallel.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Context done, stopping scheduler", "armed", s.Armed())
			return nil
		case <-ticker.C:
			s.destroyDue(ctx, time.Now())
		}
	}
}

func (s *Scheduler) destroyDue(ctx context.Context, now time.Time) {
	due := s.popDue(now)
	if len(due) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for _, id := range due {
		g.Go(func() error {
			if err := s.destroy(ctx, id, observability.CauseTimeout); err != nil {
				s.log.Error("Timed destruction failed, requeued", "id", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// popDue removes every deadline reached at now and returns the live ones.
func (s *Scheduler) popDue(now time.Time) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []uuid.UUID
	for {
		next, ok := s.deadlines.peek()
		if !ok || next.at.After(now) {
			return due
		}
		heap.Pop(&s.deadlines)
		entry, armed := s.entries[next.id]
		if !armed || entry.destroying || !entry.deadline.Equal(next.at) {
			continue
		}
		due = append(due, next.id)
	}
}

// Recover rebuilds the tables from the store after a restart. Deadlines
// already passed are destroyed before Recover returns, the others are
// re-armed with their remaining time.
func (s *Scheduler) Recover(ctx context.Context) error {
	var entries []domain.ArmedEntry
	err := s.retry(ctx, func() error {
		var err error
		entries, err = s.store.ListArmed()
		return err
	})
	if err != nil {
		return fmt.Errorf("list armed messages: %w", err)
	}

	now := time.Now()
	var expired []uuid.UUID
	for _, entry := range entries {
		var at time.Time
		if entry.HasDeadline() {
			// Wall clock remaining time, carried onto the monotonic clock.
			at = now.Add(entry.DestructAt.Sub(now))
			if !at.After(now) {
				at = now
				expired = append(expired, entry.ID)
			}
		}
		if err := s.arm(entry.ID, at, entry.ReadOnce); err != nil && !errors.Is(err, errors.ErrAlreadyArmed) {
			return err
		}
	}

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	failures := make([]error, len(expired))
	for i, id := range expired {
		g.Go(func() error {
			failures[i] = s.destroy(ctx, id, observability.CauseTimeout)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(failures...); err != nil {
		return fmt.Errorf("destroy expired messages: %w", err)
	}
	s.log.Info("Scheduler recovered", "armed", len(entries)-len(expired), "destroyed", len(expired))
	return nil
}

// destroy is the single destruction path of all triggers.
func (s *Scheduler) destroy(ctx context.Context, id uuid.UUID, cause observability.Cause) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	entry, armed := s.entries[id]
	if cause == observability.CauseTimeout && !armed {
		s.mu.Unlock()
		return nil
	}
	if cause == observability.CauseRead && (!armed || !entry.readOnce) {
		s.mu.Unlock()
		return nil
	}
	if armed {
		entry.destroying = true
	}
	s.mu.Unlock()

	var message domain.Message
	err := s.retry(ctx, func() error {
		var err error
		message, err = s.store.Get(id)
		return err
	})
	if errors.Is(err, errors.ErrNotFound) || (err == nil && message.IsDestroyed) {
		s.forget(id)
		if cause == observability.CauseManual {
			return fmt.Errorf("%w: message %s", errors.ErrNotFound, id)
		}
		return nil
	}
	if err != nil {
		s.requeue(id)
		s.metrics.IncrDestructionErrors()
		return fmt.Errorf("load message %s: %w", id, err)
	}

	s.codec.DestroyKey(message.WrappedKey)

	err = s.retry(ctx, func() error { return s.store.Delete(id) })
	if errors.Is(err, errors.ErrNotFound) {
		s.forget(id)
		if cause == observability.CauseManual {
			return err
		}
		return nil
	}
	if err != nil {
		s.requeue(id)
		s.metrics.IncrDestructionErrors()
		return fmt.Errorf("delete message %s: %w", id, err)
	}

	s.forget(id)
	s.metrics.IncrDestroyed(cause)
	s.log.Info("Message destroyed", "id", id, "cause", cause)
	return nil
}

func (s *Scheduler) forget(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// requeue hands a failed destruction to the timeout loop. The key is already
// revoked at that point, so retrying early never exposes content.
func (s *Scheduler) requeue(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := time.Now().Add(requeueDelay)
	entry, ok := s.entries[id]
	if !ok {
		entry = &armedEntry{}
		s.entries[id] = entry
	}
	entry.destroying = false
	entry.deadline = at
	heap.Push(&s.deadlines, deadline{id: id, at: at})
}

// retry repeats op while the store is unavailable, with exponential backoff
// bounded by retryTimeout. Other errors stop immediately.
func (s *Scheduler) retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialBackoff
	policy.MaxElapsedTime = s.retryTimeout
	return backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, errors.ErrStoreUnavailable) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(policy, ctx))
}
