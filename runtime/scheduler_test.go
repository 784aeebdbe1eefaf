package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/infrastructure/storage"
	"tactical-link/keycodec"
	"tactical-link/mocks"
	"tactical-link/observability"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store     storage.MessageRepository
	codec     *keycodec.Codec
	scheduler *Scheduler
	metrics   *observability.Metrics
}

func newFixture(t *testing.T) fixture {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store := storage.NewMessageRepository(db, log, nil)
	codec := keycodec.NewCodec()
	metrics := observability.NewMetrics()
	return fixture{
		store:     store,
		codec:     codec,
		scheduler: NewScheduler(log, store, codec, metrics, 20*time.Millisecond, 4, time.Second),
		metrics:   metrics,
	}
}

// send stores an encrypted message and arms it, the way the message service does.
func (f fixture) send(t *testing.T, ttl int, readOnce bool) (uuid.UUID, domain.Sealed) {
	public, _, err := f.codec.GenerateKeyPair()
	require.NoError(t, err)
	sealed, err := f.codec.Encrypt([]byte("this message will self destruct"), public)
	require.NoError(t, err)
	id, err := f.store.Create(domain.Message{
		SenderID:    "alice",
		RecipientID: "bob",
		Ciphertext:  sealed.Ciphertext,
		WrappedKey:  sealed.WrappedKey,
		CreatedAt:   time.Now().UTC(),
		TTLSeconds:  ttl,
		ReadOnce:    readOnce,
	})
	require.NoError(t, err)
	require.NoError(t, f.scheduler.Arm(id, ttl, readOnce))
	return id, sealed
}

func (f fixture) destroyed(t *testing.T, id uuid.UUID) bool {
	message, err := f.store.Get(id)
	require.NoError(t, err)
	return message.IsDestroyed
}

func TestScheduler_PermanentMessagesAreNeverArmed(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	id, _ := f.send(t, 0, false)
	req.Equal(0, f.scheduler.Armed())

	f.scheduler.destroyDue(context.Background(), time.Now().Add(24*time.Hour))
	req.False(f.destroyed(t, id))

	// Reading a permanent message never destroys it
	req.NoError(f.scheduler.OnRead(context.Background(), id))
	req.False(f.destroyed(t, id))
}

func TestScheduler_ArmTwice(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	id := uuid.New()
	req.NoError(f.scheduler.Arm(id, 10, false))
	req.ErrorIs(f.scheduler.Arm(id, 10, false), errors.ErrAlreadyArmed)
}

func TestScheduler_TimeoutFiresAfterDeadline(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	id, _ := f.send(t, 1, false)
	go func() { _ = f.scheduler.Run(ctx) }()

	// Never before the deadline
	time.Sleep(800 * time.Millisecond)
	req.False(f.destroyed(t, id))

	req.Eventually(func() bool { return f.destroyed(t, id) }, 2*time.Second, 20*time.Millisecond)
	req.GreaterOrEqual(time.Since(start), time.Second)
	req.False(f.scheduler.IsArmed(id))
	req.Equal(uint64(1), f.metrics.Snapshot().DestroyedByTimeout)
}

func TestScheduler_HugeTTLNeverFiresEarly(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Multiplied out in nanoseconds this ttl wraps to a fraction of a second
	id, _ := f.send(t, int(domain.MaxTTLSeconds+1), false)
	go func() { _ = f.scheduler.Run(ctx) }()

	time.Sleep(500 * time.Millisecond)
	req.False(f.destroyed(t, id))
	req.True(f.scheduler.IsArmed(id))
}

func TestScheduler_ReadOnceDestroyedOnRead(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	readOnce, _ := f.send(t, 60, true)
	timed, _ := f.send(t, 60, false)

	req.NoError(f.scheduler.OnRead(ctx, readOnce))
	req.True(f.destroyed(t, readOnce))
	req.False(f.scheduler.IsArmed(readOnce))

	// The read trigger only concerns read-once messages
	req.NoError(f.scheduler.OnRead(ctx, timed))
	req.False(f.destroyed(t, timed))
	req.True(f.scheduler.IsArmed(timed))

	message, err := f.store.Get(readOnce)
	req.NoError(err)
	req.Empty(message.Ciphertext)
	req.Empty(message.WrappedKey)
}

func TestScheduler_DestroyedKeyNeverDecryptsAgain(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	public, private, err := f.codec.GenerateKeyPair()
	req.NoError(err)
	sealed, err := f.codec.Encrypt([]byte("burn after reading"), public)
	req.NoError(err)
	id, err := f.store.Create(domain.Message{
		SenderID:    "alice",
		RecipientID: "bob",
		Ciphertext:  sealed.Ciphertext,
		WrappedKey:  sealed.WrappedKey,
		CreatedAt:   time.Now().UTC(),
		ReadOnce:    true,
	})
	req.NoError(err)
	req.NoError(f.scheduler.Arm(id, 0, true))

	req.NoError(f.scheduler.OnRead(context.Background(), id))

	// Even a copy of the ciphertext and wrapped key is useless now
	_, err = f.codec.Decrypt(sealed.Ciphertext, sealed.WrappedKey, private)
	req.ErrorIs(err, errors.ErrDecryption)
}

func TestScheduler_ManualDestruction(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	permanent, _ := f.send(t, 0, false)
	armed, _ := f.send(t, 60, false)

	req.NoError(f.scheduler.ForceDestroy(ctx, permanent))
	req.NoError(f.scheduler.ForceDestroy(ctx, armed))
	req.True(f.destroyed(t, permanent))
	req.True(f.destroyed(t, armed))
	req.Equal(0, f.scheduler.Armed())

	req.ErrorIs(f.scheduler.ForceDestroy(ctx, armed), errors.ErrNotFound)
	req.ErrorIs(f.scheduler.ForceDestroy(ctx, uuid.New()), errors.ErrNotFound)
	req.Equal(uint64(2), f.metrics.Snapshot().DestroyedManually)
}

func TestScheduler_ConcurrentTriggersClearKeyOnce(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	codec := mocks.NewMockKeyCodec(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	scheduler := NewScheduler(log, store, codec, nil, time.Hour, 8, time.Second)
	ctx := context.Background()

	const messages = 50
	for i := 0; i < messages; i++ {
		id := uuid.New()
		message := domain.Message{ID: id, WrappedKey: []byte(id.String()), ReadOnce: true, TTLSeconds: 1}
		var deleted atomic.Bool

		store.EXPECT().Get(id).DoAndReturn(func(uuid.UUID) (domain.Message, error) {
			m := message
			m.IsDestroyed = deleted.Load()
			return m, nil
		}).AnyTimes()
		store.EXPECT().Delete(id).DoAndReturn(func(uuid.UUID) error {
			deleted.Store(true)
			return nil
		}).Times(1)
		codec.EXPECT().DestroyKey(message.WrappedKey).Times(1)

		req.NoError(scheduler.Arm(id, 1, true))

		var wg sync.WaitGroup
		manual := make(chan error, 1)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = scheduler.OnRead(ctx, id)
		}()
		go func() {
			defer wg.Done()
			manual <- scheduler.ForceDestroy(ctx, id)
		}()
		scheduler.destroyDue(ctx, time.Now().Add(time.Hour))
		wg.Wait()

		// Whoever lost the race saw the message already gone
		if err := <-manual; err != nil {
			req.ErrorIs(err, errors.ErrNotFound)
		}
		req.True(deleted.Load())
	}
	req.Equal(0, scheduler.Armed())
	req.Equal(0, scheduler.locks.size())
}

func TestScheduler_FailedDeletionIsRequeued(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	codec := mocks.NewMockKeyCodec(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	metrics := observability.NewMetrics()
	scheduler := NewScheduler(log, store, codec, metrics, time.Hour, 1, 100*time.Millisecond)
	ctx := context.Background()

	id := uuid.New()
	message := domain.Message{ID: id, WrappedKey: []byte("wrapped"), TTLSeconds: 30}
	var failing atomic.Bool
	failing.Store(true)

	store.EXPECT().Get(id).Return(message, nil).AnyTimes()
	store.EXPECT().Delete(id).DoAndReturn(func(uuid.UUID) error {
		if failing.Load() {
			return errors.ErrStoreUnavailable
		}
		return nil
	}).MinTimes(2)
	// Clearing the key again on retry is a no-op
	codec.EXPECT().DestroyKey(message.WrappedKey).Times(2)

	req.NoError(scheduler.Arm(id, 30, false))
	err := scheduler.ForceDestroy(ctx, id)
	req.ErrorIs(err, errors.ErrStoreUnavailable)
	req.True(scheduler.IsArmed(id))
	req.Equal(uint64(1), metrics.Snapshot().DestructionErrors)

	failing.Store(false)
	scheduler.destroyDue(ctx, time.Now().Add(2*requeueDelay))
	req.False(scheduler.IsArmed(id))
	req.Equal(uint64(1), metrics.Snapshot().DestroyedByTimeout)
}

func TestScheduler_Recover(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	create := func(createdAt time.Time, ttl int, readOnce bool) uuid.UUID {
		id, err := f.store.Create(domain.Message{
			SenderID:    "alice",
			RecipientID: "bob",
			Ciphertext:  []byte("ciphertext"),
			WrappedKey:  []byte(uuid.NewString()),
			CreatedAt:   createdAt.UTC(),
			TTLSeconds:  ttl,
			ReadOnce:    readOnce,
		})
		req.NoError(err)
		return id
	}
	now := time.Now()
	expired := create(now.Add(-10*time.Second), 5, false)
	future := create(now, 60, false)
	readOnce := create(now, 0, true)
	permanent := create(now, 0, false)

	req.NoError(f.scheduler.Recover(ctx))

	req.True(f.destroyed(t, expired))
	req.False(f.destroyed(t, future))
	req.False(f.destroyed(t, readOnce))
	req.False(f.destroyed(t, permanent))
	req.Equal(2, f.scheduler.Armed())
	req.True(f.scheduler.IsArmed(future))
	req.True(f.scheduler.IsArmed(readOnce))

	// Re-armed triggers still fire
	req.NoError(f.scheduler.OnRead(ctx, readOnce))
	req.True(f.destroyed(t, readOnce))

	// A second recovery finds only what is left
	restarted := NewScheduler(f.scheduler.log, f.store, f.codec, nil, time.Hour, 2, time.Second)
	req.NoError(restarted.Recover(ctx))
	req.Equal(1, restarted.Armed())
	req.True(restarted.IsArmed(future))
}

func TestScheduler_RecoverStoreUnavailable(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	scheduler := NewScheduler(log, store, mocks.NewMockKeyCodec(ctrl), nil, time.Hour, 1, 100*time.Millisecond)

	store.EXPECT().ListArmed().Return(nil, errors.ErrStoreUnavailable).MinTimes(1)

	req.ErrorIs(scheduler.Recover(context.Background()), errors.ErrStoreUnavailable)
}
