package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"tactical-link/auth"
	"tactical-link/infrastructure/grpc/rpc"
	"tactical-link/infrastructure/grpc/server"
	"tactical-link/infrastructure/search"
	"tactical-link/infrastructure/storage"
	"tactical-link/keycodec"
	"tactical-link/observability"
	"tactical-link/runtime"
	"tactical-link/runtime/workers"
	"tactical-link/services"
	"tactical-link/threat"

	"github.com/dgraph-io/badger/v4"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

// threatReplayLimit bounds how much of the threat log is replayed into the index at start.
const threatReplayLimit = 10_000

// Engine wires the repositories, the destruction scheduler, the threat
// workers and the gRPC surface on top of one badger instance.
type Engine struct {
	log        *slog.Logger
	config     Config
	db         *badger.DB
	Metrics    *observability.Metrics
	Scheduler  *runtime.Scheduler
	Messages   *services.MessageService
	Identities *services.IdentityService
	Tokens     *auth.Tokens
	store      storage.MessageRepository
	supervisor *workers.Supervisor
	index      *search.ThreatIndex
	board      *threat.Board
	threatLog  storage.ThreatRepository
	closeOnce  sync.Once
}

func NewEngine(log *slog.Logger, config Config, db *badger.DB) (*Engine, error) {
	metrics := observability.NewMetrics()
	messageRepository := storage.NewMessageRepository(db, log, config.LimitMessages)
	threatRepository := storage.NewThreatRepository(db, log)
	identityRepository, err := storage.NewIdentityRepository(db, log, []byte(config.IdentitySealSecret))
	if err != nil {
		return nil, fmt.Errorf("identity store: %w", err)
	}

	index, err := search.NewThreatIndex(config.ThreatIndexPath, log)
	if err != nil {
		return nil, fmt.Errorf("threat index: %w", err)
	}
	board, err := threat.NewBoard(config.MaxActiveSenders, config.ActiveSenderWindow)
	if err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("threat board: %w", err)
	}
	tokens, err := auth.NewTokens(config.JWTSecret, config.AuthTokenDuration)
	if err != nil {
		_ = index.Close()
		board.Close()
		return nil, err
	}

	codec := keycodec.NewCodec()
	scheduler := runtime.NewScheduler(log, messageRepository, codec, metrics,
		config.SchedulerTick, config.DestructionParallelism, config.DestructionRetryTimeout)
	metrics.WatchArmed(scheduler.Armed)

	recorder := threat.NewRecorder(log, threatRepository, index, metrics)
	supervisor := workers.NewSupervisor(log, metrics, config.RestartInterval)
	supervisor.Add(
		scheduler,
		workers.NewThreatSweepWorker(log, messageRepository, board, recorder, config.ThreatSweepInterval),
		workers.NewReporterWorker(log, metrics, config.MetricInterval),
	)
	if config.DebugPort > 0 {
		supervisor.Add(NewDebugServer(log, db, config.DebugPort, metrics.Snapshot))
	}

	return &Engine{
		log:       log,
		config:    config,
		db:        db,
		Metrics:   metrics,
		Scheduler: scheduler,
		Messages: services.NewMessageService(log, identityRepository, messageRepository, codec, scheduler,
			threatRepository, index, board, metrics, config.MaxContentLength, config.MaxTTL),
		Identities: services.NewIdentityService(log, identityRepository, codec, tokens),
		Tokens:     tokens,
		store:      messageRepository,
		supervisor: supervisor,
		index:      index,
		board:      board,
		threatLog:  threatRepository,
	}, nil
}

// Recover re-arms the destruction obligations found in the store and
// destroys the overdue ones. It must complete before the engine serves.
func (e *Engine) Recover(ctx context.Context) error {
	if e.config.RecoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RecoveryTimeout)
		defer cancel()
	}
	purged, err := e.store.FinishPurges()
	if err != nil {
		return fmt.Errorf("finish purges: %w", err)
	}
	if purged > 0 {
		e.log.Info("Finished interrupted purges", "count", purged)
	}

	if err := e.Scheduler.Recover(ctx); err != nil {
		return fmt.Errorf("scheduler recovery: %w", err)
	}

	records, err := e.threatLog.ListRecent(threatReplayLimit)
	if err != nil {
		return fmt.Errorf("threat log replay: %w", err)
	}
	if err := e.index.Rebuild(records); err != nil {
		// The log stays authoritative, search is degraded until new records come in
		e.log.Warn("Unable to rebuild threat index", "error", err)
	}
	return nil
}

// Run blocks while the supervised workers are running.
func (e *Engine) Run(ctx context.Context) {
	e.supervisor.Run(ctx)
}

// NewGRPCServer builds the server with logging and authentication interceptors.
func (e *Engine) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		grpc3.UnaryLoggingInterceptor(e.log),
		auth.AuthInterceptor(e.Tokens, rpc.PublicMethods...),
	))
	s := grpc.NewServer(opts...)
	rpc.RegisterMessageServiceServer(s, server.NewMessageServer(e.log, e.Messages, e.Identities))
	return s
}

// Close stops the workers and releases the index and the board, once.
// The badger instance belongs to the caller.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.supervisor.Stop()
		if err := e.index.Close(); err != nil {
			e.log.Warn("Unable to close threat index", "error", err)
		}
		e.board.Close()
	})
}
