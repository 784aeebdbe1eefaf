package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"tactical-link/auth"
	"tactical-link/infrastructure/grpc/client"
	"tactical-link/internal"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	tokens   *auth.Tokens
	listener *bufconn.Listener
	stop     func()
}

// SetupSuite loads the environment configuration and, without a target
// address, starts an engine on an in-memory store behind a bufconn listener.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.tokens, err = auth.NewTokens(s.Config.JWTSecret, time.Hour)
	s.Require().NoError(err)

	if s.Config.ServerAddr == "" {
		s.startEngine()
	}
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.stop != nil {
		s.stop()
	}
}

func (s *BaseGrpcSuite) startEngine() {
	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	s.Require().NoError(err)

	engine, err := internal.NewEngine(log, internal.Config{
		IdentitySealSecret:      "e2e-identity-seal-secret",
		JWTSecret:               s.Config.JWTSecret,
		AuthTokenDuration:       time.Hour,
		SchedulerTick:           50 * time.Millisecond,
		DestructionParallelism:  4,
		DestructionRetryTimeout: time.Second,
		RecoveryTimeout:         10 * time.Second,
		ThreatSweepInterval:     time.Hour,
		ActiveSenderWindow:      10 * time.Minute,
		MaxActiveSenders:        1000,
		MaxContentLength:        4096,
		MaxTTL:                  24 * time.Hour,
		MetricInterval:          time.Hour,
		RestartInterval:         50 * time.Millisecond,
	}, db)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.Require().NoError(engine.Recover(ctx))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		engine.Run(ctx)
	}()

	s.listener = bufconn.Listen(1024 * 1024)
	server := engine.NewGRPCServer()
	go func() {
		defer wg.Done()
		_ = server.Serve(s.listener)
	}()

	s.stop = func() {
		server.GracefulStop()
		cancel()
		engine.Close()
		wg.Wait()
		_ = db.Close()
	}
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	options := []grpc.DialOption{
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, asJSON(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, asJSON(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	}

	addr := s.Config.ServerAddr
	if addr == "" {
		addr = "passthrough:///bufnet"
		options = append(options, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}))
	}

	conn, err := client.Dial(addr, options...)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithClient provides a client, authenticated with token when not empty, within a contextual test step
func (s *BaseGrpcSuite) WithClient(name, token string, fn func(ctx context.Context, c *client.MessageClient)) {
	conn := s.GrpcConn(s.T(), name)
	c := client.NewMessageClient(conn, token)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, c)
}

// Provision registers a fresh user and returns its id and token.
// A random suffix keeps runs against a long-lived server independent.
func (s *BaseGrpcSuite) Provision(name string) (string, string) {
	userID := fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])
	var token string
	s.WithClient("Provision "+userID, "", func(ctx context.Context, c *client.MessageClient) {
		resp, err := c.Provision(ctx, userID)
		s.Require().NoError(err)
		token = resp.Token
	})
	return userID, token
}

// OperatorToken signs a token carrying the operator role.
func (s *BaseGrpcSuite) OperatorToken(userID string) string {
	token, err := s.tokens.Generate(userID, []string{auth.RoleUser, auth.RoleOperator})
	s.Require().NoError(err)
	return token
}

func asJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
