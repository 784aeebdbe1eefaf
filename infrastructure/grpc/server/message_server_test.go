package server

import (
	"context"
	"fmt"
	"log/slog"
	"tactical-link/auth"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/infrastructure/grpc/rpc"
	"tactical-link/mocks"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newServer(t *testing.T) (*MessageServer, *mocks.MockIMessageService, *mocks.MockIIdentityService) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageService(ctrl)
	identities := mocks.NewMockIIdentityService(ctrl)
	return NewMessageServer(slog.Default(), messages, identities), messages, identities
}

func TestMessageServer_SendUsesCallerAsSender(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	ctx := auth.WithIdentity(context.Background(), "alice", auth.RoleUser)
	id := uuid.New()

	messages.EXPECT().Send(gomock.Any(), domain.SendCommand{
		SenderID:    "alice",
		RecipientID: "bob",
		Plaintext:   []byte("hold position"),
		TTLSeconds:  60,
		ReadOnce:    true,
	}).Return(domain.SendResult{MessageID: id, ThreatScore: 12.5, RiskLevel: domain.RiskLow}, nil)

	resp, err := server.Send(ctx, &rpc.SendRequest{RecipientID: "bob", Content: []byte("hold position"), TTLSeconds: 60, ReadOnce: true})
	req.NoError(err)
	req.Equal(id.String(), resp.MessageID)
	req.Equal(12.5, resp.ThreatScore)
	req.Equal("LOW", resp.RiskLevel)
}

func TestMessageServer_ErrorsAreMapped(t *testing.T) {
	server, messages, _ := newServer(t)
	ctx := auth.WithIdentity(context.Background(), "alice")

	tests := []struct {
		name     string
		err      error
		expected codes.Code
	}{
		{"Recipient not found", fmt.Errorf("%w: ghost", errors.ErrRecipientNotFound), codes.NotFound},
		{"Invalid request", fmt.Errorf("%w: ttl", errors.ErrInvalidRequest), codes.InvalidArgument},
		{"Encryption", errors.ErrEncryption, codes.Internal},
		{"Store unavailable", errors.ErrStoreUnavailable, codes.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages.EXPECT().Send(gomock.Any(), gomock.Any()).Return(domain.SendResult{}, tt.err)
			_, err := server.Send(ctx, &rpc.SendRequest{RecipientID: "ghost", Content: []byte("x")})
			require.Equal(t, tt.expected, status.Code(err))
		})
	}
}

func TestMessageServer_RequiresIdentity(t *testing.T) {
	req := require.New(t)
	server, _, _ := newServer(t)

	_, err := server.Send(context.Background(), &rpc.SendRequest{})
	req.Equal(codes.Unauthenticated, status.Code(err))
	_, err = server.Receive(context.Background(), &rpc.ReceiveRequest{})
	req.Equal(codes.Unauthenticated, status.Code(err))
	_, err = server.ListThreats(context.Background(), &rpc.ListThreatsRequest{})
	req.Equal(codes.Unauthenticated, status.Code(err))
}

func TestMessageServer_ReceiveSplitsSkipped(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	ctx := auth.WithIdentity(context.Background(), "bob")
	good, bad := uuid.New(), uuid.New()

	messages.EXPECT().Receive(gomock.Any(), "bob").Return([]domain.Delivery{
		{Message: domain.DeliveredMessage{ID: good, SenderID: "alice", Content: []byte("ok"), CreatedAt: time.Now()}},
		{Message: domain.DeliveredMessage{ID: bad, SenderID: "mallory"}, Err: fmt.Errorf("%w: message authentication failed", errors.ErrDecryption)},
	}, nil)

	resp, err := server.Receive(ctx, &rpc.ReceiveRequest{})
	req.NoError(err)
	req.Len(resp.Messages, 1)
	req.Equal(good.String(), resp.Messages[0].MessageID)
	req.Equal("ok", string(resp.Messages[0].Content))
	req.Len(resp.Skipped, 1)
	req.Equal(bad.String(), resp.Skipped[0].MessageID)
	req.Equal(errors.ErrDecryption.Error(), resp.Skipped[0].Reason)
}

func TestMessageServer_Delete(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	ctx := auth.WithIdentity(context.Background(), "carol")
	id := uuid.New()

	_, err := server.Delete(ctx, &rpc.DeleteRequest{MessageID: "not-a-uuid"})
	req.Equal(codes.InvalidArgument, status.Code(err))

	messages.EXPECT().DeleteManually(gomock.Any(), id, "carol").Return(errors.ErrUnauthorized)
	_, err = server.Delete(ctx, &rpc.DeleteRequest{MessageID: id.String()})
	req.Equal(codes.PermissionDenied, status.Code(err))

	messages.EXPECT().DeleteManually(gomock.Any(), id, "carol").Return(fmt.Errorf("%w: message", errors.ErrNotFound))
	_, err = server.Delete(ctx, &rpc.DeleteRequest{MessageID: id.String()})
	req.Equal(codes.NotFound, status.Code(err))
}

func TestMessageServer_ConversationUsesCaller(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	ctx := auth.WithIdentity(context.Background(), "alice")
	sent, received := uuid.New(), uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	messages.EXPECT().Conversation(gomock.Any(), "alice", "bob").Return([]domain.ConversationEntry{
		{ID: sent, SenderID: "alice", RecipientID: "bob", Content: []byte("echo"), CreatedAt: at, Outgoing: true, IsRead: true},
		{ID: received, SenderID: "bob", RecipientID: "alice", Content: []byte("reply"), CreatedAt: at.Add(time.Minute), DestructAt: at.Add(time.Hour)},
	}, nil)

	resp, err := server.Conversation(ctx, &rpc.ConversationRequest{PeerID: "bob"})
	req.NoError(err)
	req.Len(resp.Messages, 2)
	req.Equal(sent.String(), resp.Messages[0].MessageID)
	req.True(resp.Messages[0].Outgoing)
	req.Nil(resp.Messages[0].DestructAt)
	req.Equal("reply", string(resp.Messages[1].Content))
	req.Equal(at.Add(time.Hour), *resp.Messages[1].DestructAt)

	messages.EXPECT().Conversation(gomock.Any(), "alice", "").Return(nil, fmt.Errorf("%w: peer", errors.ErrInvalidRequest))
	_, err = server.Conversation(ctx, &rpc.ConversationRequest{})
	req.Equal(codes.InvalidArgument, status.Code(err))

	_, err = server.Conversation(context.Background(), &rpc.ConversationRequest{PeerID: "bob"})
	req.Equal(codes.Unauthenticated, status.Code(err))
}

func TestMessageServer_ScoreOthersNeedsOperator(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	user := auth.WithIdentity(context.Background(), "alice", auth.RoleUser)
	operator := auth.WithIdentity(context.Background(), "ops", auth.RoleOperator)

	messages.EXPECT().Score(gomock.Any(), "alice").Return(domain.Assessment{Score: 10, Level: domain.RiskLow}, nil)
	resp, err := server.Score(user, &rpc.ScoreRequest{})
	req.NoError(err)
	req.Equal("alice", resp.UserID)

	_, err = server.Score(user, &rpc.ScoreRequest{UserID: "bob"})
	req.Equal(codes.PermissionDenied, status.Code(err))

	messages.EXPECT().Score(gomock.Any(), "bob").Return(domain.Assessment{Score: 91, Level: domain.RiskHigh, MessagesInWindow: 30}, nil)
	resp, err = server.Score(operator, &rpc.ScoreRequest{UserID: "bob"})
	req.NoError(err)
	req.Equal("HIGH", resp.RiskLevel)
	req.Equal(30, resp.MessagesInWindow)
}

func TestMessageServer_ThreatsNeedOperator(t *testing.T) {
	req := require.New(t)
	server, messages, _ := newServer(t)
	user := auth.WithIdentity(context.Background(), "alice", auth.RoleUser)
	operator := auth.WithIdentity(context.Background(), "ops", auth.RoleOperator)

	_, err := server.ListThreats(user, &rpc.ListThreatsRequest{})
	req.Equal(codes.PermissionDenied, status.Code(err))
	_, err = server.SearchThreats(user, &rpc.SearchThreatsRequest{})
	req.Equal(codes.PermissionDenied, status.Code(err))

	record := domain.ThreatRecord{ID: uuid.New(), UserID: "alice", Score: 85, Reason: "Automated threat detection - high risk", At: time.Now()}
	messages.EXPECT().RecentThreats(gomock.Any(), 5).Return([]domain.ThreatRecord{record}, nil)
	resp, err := server.ListThreats(operator, &rpc.ListThreatsRequest{Limit: 5})
	req.NoError(err)
	req.Len(resp.Records, 1)
	req.Equal(record.ID.String(), resp.Records[0].ID)

	messages.EXPECT().SearchThreats(gomock.Any(), domain.ThreatQuery{UserID: "alice", MinScore: 80}).Return(nil, nil)
	resp, err = server.SearchThreats(operator, &rpc.SearchThreatsRequest{UserID: "alice", MinScore: 80})
	req.NoError(err)
	req.Empty(resp.Records)
}

func TestMessageServer_Provision(t *testing.T) {
	req := require.New(t)
	server, _, identities := newServer(t)

	identities.EXPECT().Provision(gomock.Any(), "alice").Return(domain.Token("signed"), nil)
	resp, err := server.Provision(context.Background(), &rpc.ProvisionRequest{UserID: "alice"})
	req.NoError(err)
	req.Equal("signed", resp.Token)

	identities.EXPECT().Provision(gomock.Any(), "alice").Return(domain.Token(""), errors.ErrIdentityExists)
	_, err = server.Provision(context.Background(), &rpc.ProvisionRequest{UserID: "alice"})
	req.Equal(codes.AlreadyExists, status.Code(err))
}
