package server

import (
	"context"
	"fmt"
	"log/slog"
	"tactical-link/auth"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/infrastructure/grpc/rpc"
	"tactical-link/services"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ rpc.MessageServiceServer = (*MessageServer)(nil)

// MessageServer exposes the engine over gRPC. The caller identity always
// comes from the authenticated context, never from the request body.
type MessageServer struct {
	log             *slog.Logger
	messageService  services.IMessageService
	identityService services.IIdentityService
}

func NewMessageServer(log *slog.Logger, messageService services.IMessageService, identityService services.IIdentityService) *MessageServer {
	return &MessageServer{log: log, messageService: messageService, identityService: identityService}
}

func (s *MessageServer) Provision(ctx context.Context, req *rpc.ProvisionRequest) (*rpc.TokenResponse, error) {
	token, err := s.identityService.Provision(ctx, req.UserID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.TokenResponse{UserID: req.UserID, Token: token.String()}, nil
}

func (s *MessageServer) Send(ctx context.Context, req *rpc.SendRequest) (*rpc.SendResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.messageService.Send(ctx, domain.SendCommand{
		SenderID:    caller,
		RecipientID: req.RecipientID,
		GroupID:     req.GroupID,
		Plaintext:   req.Content,
		TTLSeconds:  req.TTLSeconds,
		ReadOnce:    req.ReadOnce,
		KeepEcho:    req.KeepEcho,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.SendResponse{
		MessageID:   result.MessageID.String(),
		ThreatScore: result.ThreatScore,
		RiskLevel:   string(result.RiskLevel),
	}, nil
}

func (s *MessageServer) Receive(ctx context.Context, _ *rpc.ReceiveRequest) (*rpc.ReceiveResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.messageService.Receive(ctx, caller)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}

	delivered, skipped := lo.FilterReject(deliveries, func(d domain.Delivery, _ int) bool { return d.Err == nil })
	return &rpc.ReceiveResponse{
		Messages: lo.Map(delivered, func(d domain.Delivery, _ int) rpc.Message {
			return rpc.Message{
				MessageID: d.Message.ID.String(),
				SenderID:  d.Message.SenderID,
				GroupID:   d.Message.GroupID,
				Content:   d.Message.Content,
				CreatedAt: d.Message.CreatedAt,
				ReadOnce:  d.Message.ReadOnce,
			}
		}),
		Skipped: lo.Map(skipped, func(d domain.Delivery, _ int) rpc.Skipped {
			return rpc.Skipped{
				MessageID: d.Message.ID.String(),
				SenderID:  d.Message.SenderID,
				Reason:    skipReason(d.Err),
			}
		}),
	}, nil
}

func (s *MessageServer) Delete(ctx context.Context, req *rpc.DeleteRequest) (*rpc.DeleteResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(req.MessageID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid message id %q", req.MessageID)
	}
	if err := s.messageService.DeleteManually(ctx, id, caller); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.DeleteResponse{}, nil
}

// Score rates the caller, or any user when the caller is an operator.
func (s *MessageServer) Score(ctx context.Context, req *rpc.ScoreRequest) (*rpc.ScoreResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	userID := lo.Ternary(req.UserID == "", caller, req.UserID)
	if userID != caller && !auth.HasRole(ctx, auth.RoleOperator) {
		return nil, status.Error(codes.PermissionDenied, "only operators can score other users")
	}
	assessment, err := s.messageService.Score(ctx, userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.ScoreResponse{
		UserID:             userID,
		Score:              assessment.Score,
		RiskLevel:          string(assessment.Level),
		MessagesInWindow:   assessment.MessagesInWindow,
		DistinctRecipients: assessment.DistinctRecipients,
	}, nil
}

func (s *MessageServer) ListSent(ctx context.Context, _ *rpc.ListSentRequest) (*rpc.ListSentResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	sent, err := s.messageService.ListSent(ctx, caller)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.ListSentResponse{
		Messages: lo.Map(sent, func(m domain.SentMessage, _ int) rpc.SentMessage {
			return rpc.SentMessage{
				MessageID:   m.ID.String(),
				RecipientID: m.RecipientID,
				GroupID:     m.GroupID,
				Echo:        m.Echo,
				CreatedAt:   m.CreatedAt,
				DestructAt:  lo.Ternary(m.DestructAt.IsZero(), nil, lo.ToPtr(m.DestructAt)),
				ReadOnce:    m.ReadOnce,
				IsRead:      m.IsRead,
			}
		}),
	}, nil
}

// Conversation lists the live history between the caller and the requested peer.
func (s *MessageServer) Conversation(ctx context.Context, req *rpc.ConversationRequest) (*rpc.ConversationResponse, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.messageService.Conversation(ctx, caller, req.PeerID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &rpc.ConversationResponse{
		Messages: lo.Map(entries, func(m domain.ConversationEntry, _ int) rpc.ConversationEntry {
			return rpc.ConversationEntry{
				MessageID:   m.ID.String(),
				SenderID:    m.SenderID,
				RecipientID: m.RecipientID,
				GroupID:     m.GroupID,
				Content:     m.Content,
				CreatedAt:   m.CreatedAt,
				DestructAt:  lo.Ternary(m.DestructAt.IsZero(), nil, lo.ToPtr(m.DestructAt)),
				Outgoing:    m.Outgoing,
				IsRead:      m.IsRead,
			}
		}),
	}, nil
}

func (s *MessageServer) ListThreats(ctx context.Context, req *rpc.ListThreatsRequest) (*rpc.ThreatsResponse, error) {
	if err := requireOperator(ctx); err != nil {
		return nil, err
	}
	records, err := s.messageService.RecentThreats(ctx, req.Limit)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toThreatsResponse(records), nil
}

func (s *MessageServer) SearchThreats(ctx context.Context, req *rpc.SearchThreatsRequest) (*rpc.ThreatsResponse, error) {
	if err := requireOperator(ctx); err != nil {
		return nil, err
	}
	records, err := s.messageService.SearchThreats(ctx, domain.ThreatQuery{
		UserID:   req.UserID,
		MinScore: req.MinScore,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toThreatsResponse(records), nil
}

func callerOf(ctx context.Context) (string, error) {
	caller, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller identity is missing")
	}
	return caller, nil
}

func requireOperator(ctx context.Context) error {
	if _, err := callerOf(ctx); err != nil {
		return err
	}
	if !auth.HasRole(ctx, auth.RoleOperator) {
		return status.Error(codes.PermissionDenied, fmt.Sprintf("%s role required", auth.RoleOperator))
	}
	return nil
}

// skipReason keeps cryptographic detail out of the response.
func skipReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrDecryption):
		return errors.ErrDecryption.Error()
	case errors.Is(err, errors.ErrStoreUnavailable):
		return errors.ErrStoreUnavailable.Error()
	default:
		return "not delivered"
	}
}

func toThreatsResponse(records []domain.ThreatRecord) *rpc.ThreatsResponse {
	return &rpc.ThreatsResponse{
		Records: lo.Map(records, func(r domain.ThreatRecord, _ int) rpc.ThreatRecord {
			return rpc.ThreatRecord{
				ID:                 r.ID.String(),
				UserID:             r.UserID,
				Score:              r.Score,
				Reason:             r.Reason,
				At:                 r.At,
				MessageCount:       r.MessageCount,
				DistinctRecipients: r.DistinctRecipients,
			}
		}),
	}
}
