//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"fmt"
	"log/slog"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/errors"
	"tactical-link/observability"
	"tactical-link/threat"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const defaultThreatListLimit = 20

type IMessageService interface {
	Send(ctx context.Context, cmd domain.SendCommand) (domain.SendResult, error)
	Receive(ctx context.Context, recipientID string) ([]domain.Delivery, error)
	DeleteManually(ctx context.Context, messageID uuid.UUID, requesterID string) error
	Score(ctx context.Context, userID string) (domain.Assessment, error)
	ListSent(ctx context.Context, senderID string) ([]domain.SentMessage, error)
	Conversation(ctx context.Context, userID, peerID string) ([]domain.ConversationEntry, error)
	RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error)
	SearchThreats(ctx context.Context, query domain.ThreatQuery) ([]domain.ThreatRecord, error)
}

// MessageService orchestrates encryption, persistence, destruction triggers
// and threat scoring. It holds no message state of its own.
type MessageService struct {
	log              *slog.Logger
	identities       contract.IdentityStore
	messages         contract.MessageStore
	codec            contract.KeyCodec
	scheduler        contract.Scheduler
	threatLog        contract.ThreatLog
	index            contract.ThreatIndex
	board            *threat.Board
	recorder         *threat.Recorder
	metrics          *observability.Metrics
	validate         *validator.Validate
	maxContentLength int
	maxTTL           time.Duration
}

func NewMessageService(
	log *slog.Logger,
	identities contract.IdentityStore,
	messages contract.MessageStore,
	codec contract.KeyCodec,
	scheduler contract.Scheduler,
	threatLog contract.ThreatLog,
	index contract.ThreatIndex,
	board *threat.Board,
	metrics *observability.Metrics,
	maxContentLength int,
	maxTTL time.Duration,
) *MessageService {
	return &MessageService{
		log:              log,
		identities:       identities,
		messages:         messages,
		codec:            codec,
		scheduler:        scheduler,
		threatLog:        threatLog,
		index:            index,
		board:            board,
		recorder:         threat.NewRecorder(log, threatLog, index, metrics),
		metrics:          metrics,
		validate:         validator.New(),
		maxContentLength: maxContentLength,
		maxTTL:           maxTTL,
	}
}

// Send encrypts the plaintext for the recipient, persists it, arms its
// destruction triggers and scores the sender. The plaintext is never stored
// unless the sender asked for an echo.
func (s *MessageService) Send(ctx context.Context, cmd domain.SendCommand) (domain.SendResult, error) {
	if err := s.validateSend(cmd); err != nil {
		return domain.SendResult{}, err
	}

	public, err := s.identities.GetPublicKey(cmd.RecipientID)
	if err != nil {
		return domain.SendResult{}, err
	}

	sealed, err := s.codec.Encrypt(cmd.Plaintext, public)
	if err != nil {
		if !errors.Is(err, errors.ErrEncryption) {
			err = fmt.Errorf("%w: %v", errors.ErrEncryption, err)
		}
		return domain.SendResult{}, err
	}

	now := time.Now().UTC()
	message := domain.Message{
		SenderID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		GroupID:     cmd.GroupID,
		Ciphertext:  sealed.Ciphertext,
		WrappedKey:  sealed.WrappedKey,
		Length:      len(cmd.Plaintext),
		CreatedAt:   now,
		TTLSeconds:  cmd.TTLSeconds,
		ReadOnce:    cmd.ReadOnce,
	}
	if cmd.KeepEcho {
		message.PlaintextEcho = bytes.Clone(cmd.Plaintext)
	}

	id, err := s.messages.Create(message)
	if err != nil {
		return domain.SendResult{}, fmt.Errorf("persist message: %w", err)
	}

	if err := s.scheduler.Arm(id, cmd.TTLSeconds, cmd.ReadOnce); err != nil {
		// An ephemeral message must never live without its trigger.
		s.codec.DestroyKey(sealed.WrappedKey)
		if delErr := s.messages.Delete(id); delErr != nil {
			s.log.Error("Unable to roll back unarmed message", "id", id, "error", delErr)
		}
		return domain.SendResult{}, fmt.Errorf("arm message %s: %w", id, err)
	}
	s.metrics.IncrSent()
	s.log.Debug("Message sent", "id", id, "sender", cmd.SenderID, "ttl", cmd.TTLSeconds, "read_once", cmd.ReadOnce)

	s.board.Touch(cmd.SenderID, now)
	assessment, count, err := s.assess(cmd.SenderID)
	if err != nil {
		// The message is stored and armed, a scoring failure must not fail the send.
		s.log.Warn("Unable to score sender", "sender", cmd.SenderID, "error", err)
	} else if assessment.Score > domain.ElevatedThreshold {
		if _, err := s.recorder.Record(cmd.SenderID, assessment, count, threat.ReasonSuspiciousPattern, now); err != nil {
			s.log.Error("Unable to record threat", "sender", cmd.SenderID, "error", err)
		}
	}

	return domain.SendResult{
		MessageID:   id,
		ThreatScore: assessment.Score,
		RiskLevel:   lo.Ternary(assessment.Level == "", domain.RiskLow, assessment.Level),
	}, nil
}

// Receive decrypts every pending message of the recipient.
// Each result carries its own error: a message that can't be decrypted is
// reported and skipped, the others are still delivered. Delivered messages
// are marked read and their read trigger fired.
func (s *MessageService) Receive(ctx context.Context, recipientID string) ([]domain.Delivery, error) {
	if err := s.validate.Var(recipientID, "required,max=128,excludes=:"); err != nil {
		return nil, fmt.Errorf("%w: recipient: %v", errors.ErrInvalidRequest, err)
	}

	pending, err := s.messages.ListPendingFor(recipientID)
	if err != nil {
		return nil, err
	}
	deliveries := make([]domain.Delivery, 0, len(pending))
	if len(pending) == 0 {
		return deliveries, nil
	}

	private, err := s.identities.GetPrivateKey(recipientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, message := range pending {
		if ctx.Err() != nil {
			return deliveries, ctx.Err()
		}
		// Past its deadline, the scheduler will sweep it
		if message.Expired(now) {
			continue
		}

		plaintext, err := s.codec.Decrypt(message.Ciphertext, message.WrappedKey, private)
		if err != nil {
			if s.destroyedMeanwhile(message.ID) {
				continue
			}
			s.metrics.IncrDecryptFailures()
			s.log.Warn("Skipping undecryptable message", "id", message.ID, "recipient", recipientID, "error", err)
			deliveries = append(deliveries, domain.Delivery{Message: header(message), Err: err})
			continue
		}

		if err := s.messages.MarkRead(message.ID); err != nil {
			// Destroyed meanwhile, or a concurrent receive already delivered it
			if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrAlreadyRead) {
				continue
			}
			s.log.Warn("Unable to mark message read", "id", message.ID, "error", err)
			deliveries = append(deliveries, domain.Delivery{Message: header(message), Err: err})
			continue
		}

		if err := s.scheduler.OnRead(ctx, message.ID); err != nil {
			// The key is revoked before deletion, a failed deletion is retried by the scheduler.
			s.log.Error("Read-once destruction failed", "id", message.ID, "error", err)
		}

		delivered := header(message)
		delivered.Content = plaintext
		deliveries = append(deliveries, domain.Delivery{Message: delivered})
		s.metrics.IncrDelivered()
	}
	return deliveries, nil
}

// DeleteManually destroys a message on behalf of its sender or recipient.
func (s *MessageService) DeleteManually(ctx context.Context, messageID uuid.UUID, requesterID string) error {
	message, err := s.messages.Get(messageID)
	if err != nil {
		return err
	}
	if message.IsDestroyed {
		return fmt.Errorf("%w: message %s", errors.ErrNotFound, messageID)
	}
	if requesterID != message.SenderID && requesterID != message.RecipientID {
		return fmt.Errorf("%w: %s is neither sender nor recipient of %s", errors.ErrUnauthorized, requesterID, messageID)
	}
	return s.scheduler.ForceDestroy(ctx, messageID)
}

// Score rates a user from the last messages it sent.
func (s *MessageService) Score(ctx context.Context, userID string) (domain.Assessment, error) {
	assessment, _, err := s.assess(userID)
	return assessment, err
}

// ListSent returns the sender's own live messages, with the echo when one was kept.
func (s *MessageService) ListSent(ctx context.Context, senderID string) ([]domain.SentMessage, error) {
	messages, err := s.messages.ListSent(senderID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	live := lo.Filter(messages, func(m domain.Message, _ int) bool { return !m.Expired(now) })
	return lo.Map(live, func(m domain.Message, _ int) domain.SentMessage {
		destructAt, _ := m.DestructAt()
		return domain.SentMessage{
			ID:          m.ID,
			RecipientID: m.RecipientID,
			GroupID:     m.GroupID,
			Echo:        m.PlaintextEcho,
			CreatedAt:   m.CreatedAt,
			DestructAt:  destructAt,
			ReadOnce:    m.ReadOnce,
			IsRead:      m.IsRead,
		}
	}), nil
}

// Conversation returns the live history between userID and peerID, oldest first.
// Received messages are decrypted without being marked read, outgoing ones
// carry the sender's echo. Read-once messages never show here, they are only
// ever delivered once through Receive.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID string) ([]domain.ConversationEntry, error) {
	if err := s.validate.Var(userID, "required,max=128,excludes=:"); err != nil {
		return nil, fmt.Errorf("%w: user: %v", errors.ErrInvalidRequest, err)
	}
	if err := s.validate.Var(peerID, "required,max=128,excludes=:"); err != nil {
		return nil, fmt.Errorf("%w: peer: %v", errors.ErrInvalidRequest, err)
	}

	messages, err := s.messages.ListConversation(userID, peerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	live := lo.Filter(messages, func(m domain.Message, _ int) bool {
		return !m.IsDestroyed && !m.ReadOnce && !m.Expired(now)
	})
	entries := make([]domain.ConversationEntry, 0, len(live))
	if len(live) == 0 {
		return entries, nil
	}

	var private *ecdh.PrivateKey
	if lo.SomeBy(live, func(m domain.Message) bool { return m.RecipientID == userID }) {
		if private, err = s.identities.GetPrivateKey(userID); err != nil {
			return nil, err
		}
	}

	for _, message := range live {
		if ctx.Err() != nil {
			return entries, ctx.Err()
		}
		destructAt, _ := message.DestructAt()
		entry := domain.ConversationEntry{
			ID:          message.ID,
			SenderID:    message.SenderID,
			RecipientID: message.RecipientID,
			GroupID:     message.GroupID,
			CreatedAt:   message.CreatedAt,
			DestructAt:  destructAt,
			Outgoing:    message.SenderID == userID,
			IsRead:      message.IsRead,
		}
		if entry.Outgoing {
			entry.Content = message.PlaintextEcho
			entries = append(entries, entry)
			continue
		}

		plaintext, err := s.codec.Decrypt(message.Ciphertext, message.WrappedKey, private)
		if err != nil {
			if s.destroyedMeanwhile(message.ID) {
				continue
			}
			s.metrics.IncrDecryptFailures()
			s.log.Warn("Skipping undecryptable message in conversation", "id", message.ID, "user", userID, "error", err)
			continue
		}
		entry.Content = plaintext
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *MessageService) RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error) {
	if limit <= 0 {
		limit = defaultThreatListLimit
	}
	return s.threatLog.ListRecent(limit)
}

func (s *MessageService) SearchThreats(ctx context.Context, query domain.ThreatQuery) ([]domain.ThreatRecord, error) {
	return s.index.Search(ctx, query)
}

func (s *MessageService) validateSend(cmd domain.SendCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	if s.maxContentLength > 0 && len(cmd.Plaintext) > s.maxContentLength {
		return fmt.Errorf("%w: content of %d bytes exceeds %d", errors.ErrInvalidRequest, len(cmd.Plaintext), s.maxContentLength)
	}
	if int64(cmd.TTLSeconds) > domain.MaxTTLSeconds {
		return fmt.Errorf("%w: ttl of %ds exceeds %ds", errors.ErrInvalidRequest, cmd.TTLSeconds, domain.MaxTTLSeconds)
	}
	if s.maxTTL > 0 && domain.TTL(cmd.TTLSeconds) > s.maxTTL {
		return fmt.Errorf("%w: ttl of %ds exceeds %s", errors.ErrInvalidRequest, cmd.TTLSeconds, s.maxTTL)
	}
	return nil
}

func (s *MessageService) assess(userID string) (domain.Assessment, int, error) {
	recent, err := s.messages.ListRecent(userID, threat.SendWindow)
	if err != nil {
		return domain.Assessment{Level: domain.RiskLow}, 0, err
	}
	assessment := threat.Assess(recent)
	s.board.RecordScore(userID, assessment.Score)
	return assessment, len(recent), nil
}

func (s *MessageService) destroyedMeanwhile(id uuid.UUID) bool {
	current, err := s.messages.Get(id)
	return errors.Is(err, errors.ErrNotFound) || (err == nil && current.IsDestroyed)
}

func header(m domain.Message) domain.DeliveredMessage {
	return domain.DeliveredMessage{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		GroupID:     m.GroupID,
		CreatedAt:   m.CreatedAt,
		ReadOnce:    m.ReadOnce,
	}
}
