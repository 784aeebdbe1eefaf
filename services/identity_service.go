//go:generate go run go.uber.org/mock/mockgen -source=identity_service.go -destination=../mocks/mock_identity_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"tactical-link/auth"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/errors"

	"github.com/go-playground/validator/v10"
)

type IIdentityService interface {
	Provision(ctx context.Context, userID string) (domain.Token, error)
	IssueToken(ctx context.Context, userID string, roles ...string) (domain.Token, error)
}

type IdentityService struct {
	log        *slog.Logger
	identities contract.IdentityStore
	codec      contract.KeyCodec
	tokens     *auth.Tokens
	validate   *validator.Validate
}

func NewIdentityService(log *slog.Logger, identities contract.IdentityStore, codec contract.KeyCodec, tokens *auth.Tokens) *IdentityService {
	return &IdentityService{
		log:        log,
		identities: identities,
		codec:      codec,
		tokens:     tokens,
		validate:   validator.New(),
	}
}

// Provision creates the key pair of a new user and issues its first session
// token. A user can only be provisioned once.
func (s *IdentityService) Provision(ctx context.Context, userID string) (domain.Token, error) {
	if err := s.validate.Var(userID, "required,max=128,excludes=:"); err != nil {
		return "", fmt.Errorf("%w: user: %v", errors.ErrInvalidRequest, err)
	}

	public, private, err := s.codec.GenerateKeyPair()
	if err != nil {
		return "", fmt.Errorf("generate key pair: %w", err)
	}
	if err := s.identities.SaveIdentity(userID, public, private); err != nil {
		return "", err
	}
	s.log.Info("Identity provisioned", "user", userID)

	return s.IssueToken(ctx, userID, auth.RoleUser)
}

// IssueToken signs a session token for an already provisioned user.
func (s *IdentityService) IssueToken(ctx context.Context, userID string, roles ...string) (domain.Token, error) {
	if _, err := s.identities.GetPublicKey(userID); err != nil {
		return "", err
	}
	token, err := s.tokens.Generate(userID, roles)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", userID, err)
	}
	return domain.Token(token), nil
}
