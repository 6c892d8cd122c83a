package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"crewhub-backend/internal/features/invite/models"
	"crewhub-backend/internal/features/invite/repository"
)

// TokenPrefix is the recognized invite token shape; anything else is
// treated as "no invite supplied".
const TokenPrefix = "INV_"

type InviteService interface {
	// Redeem consumes one use of the code. Returns
	// repository.ErrInviteNotFound / ErrInviteInactive / ErrInviteExhausted
	// when the code cannot be used.
	Redeem(ctx context.Context, code string) error
	// Create issues a new code. maxUses nil means unlimited.
	Create(ctx context.Context, createdBy int64, maxUses *int) (*models.Invite, error)
}

type inviteService struct {
	repo repository.InviteRepository
}

func NewInviteService(repo repository.InviteRepository) InviteService {
	return &inviteService{repo: repo}
}

func (s *inviteService) Redeem(ctx context.Context, code string) error {
	return s.repo.Redeem(ctx, code)
}

func (s *inviteService) Create(ctx context.Context, createdBy int64, maxUses *int) (*models.Invite, error) {
	invite := &models.Invite{
		Code:      NewCode(),
		MaxUses:   maxUses,
		Active:    true,
		CreatedBy: createdBy,
	}

	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to issue invite: %w", err)
	}

	return invite, nil
}

// NewCode generates an opaque invite code of the recognized shape.
func NewCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return TokenPrefix + raw[:8]
}

// ParseToken reports whether s has the recognized invite token shape.
func ParseToken(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, TokenPrefix) || len(s) == len(TokenPrefix) {
		return "", false
	}
	return s, true
}
