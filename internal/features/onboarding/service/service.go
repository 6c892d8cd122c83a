package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/common/logger"
	inviterepo "crewhub-backend/internal/features/invite/repository"
	inviteservice "crewhub-backend/internal/features/invite/service"
	membermodels "crewhub-backend/internal/features/member/models"
	memberservice "crewhub-backend/internal/features/member/service"
)

// Sender is the transport-authenticated identity of the joining user.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
}

// Result reports the onboarding outcome. AlreadyMember means the call was
// a re-entrant no-op.
type Result struct {
	Member        *membermodels.Member
	AlreadyMember bool
}

type OnboardingService interface {
	// Join admits a new user through an invite token, or succeeds as a
	// no-op for an existing member.
	Join(ctx context.Context, sender Sender, token string) (*Result, error)
}

type onboardingService struct {
	invites  inviteservice.InviteService
	members  memberservice.MemberService
	notifier memberservice.Notifier
}

func NewOnboardingService(invites inviteservice.InviteService, members memberservice.MemberService, notifier memberservice.Notifier) OnboardingService {
	return &onboardingService{invites: invites, members: members, notifier: notifier}
}

func (s *onboardingService) Join(ctx context.Context, sender Sender, token string) (*Result, error) {
	member, err := s.members.GetMember(ctx, sender.ID)
	if err == nil {
		return &Result{Member: member, AlreadyMember: true}, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	code, ok := inviteservice.ParseToken(token)
	if !ok {
		return nil, apperrors.NewForbidden("invite required")
	}

	if err := s.invites.Redeem(ctx, code); err != nil {
		switch {
		case errors.Is(err, inviterepo.ErrInviteNotFound):
			return nil, apperrors.NewForbidden("invite not found")
		case errors.Is(err, inviterepo.ErrInviteInactive):
			return nil, apperrors.NewForbidden("invite inactive")
		case errors.Is(err, inviterepo.ErrInviteExhausted):
			return nil, apperrors.NewForbidden("invite exhausted")
		default:
			return nil, apperrors.NewInternal(err)
		}
	}

	member = &membermodels.Member{
		TelegramID: sender.ID,
		Username:   sender.Username,
		FirstName:  sender.FirstName,
		Level:      0,
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		text := fmt.Sprintf("🎉 %s joined the crew", member.DisplayName())
		if err := s.notifier.Notify(ctx, text); err != nil {
			logger.Warn().Err(err).Msg("Failed to send join notification")
		}
	}

	return &Result{Member: member}, nil
}
