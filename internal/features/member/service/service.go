package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/common/logger"
	"crewhub-backend/internal/features/member/models"
	"crewhub-backend/internal/features/member/repository"
)

// Notifier delivers best-effort messages to the community group chat.
// Failures are logged and swallowed; they never fail the primary operation.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type MemberService interface {
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	ListMembers(ctx context.Context) ([]*models.Member, error)
	// Upsert registers the member or refreshes identity fields on re-entry.
	Upsert(ctx context.Context, member *models.Member) error
	// UpdateProfile validates and applies a profile patch for an already
	// authenticated user, then notifies the group with the fresh profile.
	UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.Member, error)
	// IncrementLevel raises the level by one; at the ceiling it fails.
	IncrementLevel(ctx context.Context, userID int64) (int, error)
	// DecrementLevel lowers the level by one, clamping at zero without error.
	DecrementLevel(ctx context.Context, userID int64) (int, error)
}

type memberService struct {
	repo     repository.MemberRepository
	notifier Notifier
}

func NewMemberService(repo repository.MemberRepository, notifier Notifier) MemberService {
	return &memberService{repo: repo, notifier: notifier}
}

func (s *memberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMemberNotFound {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewInternal(err)
	}

	return member, nil
}

func (s *memberService) ListMembers(ctx context.Context) ([]*models.Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	return members, nil
}

func (s *memberService) Upsert(ctx context.Context, member *models.Member) error {
	if err := s.repo.Upsert(ctx, member); err != nil {
		return apperrors.NewInternal(err)
	}
	return nil
}

func (s *memberService) UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.Member, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewValidation("nothing to update")
	}

	if err := s.repo.UpdateProfile(ctx, userID, patch); err != nil {
		if err == repository.ErrMemberNotFound {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewInternal(err)
	}

	member, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.notify(ctx, profileSummary(member))

	return member, nil
}

func (s *memberService) IncrementLevel(ctx context.Context, userID int64) (int, error) {
	member, err := s.GetMember(ctx, userID)
	if err != nil {
		return 0, err
	}
	if member.Level >= models.MaxLevel {
		return 0, apperrors.NewValidation("max level reached")
	}

	level, err := s.repo.IncrementLevel(ctx, userID)
	if err != nil {
		if err == repository.ErrMemberNotFound {
			return 0, apperrors.NewNotFound("user")
		}
		return 0, apperrors.NewInternal(err)
	}

	s.notify(ctx, fmt.Sprintf("🎚 %s is now level %d", member.DisplayName(), level))

	return level, nil
}

func (s *memberService) DecrementLevel(ctx context.Context, userID int64) (int, error) {
	member, err := s.GetMember(ctx, userID)
	if err != nil {
		return 0, err
	}

	level, err := s.repo.DecrementLevel(ctx, userID)
	if err != nil {
		if err == repository.ErrMemberNotFound {
			return 0, apperrors.NewNotFound("user")
		}
		return 0, apperrors.NewInternal(err)
	}

	s.notify(ctx, fmt.Sprintf("🎚 %s is now level %d", member.DisplayName(), level))

	return level, nil
}

// notify sends after the mutation committed and swallows delivery failures.
func (s *memberService) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		logger.Warn().Err(err).Msg("Failed to send group notification")
	}
}

func validatePatch(patch models.ProfilePatch) error {
	if patch.Level != nil && (*patch.Level < 0 || *patch.Level > models.MaxLevel) {
		return apperrors.Newf(apperrors.ErrCodeValidation, "invalid level (0-%d)", models.MaxLevel)
	}
	if err := validateText("location", patch.Location); err != nil {
		return err
	}
	if err := validateText("status_message", patch.StatusMessage); err != nil {
		return err
	}
	return validateText("crew_name", patch.CrewName)
}

func validateText(field string, value *string) error {
	if value != nil && utf8.RuneCountInString(*value) > models.MaxTextLength {
		return apperrors.Newf(apperrors.ErrCodeValidation,
			"%s too long (max %d chars)", field, models.MaxTextLength)
	}
	return nil
}

func profileSummary(member *models.Member) string {
	location := member.Location
	if location == "" {
		location = "—"
	}
	status := member.StatusMessage
	if status == "" {
		status = "—"
	}

	return fmt.Sprintf("📢 %s updated their profile\n🎚 Level: %d\n📍 Location: %s\n🧾 Status: %s",
		member.DisplayName(), member.Level, location, status)
}
