package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "crewhub-backend/internal/common/errors"
	invitemodels "crewhub-backend/internal/features/invite/models"
	inviterepo "crewhub-backend/internal/features/invite/repository"
	membermodels "crewhub-backend/internal/features/member/models"
)

type fakeInvites struct {
	redeemErr   error
	redemptions []string
}

func (f *fakeInvites) Redeem(_ context.Context, code string) error {
	if f.redeemErr != nil {
		return f.redeemErr
	}
	f.redemptions = append(f.redemptions, code)
	return nil
}

func (f *fakeInvites) Create(context.Context, int64, *int) (*invitemodels.Invite, error) {
	return nil, errors.New("not implemented")
}

type fakeMembers struct {
	members map[int64]*membermodels.Member
}

func newFakeMembers(seed ...*membermodels.Member) *fakeMembers {
	f := &fakeMembers{members: make(map[int64]*membermodels.Member)}
	for _, m := range seed {
		f.members[m.TelegramID] = m
	}
	return f
}

func (f *fakeMembers) GetMember(_ context.Context, id int64) (*membermodels.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, apperrors.NewNotFound("user")
	}
	return member, nil
}

func (f *fakeMembers) ListMembers(context.Context) ([]*membermodels.Member, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMembers) Upsert(_ context.Context, member *membermodels.Member) error {
	f.members[member.TelegramID] = member
	return nil
}

func (f *fakeMembers) UpdateProfile(context.Context, int64, membermodels.ProfilePatch) (*membermodels.Member, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMembers) IncrementLevel(context.Context, int64) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeMembers) DecrementLevel(context.Context, int64) (int, error) {
	return 0, errors.New("not implemented")
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func TestJoinNewUserWithValidInvite(t *testing.T) {
	invites := &fakeInvites{}
	members := newFakeMembers()
	notifier := &fakeNotifier{}
	svc := NewOnboardingService(invites, members, notifier)

	result, err := svc.Join(context.Background(), Sender{ID: 7, Username: "pera", FirstName: "Pera"}, "INV_AB12CD34")
	require.NoError(t, err)
	assert.False(t, result.AlreadyMember)
	assert.Equal(t, int64(7), result.Member.TelegramID)
	assert.Equal(t, 0, result.Member.Level)

	assert.Equal(t, []string{"INV_AB12CD34"}, invites.redemptions)

	stored, err := members.GetMember(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "pera", stored.Username)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Pera joined the crew")
}

func TestJoinExistingMemberIsNoOp(t *testing.T) {
	invites := &fakeInvites{}
	members := newFakeMembers(&membermodels.Member{TelegramID: 7, FirstName: "Pera", Level: 3})
	notifier := &fakeNotifier{}
	svc := NewOnboardingService(invites, members, notifier)

	// Re-entry succeeds even with a token that was never issued; no
	// invite use is consumed and no announcement is sent.
	result, err := svc.Join(context.Background(), Sender{ID: 7}, "INV_WHATEVER")
	require.NoError(t, err)
	assert.True(t, result.AlreadyMember)
	assert.Equal(t, 3, result.Member.Level)
	assert.Empty(t, invites.redemptions)
	assert.Empty(t, notifier.messages)
}

func TestJoinWithoutInvite(t *testing.T) {
	svc := NewOnboardingService(&fakeInvites{}, newFakeMembers(), &fakeNotifier{})

	for _, token := range []string{"", "hello", "INV_", "inv_ab12cd34"} {
		_, err := svc.Join(context.Background(), Sender{ID: 7}, token)
		require.Error(t, err, "token %q", token)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
		assert.Contains(t, err.Error(), "invite required")
	}
}

func TestJoinInviteFailures(t *testing.T) {
	tests := []struct {
		repoErr error
		message string
	}{
		{inviterepo.ErrInviteNotFound, "invite not found"},
		{inviterepo.ErrInviteInactive, "invite inactive"},
		{inviterepo.ErrInviteExhausted, "invite exhausted"},
	}

	for _, tt := range tests {
		members := newFakeMembers()
		svc := NewOnboardingService(&fakeInvites{redeemErr: tt.repoErr}, members, &fakeNotifier{})

		_, err := svc.Join(context.Background(), Sender{ID: 7}, "INV_AB12CD34")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
		assert.Contains(t, err.Error(), tt.message)

		// A rejected invite must not create a member.
		_, err = members.GetMember(context.Background(), 7)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	}
}

func TestJoinRedeemInternalFailure(t *testing.T) {
	svc := NewOnboardingService(&fakeInvites{redeemErr: errors.New("db down")}, newFakeMembers(), &fakeNotifier{})

	_, err := svc.Join(context.Background(), Sender{ID: 7}, "INV_AB12CD34")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternal))
}
