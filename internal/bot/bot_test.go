package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewhub-backend/internal/common/config"
	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/convstate"
	invitemodels "crewhub-backend/internal/features/invite/models"
	membermodels "crewhub-backend/internal/features/member/models"
	onboardingservice "crewhub-backend/internal/features/onboarding/service"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard bool
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) SendKeyboard(_ context.Context, chatID int64, text string, _ tgbotapi.ReplyKeyboardMarkup) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, keyboard: true})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent, "expected at least one reply")
	return f.sent[len(f.sent)-1]
}

type fakeMembers struct {
	members map[int64]*membermodels.Member
	patches []membermodels.ProfilePatch
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

func (f *fakeMembers) UpdateProfile(_ context.Context, id int64, patch membermodels.ProfilePatch) (*membermodels.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, apperrors.NewNotFound("user")
	}
	f.patches = append(f.patches, patch)
	if patch.Location != nil {
		member.Location = *patch.Location
	}
	if patch.StatusMessage != nil {
		member.StatusMessage = *patch.StatusMessage
	}
	member.UpdatedAt = time.Now()
	return member, nil
}

func (f *fakeMembers) IncrementLevel(_ context.Context, id int64) (int, error) {
	member, ok := f.members[id]
	if !ok {
		return 0, apperrors.NewNotFound("user")
	}
	if member.Level >= membermodels.MaxLevel {
		return 0, apperrors.NewValidation("max level reached")
	}
	member.Level++
	return member.Level, nil
}

func (f *fakeMembers) DecrementLevel(_ context.Context, id int64) (int, error) {
	member, ok := f.members[id]
	if !ok {
		return 0, apperrors.NewNotFound("user")
	}
	if member.Level > 0 {
		member.Level--
	}
	return member.Level, nil
}

type fakeInvites struct {
	created []*invitemodels.Invite
}

func (f *fakeInvites) Redeem(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeInvites) Create(_ context.Context, createdBy int64, maxUses *int) (*invitemodels.Invite, error) {
	invite := &invitemodels.Invite{Code: "INV_TEST0001", MaxUses: maxUses, Active: true, CreatedBy: createdBy}
	f.created = append(f.created, invite)
	return invite, nil
}

type fakeOnboarding struct {
	result *onboardingservice.Result
	err    error
	tokens []string
}

func (f *fakeOnboarding) Join(_ context.Context, _ onboardingservice.Sender, token string) (*onboardingservice.Result, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fixture struct {
	bot     *Bot
	sender  *fakeSender
	members *fakeMembers
	invites *fakeInvites
	join    *fakeOnboarding
	state   convstate.Store
}

func newFixture(members *fakeMembers, join *fakeOnboarding) *fixture {
	cfg := &config.Config{}
	cfg.Telegram.AdminIDs = []int64{1000}

	sender := &fakeSender{}
	invites := &fakeInvites{}
	state := convstate.NewMemory()

	return &fixture{
		bot:     New(sender, cfg, members, invites, join, state),
		sender:  sender,
		members: members,
		invites: invites,
		join:    join,
		state:   state,
	}
}

func privateMessage(userID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID, FirstName: "Pera", UserName: "pera"},
			Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
			Text: text,
		},
	}
}

func commandMessage(userID int64, chatType, text string) *tgbotapi.Update {
	update := privateMessage(userID, text)
	update.Message.Chat.Type = chatType
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	update.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: cmdLen},
	}
	return update
}

func TestStartNewMember(t *testing.T) {
	join := &fakeOnboarding{result: &onboardingservice.Result{
		Member: &membermodels.Member{TelegramID: 7},
	}}
	f := newFixture(newFakeMembers(), join)

	err := f.bot.HandleUpdate(context.Background(), commandMessage(7, "private", "/start INV_AB12CD34"))
	require.NoError(t, err)

	assert.Equal(t, []string{"INV_AB12CD34"}, join.tokens)
	reply := f.sender.last(t)
	assert.Contains(t, reply.text, "You're in")
	assert.True(t, reply.keyboard)
}

func TestStartReturningMember(t *testing.T) {
	join := &fakeOnboarding{result: &onboardingservice.Result{
		Member:        &membermodels.Member{TelegramID: 7},
		AlreadyMember: true,
	}}
	f := newFixture(newFakeMembers(), join)

	err := f.bot.HandleUpdate(context.Background(), commandMessage(7, "private", "/start"))
	require.NoError(t, err)

	reply := f.sender.last(t)
	assert.Contains(t, reply.text, "Welcome back")
	assert.True(t, reply.keyboard)
}

func TestStartWithoutInviteRendersDomainError(t *testing.T) {
	join := &fakeOnboarding{err: apperrors.NewForbidden("invite required")}
	f := newFixture(newFakeMembers(), join)

	err := f.bot.HandleUpdate(context.Background(), commandMessage(7, "private", "/start"))
	require.NoError(t, err)

	assert.Equal(t, "⚠️ invite required", f.sender.last(t).text)
}

func TestLocationCaptureFlow(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7, FirstName: "Pera"})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetLocation)))
	assert.Contains(t, f.sender.last(t).text, "Type your location")

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "Kafana Kod Mike")))
	assert.Equal(t, "📍 Location set: Kafana Kod Mike", f.sender.last(t).text)
	assert.Equal(t, "Kafana Kod Mike", members.members[7].Location)

	// The marker is cleared; a follow-up message is not captured.
	replies := len(f.sender.sent)
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "some chatter")))
	assert.Len(t, f.sender.sent, replies)
	assert.Len(t, members.patches, 1)
}

func TestStatusCaptureFlow(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetStatus)))
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "here all night")))

	assert.Equal(t, "💬 Status set: here all night", f.sender.last(t).text)
	assert.Equal(t, "here all night", members.members[7].StatusMessage)
}

func TestLastPromptWins(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetLocation)))
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetStatus)))
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "the text")))

	assert.Equal(t, "the text", members.members[7].StatusMessage)
	assert.Empty(t, members.members[7].Location)
}

func TestCancelClearsPendingMarker(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetLocation)))
	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(7, "private", "/cancel")))
	assert.Equal(t, "Cancelled.", f.sender.last(t).text)

	replies := len(f.sender.sent)
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "Kafana Kod Mike")))
	assert.Len(t, f.sender.sent, replies)
	assert.Empty(t, members.members[7].Location)
}

func TestFailedUpdateKeepsMarker(t *testing.T) {
	// No member row, so UpdateProfile fails; the marker must survive for a retry.
	members := newFakeMembers()
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetLocation)))
	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, "somewhere")))
	assert.Equal(t, "⚠️ user not found", f.sender.last(t).text)

	pending, err := f.state.Pending(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, convstate.FieldLocation, pending)
}

func TestLevelButtons(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7, Level: 2})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnLevelUp)))
	assert.Equal(t, "✅ Level: 3", f.sender.last(t).text)

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnLevelDown)))
	assert.Equal(t, "✅ Level: 2", f.sender.last(t).text)
}

func TestLevelUpAtCeiling(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7, Level: membermodels.MaxLevel})
	f := newFixture(members, &fakeOnboarding{})

	require.NoError(t, f.bot.HandleUpdate(context.Background(), privateMessage(7, btnLevelUp)))
	assert.Equal(t, "⚠️ max level reached", f.sender.last(t).text)
}

func TestMyStatus(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{
		TelegramID: 7, CrewName: "Big Pera", Level: 4,
		Location: "Kafana Kod Mike", UpdatedAt: time.Now(),
	})
	f := newFixture(members, &fakeOnboarding{})

	require.NoError(t, f.bot.HandleUpdate(context.Background(), privateMessage(7, btnMyStatus)))

	reply := f.sender.last(t)
	assert.Contains(t, reply.text, "Big Pera")
	assert.Contains(t, reply.text, "Level: 4")
	assert.Contains(t, reply.text, "Kafana Kod Mike")
}

func TestNewInviteAdminOnly(t *testing.T) {
	f := newFixture(newFakeMembers(), &fakeOnboarding{})

	require.NoError(t, f.bot.HandleUpdate(context.Background(), commandMessage(7, "private", "/newinvite")))
	assert.Equal(t, "⚠️ Admins only.", f.sender.last(t).text)
	assert.Empty(t, f.invites.created)
}

func TestNewInviteByAdmin(t *testing.T) {
	f := newFixture(newFakeMembers(), &fakeOnboarding{})
	ctx := context.Background()

	// Default is a single-use code.
	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(1000, "private", "/newinvite")))
	assert.Contains(t, f.sender.last(t).text, "INV_TEST0001")
	assert.Contains(t, f.sender.last(t).text, "uses: 1")

	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(1000, "private", "/newinvite 5")))
	assert.Contains(t, f.sender.last(t).text, "uses: 5")

	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(1000, "private", "/newinvite 0")))
	assert.Contains(t, f.sender.last(t).text, "uses: unlimited")

	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(1000, "private", "/newinvite nope")))
	assert.Contains(t, f.sender.last(t).text, "Usage:")

	require.Len(t, f.invites.created, 3)
	assert.Nil(t, f.invites.created[2].MaxUses)
}

func TestGroupChatTextIsIgnored(t *testing.T) {
	members := newFakeMembers(&membermodels.Member{TelegramID: 7})
	f := newFixture(members, &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, privateMessage(7, btnSetLocation)))

	// Keyboard buttons and captures only apply in private chats.
	group := privateMessage(7, "Kafana Kod Mike")
	group.Message.Chat.Type = "supergroup"
	replies := len(f.sender.sent)
	require.NoError(t, f.bot.HandleUpdate(ctx, group))
	assert.Len(t, f.sender.sent, replies)
	assert.Empty(t, members.members[7].Location)
}

func TestIgnoredUpdates(t *testing.T) {
	f := newFixture(newFakeMembers(), &fakeOnboarding{})
	ctx := context.Background()

	require.NoError(t, f.bot.HandleUpdate(ctx, &tgbotapi.Update{}))

	fromBot := privateMessage(7, "/start")
	fromBot.Message.From.IsBot = true
	require.NoError(t, f.bot.HandleUpdate(ctx, fromBot))

	require.NoError(t, f.bot.HandleUpdate(ctx, commandMessage(7, "private", "/unknown")))

	assert.Empty(t, f.sender.sent)
}
