// Package bot routes Telegram chat updates: onboarding via /start, the
// reply-keyboard actions, and free-text capture driven by the per-user
// conversation markers.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crewhub-backend/internal/common/config"
	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/common/logger"
	"crewhub-backend/internal/convstate"
	inviteservice "crewhub-backend/internal/features/invite/service"
	membermodels "crewhub-backend/internal/features/member/models"
	memberservice "crewhub-backend/internal/features/member/service"
	onboardingservice "crewhub-backend/internal/features/onboarding/service"
)

// Sender abstracts the Telegram client used for replies.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
}

const (
	btnLevelUp     = "🎚 Level +1"
	btnLevelDown   = "🎚 Level -1"
	btnSetLocation = "📍 Set location"
	btnSetStatus   = "💬 Set status"
	btnMyStatus    = "🧾 My status"
)

var mainKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnLevelUp),
		tgbotapi.NewKeyboardButton(btnLevelDown),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSetLocation),
		tgbotapi.NewKeyboardButton(btnSetStatus),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnMyStatus),
	),
)

type Bot struct {
	client     Sender
	cfg        *config.Config
	members    memberservice.MemberService
	invites    inviteservice.InviteService
	onboarding onboardingservice.OnboardingService
	state      convstate.Store
}

func New(client Sender, cfg *config.Config, members memberservice.MemberService,
	invites inviteservice.InviteService, onboarding onboardingservice.OnboardingService,
	state convstate.Store) *Bot {
	return &Bot{
		client:     client,
		cfg:        cfg,
		members:    members,
		invites:    invites,
		onboarding: onboarding,
		state:      state,
	}
}

// HandleUpdate routes a single Telegram update. Commands work everywhere;
// keyboard actions and free-text capture only in private chats.
func (b *Bot) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return nil
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return b.handleStart(ctx, msg)
		case "newinvite":
			return b.handleNewInvite(ctx, msg)
		case "cancel":
			return b.handleCancel(ctx, msg)
		}
		return nil
	}

	if !msg.Chat.IsPrivate() {
		return nil
	}

	switch strings.TrimSpace(msg.Text) {
	case "":
		return nil
	case btnLevelUp:
		return b.handleLevelShift(ctx, msg, true)
	case btnLevelDown:
		return b.handleLevelShift(ctx, msg, false)
	case btnSetLocation:
		return b.handlePrompt(ctx, msg, convstate.FieldLocation,
			"Type your location (e.g. 'Kafana Kod Mike'):")
	case btnSetStatus:
		return b.handlePrompt(ctx, msg, convstate.FieldStatus,
			"Type your status message:")
	case btnMyStatus:
		return b.handleMyStatus(ctx, msg)
	default:
		return b.handleFreeText(ctx, msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	sender := onboardingservice.Sender{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
	}

	result, err := b.onboarding.Join(ctx, sender, msg.CommandArguments())
	if err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}

	greeting := "🎉 You're in! Pick an action:"
	if result.AlreadyMember {
		greeting = "🤡 Welcome back! Pick an action:"
	}

	return b.client.SendKeyboard(ctx, msg.Chat.ID, greeting, mainKeyboard)
}

func (b *Bot) handleNewInvite(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.cfg.IsAdmin(msg.From.ID) {
		return b.reply(ctx, msg.Chat.ID, "⚠️ Admins only.")
	}

	// Optional argument: max uses; 0 means unlimited.
	maxUses := new(int)
	*maxUses = 1
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return b.reply(ctx, msg.Chat.ID, "Usage: /newinvite [max uses, 0 = unlimited]")
		}
		if n == 0 {
			maxUses = nil
		} else {
			*maxUses = n
		}
	}

	invite, err := b.invites.Create(ctx, msg.From.ID, maxUses)
	if err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}

	uses := "unlimited"
	if invite.MaxUses != nil {
		uses = strconv.Itoa(*invite.MaxUses)
	}
	return b.reply(ctx, msg.Chat.ID, fmt.Sprintf("🎟 Invite: %s (uses: %s)", invite.Code, uses))
}

func (b *Bot) handleCancel(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.state.Clear(ctx, msg.From.ID); err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}
	return b.reply(ctx, msg.Chat.ID, "Cancelled.")
}

func (b *Bot) handleLevelShift(ctx context.Context, msg *tgbotapi.Message, up bool) error {
	var level int
	var err error
	if up {
		level, err = b.members.IncrementLevel(ctx, msg.From.ID)
	} else {
		level, err = b.members.DecrementLevel(ctx, msg.From.ID)
	}
	if err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}

	return b.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Level: %d", level))
}

func (b *Bot) handlePrompt(ctx context.Context, msg *tgbotapi.Message, field convstate.Field, prompt string) error {
	// A new prompt overwrites an unresolved one; last prompt wins.
	if err := b.state.SetPending(ctx, msg.From.ID, field); err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}
	return b.reply(ctx, msg.Chat.ID, prompt)
}

func (b *Bot) handleMyStatus(ctx context.Context, msg *tgbotapi.Message) error {
	member, err := b.members.GetMember(ctx, msg.From.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return b.reply(ctx, msg.Chat.ID, "You're not in the crew yet — send /start.")
		}
		return b.replyError(ctx, msg.Chat.ID, err)
	}

	location := member.Location
	if location == "" {
		location = "—"
	}
	status := member.StatusMessage
	if status == "" {
		status = "—"
	}

	text := fmt.Sprintf("🤡 %s\n🎚 Level: %d\n📍 Location: %s\n🧾 Status: %s\n🕒 Updated: %s",
		member.DisplayName(), member.Level, location, status,
		member.UpdatedAt.Format("2006-01-02 15:04"))
	return b.reply(ctx, msg.Chat.ID, text)
}

// handleFreeText applies a plain text message to whichever field the user
// was prompted for; without a pending marker the message is ignored.
func (b *Bot) handleFreeText(ctx context.Context, msg *tgbotapi.Message) error {
	pending, err := b.state.Pending(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(ctx, msg.Chat.ID, err)
	}
	if pending == convstate.FieldNone {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	var patch membermodels.ProfilePatch
	var confirm string
	switch pending {
	case convstate.FieldLocation:
		patch.Location = &text
		confirm = fmt.Sprintf("📍 Location set: %s", text)
	case convstate.FieldStatus:
		patch.StatusMessage = &text
		confirm = fmt.Sprintf("💬 Status set: %s", text)
	default:
		return b.state.Clear(ctx, msg.From.ID)
	}

	if _, err := b.members.UpdateProfile(ctx, msg.From.ID, patch); err != nil {
		// The marker stays; the user can send a corrected value or /cancel.
		return b.replyError(ctx, msg.Chat.ID, err)
	}

	if err := b.state.Clear(ctx, msg.From.ID); err != nil {
		logger.Warn().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to clear pending marker")
	}

	return b.reply(ctx, msg.Chat.ID, confirm)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	return b.client.SendMessage(ctx, chatID, text)
}

// replyError renders domain failures as reply text; internal failures get
// a generic reply and a log entry.
func (b *Bot) replyError(ctx context.Context, chatID int64, err error) error {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code != apperrors.ErrCodeInternal {
		return b.reply(ctx, chatID, "⚠️ "+appErr.Message)
	}

	logger.Error().Err(err).Int64("chat_id", chatID).Msg("Bot handler failed")
	return b.reply(ctx, chatID, "Something went wrong, try again later.")
}
