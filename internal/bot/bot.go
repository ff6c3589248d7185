package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/dialog"
	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/domain/users"
)

const historyPageSize = 20

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	users     *users.Repo
	states    *dialog.Repo
	access    *access.Service
	notifier  *Notifier
	ownerID   int64
	channelID int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	usersRepo *users.Repo, statesRepo *dialog.Repo,
	accessSvc *access.Service, notifier *Notifier,
	ownerID, channelID int64) *Bot {

	return &Bot{
		api: api, log: log, users: usersRepo, states: statesRepo,
		access: accessSvc, notifier: notifier,
		ownerID: ownerID, channelID: channelID,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	// chat_member не входит в выдачу по умолчанию, а без него
	// мы не узнаем о входе в канал по инвайт-ссылке
	u.AllowedUpdates = []string{
		tgbotapi.UpdateTypeMessage,
		tgbotapi.UpdateTypeCallbackQuery,
		tgbotapi.UpdateTypeChatMember,
	}
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.handleCallback(ctx, upd.CallbackQuery)
			} else if upd.ChatMember != nil {
				b.onChannelMember(ctx, upd.ChatMember)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !msg.Chat.IsPrivate() {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

// onChannelMember — push-событие о смене статуса участника канала.
// Отзываем ссылку только на переходе «не в канале → в канале».
func (b *Bot) onChannelMember(ctx context.Context, cm *tgbotapi.ChatMemberUpdated) {
	if cm.Chat.ID != b.channelID {
		return
	}
	if cm.NewChatMember.User == nil {
		return
	}
	if isInChannel(cm.OldChatMember.Status) || !isInChannel(cm.NewChatMember.Status) {
		return
	}
	link := ""
	if cm.InviteLink != nil {
		link = cm.InviteLink.InviteLink
	}
	if err := b.access.OnMemberJoined(ctx, cm.Chat.ID, link, cm.NewChatMember.User.ID); err != nil {
		b.log.Error("failed to process channel join", "user_id", cm.NewChatMember.User.ID, "err", err)
		b.notifier.ReportError("channel join handling failed: " + err.Error())
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// ensureUser регистрирует/обновляет пользователя по профилю Telegram.
// Владелец бота всегда получает роль admin.
func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*users.User, error) {
	u, err := b.users.UpsertFromTelegram(ctx, users.Telegram{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
	if err != nil {
		return nil, err
	}
	if u.ID == b.ownerID && u.Role != users.RoleAdmin {
		if err := b.users.SetRole(ctx, u.ID, users.RoleAdmin); err == nil {
			u.Role = users.RoleAdmin
		}
	}
	return u, nil
}

func (b *Bot) isAdmin(u *users.User) bool {
	return u != nil && !u.Banned && (u.Role == users.RoleAdmin || u.ID == b.ownerID)
}
