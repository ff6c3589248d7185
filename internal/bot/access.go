package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/dialog"
	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/domain/users"
	"github.com/Spok95/access-bot/internal/lang"
)

// startAccessRequest — вход в сценарий подачи заявки.
// Отсекаем тех, кто уже в канале, уже ждёт решения или уже получил ссылку.
func (b *Bot) startAccessRequest(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	chatID := cb.Message.Chat.ID

	member, err := b.access.IsChannelMember(ctx, u.ID)
	if err != nil {
		// проверка членства упала — не блокируем подачу, админ разберётся
		b.log.Warn("member check failed", "user_id", u.ID, "err", err)
	}
	if member {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_already_in_channel"), true)
		return
	}

	pending, err := b.access.PendingExists(ctx, u.ID)
	if err != nil {
		b.log.Error("pending check failed", "user_id", u.ID, "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}
	if pending {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_already_pending"), true)
		return
	}

	// действующая ссылка пересылается повторно, новая заявка не создаётся
	link, err := b.access.UnrevokedInviteLink(ctx, u.ID)
	if err != nil {
		b.log.Error("live link check failed", "user_id", u.ID, "err", err)
	}
	if link != "" {
		b.editTextAndClear(chatID, cb.Message.MessageID,
			fmt.Sprintf(lang.Text(u.Lang, "access_approved_with_link_msg"), link))
		_ = b.answerCallback(cb, "", false)
		return
	}

	_ = b.states.Set(ctx, chatID, dialog.StateAccessMethod, dialog.Payload{})
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		lang.Text(u.Lang, "access_choose_method"), methodKeyboard(u.Lang))
	b.send(edit)
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onAccessUsername(ctx context.Context, msg *tgbotapi.Message, u *users.User, st *dialog.Item) {
	chatID := msg.Chat.ID
	username := strings.TrimSpace(msg.Text)
	if username == "" {
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_ask_username")))
		return
	}
	st.Payload["username"] = username
	_ = b.states.Set(ctx, chatID, dialog.StateAccessPassword, st.Payload)

	m := tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_ask_password"))
	m.ReplyMarkup = navKeyboard(u.Lang, true, true)
	b.send(m)
}

func (b *Bot) onAccessPassword(ctx context.Context, msg *tgbotapi.Message, u *users.User, st *dialog.Item) {
	chatID := msg.Chat.ID
	password := strings.TrimSpace(msg.Text)
	username, _ := dialog.GetString(st.Payload, "username")

	b.submitRequest(ctx, chatID, u, access.Credentials(username, password))
}

func (b *Bot) onAccessOrderID(ctx context.Context, msg *tgbotapi.Message, u *users.User) {
	chatID := msg.Chat.ID
	orderID := strings.TrimSpace(msg.Text)
	if !isDigits(orderID) {
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_order_id_invalid")))
		return
	}
	b.submitRequest(ctx, chatID, u, access.Order(orderID))
}

func (b *Bot) submitRequest(ctx context.Context, chatID int64, u *users.User, sub access.Submission) {
	_ = b.states.Reset(ctx, chatID)

	_, err := b.access.Submit(ctx, u.ID, sub)
	switch {
	case err == nil:
		m := tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_request_received"))
		m.ReplyMarkup = userMenuKeyboard(u.Lang)
		b.send(m)
	case errors.Is(err, access.ErrPendingExists):
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_already_pending")))
	case errors.Is(err, access.ErrInvalidSubmission):
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_request_save_failed")))
	default:
		b.log.Error("access request save failed", "user_id", u.ID, "err", err)
		b.notifier.ReportError("access request save failed: " + err.Error())
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_request_save_failed")))
	}
}
