package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/dialog"
	"github.com/Spok95/access-bot/internal/domain/users"
	"github.com/Spok95/access-bot/internal/lang"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	u, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, lang.Text(lang.RU, "access_request_save_failed")))
		return
	}
	if u.Banned {
		return
	}

	switch msg.Command() {
	case "start":
		_ = b.states.Reset(ctx, chatID)
		if b.isAdmin(u) {
			m := tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "start_admin"))
			m.ReplyMarkup = adminReplyKeyboard(u.Lang)
			b.send(m)
			return
		}
		m := tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "start_user"))
		m.ReplyMarkup = userMenuKeyboard(u.Lang)
		b.send(m)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"/start — меню\n/help — помощь"))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	u, err := b.ensureUser(ctx, msg.From)
	if err != nil || u.Banned {
		return
	}

	// Нижняя панель админа
	if msg.Text == lang.Button(lang.RU, "admin_requests") || msg.Text == lang.Button(lang.EN, "admin_requests") {
		if !b.isAdmin(u) {
			return
		}
		m := tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_requests_settings_title"))
		m.ReplyMarkup = adminSettingsKeyboard(u.Lang)
		b.send(m)
		return
	}

	st, _ := b.states.Get(ctx, chatID)
	switch st.State {
	case dialog.StateAccessUsername:
		b.onAccessUsername(ctx, msg, u, st)
	case dialog.StateAccessPassword:
		b.onAccessPassword(ctx, msg, u, st)
	case dialog.StateAccessOrderID:
		b.onAccessOrderID(ctx, msg, u)
	case dialog.StateAccessHistory:
		b.onHistoryRequestID(ctx, msg, u)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	u, err := b.ensureUser(ctx, cb.From)
	if err != nil || u.Banned {
		_ = b.answerCallback(cb, "", false)
		return
	}

	data := cb.Data
	switch data {
	case "nav:cancel":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, lang.Text(u.Lang, "cancelled"))
		_ = b.answerCallback(cb, "", false)
		return
	case "nav:back":
		b.handleNavBack(ctx, cb, u)
		return
	case "lang:toggle":
		b.toggleLang(ctx, cb, u)
		return

	// Пользователь: подача заявки
	case "access:request":
		b.startAccessRequest(ctx, cb, u)
		return
	case "access:method:creds":
		_ = b.states.Set(ctx, chatID, dialog.StateAccessUsername, dialog.Payload{})
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "access_ask_username"), navKeyboard(u.Lang, true, true))
		b.send(edit)
		_ = b.answerCallback(cb, "", false)
		return
	case "access:method:order":
		_ = b.states.Set(ctx, chatID, dialog.StateAccessOrderID, dialog.Payload{})
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "access_ask_order_id"), navKeyboard(u.Lang, true, true))
		b.send(edit)
		_ = b.answerCallback(cb, "", false)
		return

	// Админ: меню заявок
	case "acc:decided":
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_already_processed"), false)
		return
	case "acc:pending":
		b.showPendingRequest(ctx, cb, u)
		return
	case "acc:history":
		b.showHistory(ctx, cb, u)
		return
	case "acc:export":
		b.exportHistoryExcel(ctx, cb, u)
		return
	}

	if id, ok := parseCallbackID(data, "acc:approve:"); ok {
		b.decideCallback(ctx, cb, u, id, true)
		return
	}
	if id, ok := parseCallbackID(data, "acc:reject:"); ok {
		b.decideCallback(ctx, cb, u, id, false)
		return
	}
	if id, ok := parseCallbackID(data, "acc:req:"); ok {
		b.showRequestDetails(ctx, cb, u, id)
		return
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) handleNavBack(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	chatID := cb.Message.Chat.ID
	st, _ := b.states.Get(ctx, chatID)

	switch st.State {
	case dialog.StateAccessUsername, dialog.StateAccessOrderID:
		// назад к выбору способа
		_ = b.states.Set(ctx, chatID, dialog.StateAccessMethod, dialog.Payload{})
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "access_choose_method"), methodKeyboard(u.Lang))
		b.send(edit)
	case dialog.StateAccessPassword:
		// назад к вводу логина
		_ = b.states.Set(ctx, chatID, dialog.StateAccessUsername, dialog.Payload{})
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "access_ask_username"), navKeyboard(u.Lang, true, true))
		b.send(edit)
	case dialog.StateAccessHistory:
		_ = b.states.Reset(ctx, chatID)
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "access_requests_settings_title"), adminSettingsKeyboard(u.Lang))
		b.send(edit)
	default:
		_ = b.states.Reset(ctx, chatID)
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			lang.Text(u.Lang, "start_user"), userMenuKeyboard(u.Lang))
		b.send(edit)
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) toggleLang(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	next := lang.EN
	if u.Lang == lang.EN {
		next = lang.RU
	}
	if err := b.users.SetLang(ctx, u.ID, next); err != nil {
		b.log.Error("failed to switch lang", "user_id", u.ID, "err", err)
		_ = b.answerCallback(cb, "", false)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		lang.Text(next, "lang_switched")+"\n\n"+lang.Text(next, "start_user"), userMenuKeyboard(next))
	b.send(edit)
	_ = b.answerCallback(cb, "", false)
}
