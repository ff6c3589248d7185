package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/access-bot/internal/dialog"
	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/domain/users"
	"github.com/Spok95/access-bot/internal/lang"
)

const exportLimit = 200

func (b *Bot) requesterDisplay(ctx context.Context, userID int64) string {
	if u, err := b.users.Get(ctx, userID); err == nil && u != nil {
		return u.Display()
	}
	return strconv.FormatInt(userID, 10)
}

// showPendingRequest присылает самую старую необработанную заявку
// отдельной карточкой с кнопками решения, меню при этом удаляется.
func (b *Bot) showPendingRequest(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	if !b.isAdmin(u) {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_denied"), true)
		return
	}
	chatID := cb.Message.Chat.ID

	pending, err := b.access.ListPending(ctx)
	if err != nil {
		b.log.Error("failed to list pending requests", "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}
	if len(pending) == 0 {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "no_pending_access_requests"), true)
		return
	}

	oldest := pending[0]
	m := tgbotapi.NewMessage(chatID, requestCardText(u.Lang, &oldest, b.requesterDisplay(ctx, oldest.UserID)))
	m.ReplyMarkup = approveRejectKeyboard(oldest.ID, u.Lang)
	b.send(m)

	// меню заявок больше не нужно
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, cb.Message.MessageID)); err != nil {
		b.log.Warn("failed to delete settings message", "err", err)
	}
	_ = b.answerCallback(cb, "", false)
}

// decideCallback — кнопки Одобрить/Отклонить на карточке заявки.
func (b *Bot) decideCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User, reqID int64, approve bool) {
	chatID := cb.Message.Chat.ID

	req, err := b.access.Decide(ctx, reqID, approve, u.ID)
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_denied"), true)
		return
	case errors.Is(err, access.ErrNotFound):
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_not_found"), true)
		return
	case errors.Is(err, access.ErrAlreadyProcessed):
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_already_processed"), true)
		return
	case err != nil:
		b.log.Error("decide failed", "request_id", reqID, "err", err)
		b.notifier.ReportError(fmt.Sprintf("decide failed for request #%d: %v", reqID, err))
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}

	// решение записано — гасим кнопки независимо от итога доставки
	b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, decidedKeyboard(approve, u.Lang)))
	_ = b.answerCallback(cb, statusText(u.Lang, req.Status), false)
}

// showHistory — последние заявки кнопками; номер можно прислать и текстом.
func (b *Bot) showHistory(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	if !b.isAdmin(u) {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_denied"), true)
		return
	}
	chatID := cb.Message.Chat.ID

	recent, err := b.access.ListRecent(ctx, historyPageSize)
	if err != nil {
		b.log.Error("failed to list recent requests", "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}

	_ = b.states.Set(ctx, chatID, dialog.StateAccessHistory, dialog.Payload{})
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		lang.Text(u.Lang, "access_request_history_ask_id"), historyKeyboard(recent, u.Lang))
	b.send(edit)
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) showRequestDetails(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User, reqID int64) {
	if !b.isAdmin(u) {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_denied"), true)
		return
	}
	chatID := cb.Message.Chat.ID

	req, err := b.access.Get(ctx, reqID)
	if errors.Is(err, access.ErrNotFound) {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_not_found"), true)
		return
	}
	if err != nil {
		b.log.Error("failed to load request", "request_id", reqID, "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		requestDetailsText(u.Lang, req, b.requesterDisplay(ctx, req.UserID)),
		navKeyboard(u.Lang, true, true))
	b.send(edit)
	_ = b.answerCallback(cb, "", false)
}

// onHistoryRequestID — админ прислал номер заявки сообщением.
func (b *Bot) onHistoryRequestID(ctx context.Context, msg *tgbotapi.Message, u *users.User) {
	if !b.isAdmin(u) {
		return
	}
	chatID := msg.Chat.ID
	if !isDigits(msg.Text) {
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_request_history_ask_id")))
		return
	}
	reqID, _ := strconv.ParseInt(msg.Text, 10, 64)

	req, err := b.access.Get(ctx, reqID)
	if errors.Is(err, access.ErrNotFound) {
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_not_found")))
		return
	}
	if err != nil {
		b.log.Error("failed to load request", "request_id", reqID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, lang.Text(u.Lang, "access_request_save_failed")))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, requestDetailsText(u.Lang, req, b.requesterDisplay(ctx, req.UserID))))
}

// exportHistoryExcel выгружает последние заявки в xlsx и шлёт документом.
func (b *Bot) exportHistoryExcel(ctx context.Context, cb *tgbotapi.CallbackQuery, u *users.User) {
	if !b.isAdmin(u) {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_denied"), true)
		return
	}
	chatID := cb.Message.Chat.ID

	recent, err := b.access.ListRecent(ctx, exportLimit)
	if err != nil {
		b.log.Error("failed to list requests for export", "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}
	if len(recent) == 0 {
		_ = b.answerCallback(cb, lang.Text(u.Lang, "no_pending_access_requests"), true)
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{
		"id", "user_id", "user", "method",
		"submitted_username", "submitted_password", "order_id",
		"status", "invite_link", "is_revoked", "created_at",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		b.log.Error("export: header row failed", "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}

	row := 2
	for _, r := range recent {
		link := ""
		if r.InviteLink != nil {
			link = *r.InviteLink
		}
		excelRow := []interface{}{
			r.ID,
			r.UserID,
			b.requesterDisplay(ctx, r.UserID),
			string(r.Submission().Kind),
			orDash(r.SubmittedUsername),
			orDash(r.SubmittedPassword),
			orDash(r.OrderID),
			string(r.Status),
			link,
			r.IsRevoked,
			formatDatetime(r.CreatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			b.log.Error("export: cell name failed", "err", err)
			_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			b.log.Error("export: data row failed", "err", err)
			_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
			return
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("export: write buffer failed", "err", err)
		_ = b.answerCallback(cb, lang.Text(u.Lang, "access_request_save_failed"), true)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "access_requests.xlsx",
		Bytes: buf.Bytes(),
	})
	b.send(doc)
	_ = b.answerCallback(cb, "", false)
}
