package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/infra/telegram"
	"github.com/Spok95/access-bot/internal/lang"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

func isInChannel(status string) bool { return telegram.MemberStatus(status) }

// parseCallbackID достаёт числовой id из callback-данных вида "acc:approve:17".
func parseCallbackID(data, prefix string) (int64, bool) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// isDigits — номер заказа принимаем только из цифр.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatDatetime(t time.Time) string {
	return t.Format("02 Jan 2006, 15:04")
}

func statusText(l lang.Lang, st access.Status) string {
	switch st {
	case access.StatusApproved:
		return lang.Text(l, "status_approved")
	case access.StatusRejected:
		return lang.Text(l, "status_rejected")
	}
	return lang.Text(l, "status_pending")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

// requestCardText — текст уведомления админа о новой заявке.
func requestCardText(l lang.Lang, req *access.Request, display string) string {
	title := lang.Text(l, "access_request_message_title")
	if req.OrderID != nil {
		return fmt.Sprintf(lang.Text(l, "access_request_message_order_id"),
			title, display, *req.OrderID, req.ID)
	}
	return fmt.Sprintf(lang.Text(l, "access_request_message"),
		title, display, orDash(req.SubmittedUsername), orDash(req.SubmittedPassword), req.ID)
}

// requestDetailsText — карточка заявки в истории.
func requestDetailsText(l lang.Lang, req *access.Request, display string) string {
	if req.OrderID != nil {
		return fmt.Sprintf(lang.Text(l, "access_request_details_order_id"),
			req.ID, display, *req.OrderID, statusText(l, req.Status), formatDatetime(req.CreatedAt))
	}
	return fmt.Sprintf(lang.Text(l, "access_request_details_text"),
		req.ID, display, orDash(req.SubmittedUsername), orDash(req.SubmittedPassword),
		statusText(l, req.Status), formatDatetime(req.CreatedAt))
}
