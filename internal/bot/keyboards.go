package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/lang"
)

func navKeyboard(l lang.Lang, back, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "back"), "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "cancel"), "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// userMenuKeyboard — стартовое меню пользователя.
func userMenuKeyboard(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "access_request"), "access:request"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "switch_lang"), "lang:toggle"),
		),
	)
}

func methodKeyboard(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "submit_method_creds"), "access:method:creds"),
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "submit_method_order"), "access:method:order"),
		),
		navKeyboard(l, false, true).InlineKeyboard[0],
	)
}

// approveRejectKeyboard — кнопки решения на карточке заявки у админа.
func approveRejectKeyboard(reqID int64, l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "access_request_approve"), fmt.Sprintf("acc:approve:%d", reqID)),
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "access_request_reject"), fmt.Sprintf("acc:reject:%d", reqID)),
		),
	)
}

// decidedKeyboard заменяет кнопки решения на одну неактивную метку.
func decidedKeyboard(approved bool, l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	key := "access_request_rejected"
	if approved {
		key = "access_request_approved"
	}
	label := lang.Button(l, key)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "acc:decided"),
		),
	)
}

func adminSettingsKeyboard(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "pending_access_request"), "acc:pending"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "access_request_history"), "acc:history"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Button(l, "access_request_export"), "acc:export"),
		),
	)
}

// historyKeyboard — последние заявки кнопками в две колонки.
func historyKeyboard(reqs []access.Request, l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	var row []tgbotapi.InlineKeyboardButton
	for _, r := range reqs {
		btn := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("#%d (%s)", r.ID, statusText(l, r.Status)),
			fmt.Sprintf("acc:req:%d", r.ID),
		)
		row = append(row, btn)
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(l, true, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// adminReplyKeyboard Нижняя панель (ReplyKeyboard) для админа
func adminReplyKeyboard(l lang.Lang) tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(lang.Button(l, "admin_requests"))},
		},
	}
}
