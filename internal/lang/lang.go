package lang

// Словари текстов и подписей кнопок. Ключи совпадают между языками,
// при отсутствии перевода падаем обратно на русский.

type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// Normalize приводит произвольный код языка к поддерживаемому.
func Normalize(code string) Lang {
	if Lang(code) == EN {
		return EN
	}
	return RU
}

var texts = map[Lang]map[string]string{
	RU: {
		"start_user":                       "Привет! Здесь можно запросить доступ в закрытый канал.",
		"start_admin":                      "Привет, админ! Управление заявками — через кнопки меню снизу.",
		"access_choose_method":             "Как вы хотите подтвердить покупку?",
		"access_ask_username":              "Отправьте логин от вашего аккаунта сообщением.",
		"access_ask_password":              "Теперь отправьте пароль сообщением.",
		"access_ask_order_id":              "Отправьте номер заказа сообщением (только цифры).",
		"access_order_id_invalid":          "Номер заказа должен состоять только из цифр. Попробуйте ещё раз.",
		"access_request_received":          "Заявка отправлена. Мы сообщим вам о решении.",
		"access_request_save_failed":       "Не удалось сохранить заявку. Попробуйте позже.",
		"access_already_in_channel":        "Вы уже состоите в канале.",
		"access_already_pending":           "У вас уже есть заявка на рассмотрении.",
		"access_approved_with_link_msg":    "Ваша заявка одобрена! Ссылка для входа (одноразовая):\n%s",
		"access_approved_no_link_msg":      "Ваша заявка одобрена! Ссылка придёт отдельным сообщением.",
		"access_rejected_msg":              "К сожалению, ваша заявка отклонена.",
		"access_request_message_title":     "Новая заявка на доступ",
		"access_request_message":           "%s\nОт: %s\nЛогин: %s\nПароль: %s\nЗаявка: #%d",
		"access_request_message_order_id":  "%s\nОт: %s\nНомер заказа: %s\nЗаявка: #%d",
		"access_not_found":                 "Заявка не найдена.",
		"access_request_already_processed": "Заявка уже обработана.",
		"access_requests_settings_title":   "Заявки на доступ — выберите действие:",
		"access_request_history_ask_id":    "Выберите заявку из списка или отправьте её номер сообщением.",
		"no_pending_access_requests":       "Новых заявок нет.",
		"status_pending":                   "на рассмотрении",
		"status_approved":                  "одобрена",
		"status_rejected":                  "отклонена",
		"access_request_details_text":      "Заявка #%d\nОт: %s\nЛогин: %s\nПароль: %s\nСтатус: %s\nСоздана: %s",
		"access_request_details_order_id":  "Заявка #%d\nОт: %s\nНомер заказа: %s\nСтатус: %s\nСоздана: %s",
		"access_denied":                    "Доступ запрещён.",
		"lang_switched":                    "Язык переключён: русский.",
		"cancelled":                        "Операция отменена.",
	},
	EN: {
		"start_user":                       "Hi! Here you can request access to the private channel.",
		"start_admin":                      "Hi, admin! Manage access requests via the menu buttons below.",
		"access_choose_method":             "How would you like to confirm your purchase?",
		"access_ask_username":              "Send your account username as a message.",
		"access_ask_password":              "Now send your password as a message.",
		"access_ask_order_id":              "Send your order number as a message (digits only).",
		"access_order_id_invalid":          "The order number must contain digits only. Try again.",
		"access_request_received":          "Request submitted. We will notify you about the decision.",
		"access_request_save_failed":       "Failed to save the request. Please try again later.",
		"access_already_in_channel":        "You are already a member of the channel.",
		"access_already_pending":           "You already have a request under review.",
		"access_approved_with_link_msg":    "Your request is approved! Join link (single-use):\n%s",
		"access_approved_no_link_msg":      "Your request is approved! The link will arrive in a separate message.",
		"access_rejected_msg":              "Unfortunately, your request was rejected.",
		"access_request_message_title":     "New access request",
		"access_request_message":           "%s\nFrom: %s\nUsername: %s\nPassword: %s\nRequest: #%d",
		"access_request_message_order_id":  "%s\nFrom: %s\nOrder number: %s\nRequest: #%d",
		"access_not_found":                 "Request not found.",
		"access_request_already_processed": "The request has already been processed.",
		"access_requests_settings_title":   "Access requests — pick an action:",
		"access_request_history_ask_id":    "Pick a request from the list or send its number as a message.",
		"no_pending_access_requests":       "No new requests.",
		"status_pending":                   "pending",
		"status_approved":                  "approved",
		"status_rejected":                  "rejected",
		"access_request_details_text":      "Request #%d\nFrom: %s\nUsername: %s\nPassword: %s\nStatus: %s\nCreated: %s",
		"access_request_details_order_id":  "Request #%d\nFrom: %s\nOrder number: %s\nStatus: %s\nCreated: %s",
		"access_denied":                    "Access denied.",
		"lang_switched":                    "Language switched: English.",
		"cancelled":                        "Operation cancelled.",
	},
}

var buttons = map[Lang]map[string]string{
	RU: {
		"access_request":           "🔑 Запросить доступ",
		"submit_method_creds":      "Логин и пароль",
		"submit_method_order":      "Номер заказа",
		"access_request_approve":   "✅ Одобрить",
		"access_request_reject":    "❌ Отклонить",
		"access_request_approved":  "Заявка одобрена ✅",
		"access_request_rejected":  "Заявка отклонена ❌",
		"admin_requests":           "Заявки на доступ",
		"pending_access_request":   "📥 Новая заявка",
		"access_request_history":   "📄 История заявок",
		"access_request_export":    "📊 Выгрузка в Excel",
		"switch_lang":              "🌐 Язык / Language",
		"back":                     "⬅️ Назад",
		"cancel":                   "✖️ Отменить",
	},
	EN: {
		"access_request":           "🔑 Request access",
		"submit_method_creds":      "Username & password",
		"submit_method_order":      "Order number",
		"access_request_approve":   "✅ Approve",
		"access_request_reject":    "❌ Reject",
		"access_request_approved":  "Request approved ✅",
		"access_request_rejected":  "Request rejected ❌",
		"admin_requests":           "Access requests",
		"pending_access_request":   "📥 Next request",
		"access_request_history":   "📄 Request history",
		"access_request_export":    "📊 Export to Excel",
		"switch_lang":              "🌐 Язык / Language",
		"back":                     "⬅️ Back",
		"cancel":                   "✖️ Cancel",
	},
}

func Text(l Lang, key string) string {
	if s, ok := texts[l][key]; ok {
		return s
	}
	return texts[RU][key]
}

func Button(l Lang, key string) string {
	if s, ok := buttons[l][key]; ok {
		return s
	}
	return buttons[RU][key]
}
