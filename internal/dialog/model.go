package dialog

type State string

const (
	StateIdle State = "idle"

	// Подача заявки на доступ (пользователь)
	StateAccessMethod   State = "access_method"   // выбор способа подтверждения
	StateAccessUsername State = "access_username" // ввод логина
	StateAccessPassword State = "access_password" // ввод пароля
	StateAccessOrderID  State = "access_order_id" // ввод номера заказа

	// Просмотр истории заявок (админ)
	StateAccessHistory State = "access_history" // ожидание номера заявки
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 достаёт int64 из payload (после JSON числа приходят как float64).
func GetInt64(p Payload, key string) (int64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
