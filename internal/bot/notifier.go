package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/domain/users"
	"github.com/Spok95/access-bot/internal/lang"
)

// Notifier собирает тексты/клавиатуры и доставляет их адресатам.
// Язык берётся из профиля получателя.
type Notifier struct {
	api        *tgbotapi.BotAPI
	log        *slog.Logger
	users      *users.Repo
	ownerID    int64
	errorsChat int64
}

func NewNotifier(api *tgbotapi.BotAPI, log *slog.Logger, usersRepo *users.Repo,
	ownerID, errorsChat int64) *Notifier {

	return &Notifier{api: api, log: log, users: usersRepo, ownerID: ownerID, errorsChat: errorsChat}
}

func (n *Notifier) langOf(ctx context.Context, userID int64) lang.Lang {
	u, err := n.users.Get(ctx, userID)
	if err != nil || u == nil {
		return lang.RU
	}
	return u.Lang
}

// NewRequest пересылает заявку владельцу с кнопками решения.
func (n *Notifier) NewRequest(ctx context.Context, req *access.Request) error {
	ownerLang := n.langOf(ctx, n.ownerID)

	display := fmt.Sprintf("%d", req.UserID)
	if u, err := n.users.Get(ctx, req.UserID); err == nil && u != nil {
		display = u.Display()
	}

	msg := tgbotapi.NewMessage(n.ownerID, requestCardText(ownerLang, req, display))
	msg.ReplyMarkup = approveRejectKeyboard(req.ID, ownerLang)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("notify owner: %w", err)
	}
	return nil
}

func (n *Notifier) Approved(ctx context.Context, req *access.Request) error {
	userLang := n.langOf(ctx, req.UserID)
	text := lang.Text(userLang, "access_approved_no_link_msg")
	if req.InviteLink != nil {
		text = fmt.Sprintf(lang.Text(userLang, "access_approved_with_link_msg"), *req.InviteLink)
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(req.UserID, text)); err != nil {
		return fmt.Errorf("notify user %d: %w", req.UserID, err)
	}
	return nil
}

func (n *Notifier) Rejected(ctx context.Context, req *access.Request) error {
	userLang := n.langOf(ctx, req.UserID)
	if _, err := n.api.Send(tgbotapi.NewMessage(req.UserID, lang.Text(userLang, "access_rejected_msg"))); err != nil {
		return fmt.Errorf("notify user %d: %w", req.UserID, err)
	}
	return nil
}

// ReportError шлёт сообщение в служебный канал ошибок, если он настроен.
func (n *Notifier) ReportError(text string) {
	if n.errorsChat == 0 {
		return
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(n.errorsChat, "⚠️ "+text)); err != nil {
		n.log.Error("failed to report error to errors channel", "err", err)
	}
}

// Authorizer: заявками управляет владелец и подтверждённые админы.
type Authorizer struct {
	users   *users.Repo
	ownerID int64
}

func NewAuthorizer(usersRepo *users.Repo, ownerID int64) *Authorizer {
	return &Authorizer{users: usersRepo, ownerID: ownerID}
}

func (a *Authorizer) HasCapability(ctx context.Context, actorID int64, cap access.Capability) bool {
	if cap != access.CapManageAccessRequests {
		return false
	}
	if actorID == a.ownerID {
		return true
	}
	u, err := a.users.Get(ctx, actorID)
	return err == nil && u != nil && !u.Banned && u.Role == users.RoleAdmin
}
