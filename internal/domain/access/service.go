package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Spok95/access-bot/internal/infra/metrics"
)

// Store — хранилище заявок. Decide и RevokeByLink обязаны быть атомарными
// на уровне строки (реализация на postgres — одиночный условный UPDATE).
type Store interface {
	Create(ctx context.Context, userID int64, sub Submission) (*Request, error)
	Get(ctx context.Context, id int64) (*Request, error)
	Decide(ctx context.Context, id int64, to Status) (*Request, error)
	SetInviteLink(ctx context.Context, id int64, link string) error
	RevokeByLink(ctx context.Context, link string) (*Request, error)
	FindPending(ctx context.Context, userID int64) (*Request, error)
	FindUnrevokedApproved(ctx context.Context, userID int64) (*Request, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListRecent(ctx context.Context, limit int) ([]Request, error)
}

type InviteIssuer interface {
	CreateSingleUseInvite(ctx context.Context, channelID int64) (string, error)
	RevokeInvite(ctx context.Context, channelID int64, inviteLink string) error
}

type MembershipOracle interface {
	IsMember(ctx context.Context, channelID, userID int64) (bool, error)
}

// Notifier доставляет исходящие сообщения; тексты и клавиатуры собирает
// реализация (бот), здесь только факты.
type Notifier interface {
	NewRequest(ctx context.Context, req *Request) error
	Approved(ctx context.Context, req *Request) error
	Rejected(ctx context.Context, req *Request) error
}

type Capability string

const CapManageAccessRequests Capability = "manage_access_requests"

type Authorizer interface {
	HasCapability(ctx context.Context, actorID int64, cap Capability) bool
}

// Service ведёт жизненный цикл заявки: подача, решение админа,
// отзыв ссылки после входа в канал.
type Service struct {
	log       *slog.Logger
	store     Store
	invites   InviteIssuer
	members   MembershipOracle
	notify    Notifier
	authz     Authorizer
	channelID int64
}

func NewService(log *slog.Logger, store Store, invites InviteIssuer,
	members MembershipOracle, notify Notifier, authz Authorizer, channelID int64) *Service {

	return &Service{
		log: log, store: store, invites: invites,
		members: members, notify: notify, authz: authz,
		channelID: channelID,
	}
}

// Submit создаёт pending-заявку. У пользователя не может быть двух
// pending-заявок одновременно. Уведомление админа — best-effort.
func (s *Service) Submit(ctx context.Context, userID int64, sub Submission) (*Request, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	pending, err := s.store.FindPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	if pending != nil {
		return nil, ErrPendingExists
	}

	req, err := s.store.Create(ctx, userID, sub)
	if err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	metrics.RequestsSubmitted.Inc()
	s.log.Info("access request submitted", "request_id", req.ID, "user_id", userID, "method", sub.Kind)

	if err := s.notify.NewRequest(ctx, req); err != nil {
		metrics.DeliveryFailures.Inc()
		s.log.Warn("failed to forward access request to admin", "request_id", req.ID, "err", err)
	}
	return req, nil
}

// Decide фиксирует решение админа. Повторное решение по той же заявке
// возвращает ErrAlreadyProcessed. Выпуск ссылки и уведомления идут после
// смены статуса; их сбой решение не откатывает — заявка остаётся
// approved без ссылки, дальше вручную.
func (s *Service) Decide(ctx context.Context, reqID int64, approve bool, actorID int64) (*Request, error) {
	if !s.authz.HasCapability(ctx, actorID, CapManageAccessRequests) {
		return nil, ErrUnauthorized
	}

	to := StatusRejected
	if approve {
		to = StatusApproved
	}
	req, err := s.store.Decide(ctx, reqID, to)
	if err != nil {
		return nil, err
	}
	s.log.Info("access request decided",
		"request_id", req.ID, "user_id", req.UserID, "status", req.Status, "admin_id", actorID)

	if !approve {
		metrics.RequestsRejected.Inc()
		if err := s.notify.Rejected(ctx, req); err != nil {
			metrics.DeliveryFailures.Inc()
			s.log.Warn("failed to notify user about rejection", "request_id", req.ID, "err", err)
		}
		return req, nil
	}

	metrics.RequestsApproved.Inc()
	link, err := s.invites.CreateSingleUseInvite(ctx, s.channelID)
	if err != nil {
		metrics.DeliveryFailures.Inc()
		s.log.Error("invite issuance failed, request approved without link",
			"request_id", req.ID, "err", err)
		return req, nil
	}
	if err := s.store.SetInviteLink(ctx, req.ID, link); err != nil {
		metrics.DeliveryFailures.Inc()
		s.log.Error("failed to store invite link", "request_id", req.ID, "err", err)
	} else {
		req.InviteLink = &link
	}
	if err := s.notify.Approved(ctx, req); err != nil {
		metrics.DeliveryFailures.Inc()
		s.log.Warn("failed to notify user about approval", "request_id", req.ID, "err", err)
	}
	return req, nil
}

// OnMemberJoined вызывается на переход «не в канале → в канале».
// Неизвестный токен — no-op. Флаг is_revoked ставится до обращения
// к каналу и не снимается при сбое отзыва: ссылка одноразовая, флаг
// фиксирует локальное намерение, сбой виден в логе и счётчике.
func (s *Service) OnMemberJoined(ctx context.Context, channelID int64, inviteLink string, userID int64) error {
	if channelID != s.channelID || inviteLink == "" {
		return nil
	}
	req, err := s.store.RevokeByLink(ctx, inviteLink)
	if err != nil {
		return fmt.Errorf("mark revoked: %w", err)
	}
	if req == nil {
		return nil
	}
	metrics.InvitesRevoked.Inc()
	s.log.Info("member joined via access invite, revoking link",
		"request_id", req.ID, "user_id", userID)

	if err := s.invites.RevokeInvite(ctx, channelID, inviteLink); err != nil {
		metrics.RevokeFailures.Inc()
		s.log.Warn("failed to revoke invite link at channel", "request_id", req.ID, "err", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, reqID int64) (*Request, error) {
	return s.store.Get(ctx, reqID)
}

func (s *Service) ListPending(ctx context.Context) ([]Request, error) {
	return s.store.ListPending(ctx)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Request, error) {
	return s.store.ListRecent(ctx, limit)
}

func (s *Service) PendingExists(ctx context.Context, userID int64) (bool, error) {
	req, err := s.store.FindPending(ctx, userID)
	if err != nil {
		return false, err
	}
	return req != nil, nil
}

// UnrevokedInviteLink возвращает действующую ссылку пользователя, если есть.
func (s *Service) UnrevokedInviteLink(ctx context.Context, userID int64) (string, error) {
	req, err := s.store.FindUnrevokedApproved(ctx, userID)
	if err != nil {
		return "", err
	}
	if req == nil || req.InviteLink == nil {
		return "", nil
	}
	return *req.InviteLink, nil
}

// IsChannelMember — проверка членства перед подачей заявки.
func (s *Service) IsChannelMember(ctx context.Context, userID int64) (bool, error) {
	return s.members.IsMember(ctx, s.channelID, userID)
}
