package access

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal: pending — единственный нетерминальный статус.
func (s Status) Terminal() bool { return s != StatusPending }

var (
	ErrInvalidSubmission = errors.New("access: invalid submission payload")
	ErrPendingExists     = errors.New("access: user already has a pending request")
	ErrNotFound          = errors.New("access: request not found")
	ErrAlreadyProcessed  = errors.New("access: request already processed")
	ErrUnauthorized      = errors.New("access: actor is not allowed to manage requests")
)

type SubmissionKind string

const (
	SubmissionCredentials SubmissionKind = "credentials"
	SubmissionOrder       SubmissionKind = "order"
)

// Submission — содержимое заявки: либо логин+пароль, либо номер заказа.
// Вариант фиксируется конструктором, Validate отсекает смешанные формы.
type Submission struct {
	Kind     SubmissionKind
	Username string
	Password string
	OrderID  string
}

func Credentials(username, password string) Submission {
	return Submission{Kind: SubmissionCredentials, Username: username, Password: password}
}

func Order(orderID string) Submission {
	return Submission{Kind: SubmissionOrder, OrderID: orderID}
}

func (s Submission) Validate() error {
	switch s.Kind {
	case SubmissionCredentials:
		if s.Username == "" || s.Password == "" || s.OrderID != "" {
			return ErrInvalidSubmission
		}
	case SubmissionOrder:
		if s.OrderID == "" || s.Username != "" || s.Password != "" {
			return ErrInvalidSubmission
		}
	default:
		return ErrInvalidSubmission
	}
	return nil
}

type Request struct {
	ID                int64
	UserID            int64
	SubmittedUsername *string
	SubmittedPassword *string
	OrderID           *string
	Status            Status
	InviteLink        *string
	IsRevoked         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Submission восстанавливает вариант по заполненным колонкам.
func (r *Request) Submission() Submission {
	if r.OrderID != nil {
		return Order(*r.OrderID)
	}
	var u, p string
	if r.SubmittedUsername != nil {
		u = *r.SubmittedUsername
	}
	if r.SubmittedPassword != nil {
		p = *r.SubmittedPassword
	}
	return Credentials(u, p)
}

// LiveLink — одобренная заявка с действующей (не отозванной) ссылкой.
func (r *Request) LiveLink() bool {
	return r.Status == StatusApproved && r.InviteLink != nil && !r.IsRevoked
}
