package access

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const requestColumns = `id, user_id, submitted_username, submitted_password, order_id,
	status, invite_link, is_revoked, created_at, updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var r Request
	if err := row.Scan(&r.ID, &r.UserID, &r.SubmittedUsername, &r.SubmittedPassword,
		&r.OrderID, &r.Status, &r.InviteLink, &r.IsRevoked, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Repo) Create(ctx context.Context, userID int64, sub Submission) (*Request, error) {
	var username, password, orderID *string
	switch sub.Kind {
	case SubmissionCredentials:
		username, password = &sub.Username, &sub.Password
	case SubmissionOrder:
		orderID = &sub.OrderID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO access_requests (user_id, submitted_username, submitted_password, order_id, status)
		VALUES ($1,$2,$3,$4,'pending')
		RETURNING `+requestColumns,
		userID, username, password, orderID)
	return scanRequest(row)
}

func (r *Repo) Get(ctx context.Context, id int64) (*Request, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM access_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return req, err
}

// Decide переводит pending-заявку в терминальный статус одним UPDATE:
// проверка статуса и запись нового — один атомарный оператор,
// из двух конкурентных решений выигрывает только первое.
func (r *Repo) Decide(ctx context.Context, id int64, to Status) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE access_requests
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+requestColumns,
		id, string(to))
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// либо заявки нет, либо она уже обработана
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyProcessed
	}
	return req, err
}

func (r *Repo) SetInviteLink(ctx context.Context, id int64, link string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE access_requests SET invite_link = $2, updated_at = now() WHERE id = $1`, id, link)
	return err
}

// RevokeByLink помечает заявку отозванной по токену ссылки. Идемпотентно:
// повторный вызов и неизвестный токен возвращают (nil, nil).
func (r *Repo) RevokeByLink(ctx context.Context, link string) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE access_requests
		SET is_revoked = TRUE, updated_at = now()
		WHERE invite_link = $1 AND is_revoked = FALSE
		RETURNING `+requestColumns,
		link)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *Repo) FindPending(ctx context.Context, userID int64) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM access_requests
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY created_at
		LIMIT 1`, userID)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *Repo) FindUnrevokedApproved(ctx context.Context, userID int64) (*Request, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM access_requests
		WHERE user_id = $1 AND status = 'approved'
		  AND invite_link IS NOT NULL AND is_revoked = FALSE
		ORDER BY created_at
		LIMIT 1`, userID)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

// ListPending — очередь на рассмотрение, старые первыми.
func (r *Repo) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM access_requests
		WHERE status = 'pending'
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListRecent — история, новые первыми.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM access_requests
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}
