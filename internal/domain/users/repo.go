package users

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/access-bot/internal/lang"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const userColumns = `user_id, username, name, lang, role, is_banned, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var l string
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &l, &u.Role, &u.Banned, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Lang = lang.Normalize(l)
	return &u, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

// UpsertFromTelegram Upsert по Telegram-профилю. Роль и язык при обновлении не трогаем.
func (r *Repo) UpsertFromTelegram(ctx context.Context, tg Telegram) (*User, error) {
	name := strings.TrimSpace(tg.FirstName + " " + tg.LastName)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, username, name)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			username   = EXCLUDED.username,
			name       = EXCLUDED.name,
			updated_at = now()
		RETURNING `+userColumns+`
	`, tg.ID, tg.Username, name)
	return scanUser(row)
}

func (r *Repo) SetLang(ctx context.Context, id int64, l lang.Lang) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET lang = $2, updated_at = now() WHERE user_id = $1`, id, string(l))
	return err
}

func (r *Repo) SetRole(ctx context.Context, id int64, role Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE user_id = $1`, id, string(role))
	return err
}
