package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"taskflow/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// CreateIfNotExists inserts user unless its id or email is taken.
	CreateIfNotExists(ctx context.Context, user *models.User) (bool, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

type userRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db, now: nowUTC}
}

const userColumns = `id, email, password_hash, name, role, telegram_chat_id, created_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	const q = `
		INSERT INTO users (id, email, password_hash, name, role, telegram_chat_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.DB.ExecContext(ctx, q,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.TelegramChatID, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) CreateIfNotExists(ctx context.Context, user *models.User) (bool, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	const q = `
		INSERT INTO users (id, email, password_hash, name, role, telegram_chat_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT DO NOTHING`
	res, err := r.DB.ExecContext(ctx, q,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.TelegramChatID, user.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id`, role)
}

func (r *userRepository) query(ctx context.Context, q string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.TelegramChatID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// isUniqueViolation recognizes unique-constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
