package repository

import (
	"context"
	"encoding/json"
	"time"

	"companygrow/internal/database"
	"companygrow/internal/domain"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, department, position, skills, performance_metrics, version, created_at, updated_at`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	skills, metrics, err := encodeUserJSON(u)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, department, position, skills, performance_metrics, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Department, u.Position, skills, metrics, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]user.User, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 ORDER BY created_at ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) SaveUser(ctx context.Context, u *user.User) error {
	skills, metrics, err := encodeUserJSON(*u)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	n, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email = $3, password_hash = $4, name = $5, role = $6, department = $7, position = $8,
		     skills = $9, performance_metrics = $10, version = version + 1, updated_at = $11
		 WHERE id = $1 AND version = $2`,
		u.ID, u.Version, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Department, u.Position, skills, metrics, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return err
	}
	if n == 0 {
		ok, err := rowExists(ctx, r.db, "users", u.ID)
		if err != nil {
			return err
		}
		if !ok {
			return user.ErrNotFound
		}
		return domain.ErrStaleWrite
	}
	u.Version++
	u.UpdatedAt = now
	return nil
}

func encodeUserJSON(u user.User) ([]byte, []byte, error) {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	metrics := u.PerformanceMetrics
	if metrics == nil {
		metrics = []user.PeriodMetric{}
	}
	sb, err := json.Marshal(skills)
	if err != nil {
		return nil, nil, err
	}
	mb, err := json.Marshal(metrics)
	if err != nil {
		return nil, nil, err
	}
	return sb, mb, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (user.User, error) {
	var (
		u       user.User
		role    string
		skills  []byte
		metrics []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Department, &u.Position,
		&skills, &metrics, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	if err := json.Unmarshal(skills, &u.Skills); err != nil {
		return user.User{}, err
	}
	if err := json.Unmarshal(metrics, &u.PerformanceMetrics); err != nil {
		return user.User{}, err
	}
	return u, nil
}
