package repository

import (
	"context"
	"encoding/json"
	"time"

	"companygrow/internal/database"
	"companygrow/internal/domain"
	"companygrow/internal/domain/project"

	"github.com/google/uuid"
)

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

const projectColumns = `id, name, description, assigned_users, skills_required, skills_gained, status, badge_reward, managed_by, deadline, version, created_at, updated_at`

func encodeProjectJSON(p project.Project) (assigned, required, gained []byte, err error) {
	if assigned, err = json.Marshal(nonNil(p.AssignedUsers)); err != nil {
		return nil, nil, nil, err
	}
	if required, err = json.Marshal(nonNil(p.SkillsRequired)); err != nil {
		return nil, nil, nil, err
	}
	if gained, err = json.Marshal(nonNil(p.SkillsGained)); err != nil {
		return nil, nil, nil, err
	}
	return assigned, required, gained, nil
}

func (r *PostgresProjectRepository) Create(ctx context.Context, p project.Project) error {
	assigned, required, gained, err := encodeProjectJSON(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx,
		`INSERT INTO projects (id, name, description, assigned_users, skills_required, skills_gained, status, badge_reward, managed_by, deadline, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $11)`,
		p.ID, p.Name, p.Description, assigned, required, gained, string(p.Status), tierValue(p.BadgeReward), p.ManagedBy, p.Deadline, now,
	)
	return err
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

func (r *PostgresProjectRepository) List(ctx context.Context, limit, offset int) ([]project.Project, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+`
		 FROM projects
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProjectRepository) Save(ctx context.Context, p *project.Project) error {
	assigned, required, gained, err := encodeProjectJSON(*p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	n, err := r.db.Exec(ctx,
		`UPDATE projects
		 SET name = $3, description = $4, assigned_users = $5, skills_required = $6, skills_gained = $7,
		     status = $8, badge_reward = $9, deadline = $10, version = version + 1, updated_at = $11
		 WHERE id = $1 AND version = $2`,
		p.ID, p.Version, p.Name, p.Description, assigned, required, gained, string(p.Status), tierValue(p.BadgeReward), p.Deadline, now,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := rowExists(ctx, r.db, "projects", p.ID)
		if err != nil {
			return err
		}
		if !ok {
			return project.ErrNotFound
		}
		return domain.ErrStaleWrite
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

func scanProject(row scanner) (project.Project, error) {
	var (
		p                          project.Project
		assigned, required, gained []byte
		status                     string
		reward                     *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &assigned, &required, &gained,
		&status, &reward, &p.ManagedBy, &p.Deadline, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, err
	}
	if err := json.Unmarshal(assigned, &p.AssignedUsers); err != nil {
		return project.Project{}, err
	}
	if err := json.Unmarshal(required, &p.SkillsRequired); err != nil {
		return project.Project{}, err
	}
	if err := json.Unmarshal(gained, &p.SkillsGained); err != nil {
		return project.Project{}, err
	}
	p.Status = project.Status(status)
	p.BadgeReward = tierPtr(reward)
	return p, nil
}
