package repository

import (
	"context"
	"encoding/json"
	"time"

	"companygrow/internal/database"
	"companygrow/internal/domain"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresCourseRepository struct {
	db database.DB
}

func NewPostgresCourseRepository(db database.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

const courseColumns = `id, title, description, category, difficulty, content, enrolled_users, skills_gained, badge_reward, created_by, version, created_at, updated_at`

type courseJSON struct {
	content  []byte
	enrolled []byte
	skills   []byte
}

func encodeCourseJSON(c course.Course) (courseJSON, error) {
	var (
		out courseJSON
		err error
	)
	if out.content, err = json.Marshal(nonNil(c.Content)); err != nil {
		return courseJSON{}, err
	}
	if out.enrolled, err = json.Marshal(nonNil(c.EnrolledUsers)); err != nil {
		return courseJSON{}, err
	}
	if out.skills, err = json.Marshal(nonNil(c.SkillsGained)); err != nil {
		return courseJSON{}, err
	}
	return out, nil
}

func (r *PostgresCourseRepository) Create(ctx context.Context, c course.Course) error {
	j, err := encodeCourseJSON(c)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(ctx,
		`INSERT INTO courses (id, title, description, category, difficulty, content, enrolled_users, skills_gained, badge_reward, created_by, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $11)`,
		c.ID, c.Title, c.Description, c.Category, c.Difficulty, j.content, j.enrolled, j.skills, tierValue(c.BadgeReward), c.CreatedBy, now,
	)
	return err
}

func (r *PostgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (course.Course, error) {
	return scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *PostgresCourseRepository) List(ctx context.Context, limit, offset int) ([]course.Course, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+`
		 FROM courses
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCourseRepository) Save(ctx context.Context, c *course.Course) error {
	j, err := encodeCourseJSON(*c)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	n, err := r.db.Exec(ctx,
		`UPDATE courses
		 SET title = $3, description = $4, category = $5, difficulty = $6, content = $7,
		     enrolled_users = $8, skills_gained = $9, badge_reward = $10,
		     version = version + 1, updated_at = $11
		 WHERE id = $1 AND version = $2`,
		c.ID, c.Version, c.Title, c.Description, c.Category, c.Difficulty, j.content, j.enrolled, j.skills, tierValue(c.BadgeReward), now,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := rowExists(ctx, r.db, "courses", c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return course.ErrNotFound
		}
		return domain.ErrStaleWrite
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

func scanCourse(row scanner) (course.Course, error) {
	var (
		c                         course.Course
		content, enrolled, skills []byte
		reward                    *string
	)
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty,
		&content, &enrolled, &skills, &reward, &c.CreatedBy, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	if err := json.Unmarshal(content, &c.Content); err != nil {
		return course.Course{}, err
	}
	if err := json.Unmarshal(enrolled, &c.EnrolledUsers); err != nil {
		return course.Course{}, err
	}
	if err := json.Unmarshal(skills, &c.SkillsGained); err != nil {
		return course.Course{}, err
	}
	c.BadgeReward = tierPtr(reward)
	return c, nil
}

func tierValue(t *user.BadgeTier) *string {
	if t == nil || *t == "" {
		return nil
	}
	s := string(*t)
	return &s
}

func tierPtr(s *string) *user.BadgeTier {
	if s == nil || *s == "" {
		return nil
	}
	t := user.BadgeTier(*s)
	return &t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
