package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for the project
// aggregate. Every mutating call runs in its own transaction; identifiers
// come back per statement via INSERT ... RETURNING, never through a shared
// last-insert-id query.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// InsertProject persists a project together with its materials, steps and
// categories, all or nothing. On success the project and its children
// carry their store-assigned identifiers; on any failure the transaction
// is rolled back and no row of the aggregate remains.
func (r *ProjectRepository) InsertProject(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO project (project_name, estimated_hours, actual_hours, difficulty, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING project_id;
`
	err = tx.QueryRowContext(ctx, q,
		p.Name, p.EstimatedHours, p.ActualHours, p.Difficulty, p.Notes,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	if err := insertMaterials(ctx, tx, p); err != nil {
		return err
	}
	if err := insertSteps(ctx, tx, p); err != nil {
		return err
	}
	if err := insertCategories(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert project: %w", err)
	}
	return nil
}

func insertMaterials(ctx context.Context, tx *sql.Tx, p *domain.Project) error {
	const q = `
INSERT INTO material (project_id, material_name, num_required, cost)
VALUES ($1, $2, $3, $4)
RETURNING material_id;
`
	for i := range p.Materials {
		m := &p.Materials[i]
		m.ProjectID = p.ID
		err := tx.QueryRowContext(ctx, q, p.ID, m.Name, m.NumRequired, m.Cost).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert material %q: %w", m.Name, err)
		}
	}
	return nil
}

func insertSteps(ctx context.Context, tx *sql.Tx, p *domain.Project) error {
	const q = `
INSERT INTO step (project_id, step_text, step_order)
VALUES ($1, $2, $3)
RETURNING step_id;
`
	for i := range p.Steps {
		s := &p.Steps[i]
		s.ProjectID = p.ID
		// step_order is positional; whatever the caller put in s.Order is
		// advisory only.
		s.Order = i + 1
		err := tx.QueryRowContext(ctx, q, p.ID, s.Text, s.Order).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", s.Order, err)
		}
	}
	return nil
}

func insertCategories(ctx context.Context, tx *sql.Tx, p *domain.Project) error {
	const link = `
INSERT INTO project_category (project_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING;
`
	for i := range p.Categories {
		c := &p.Categories[i]
		id, err := ensureCategory(ctx, tx, c.Name)
		if err != nil {
			return err
		}
		c.ID = id
		if _, err := tx.ExecContext(ctx, link, p.ID, c.ID); err != nil {
			return fmt.Errorf("link category %q: %w", c.Name, err)
		}
	}
	return nil
}

// ensureCategory returns the id of the category with the given name,
// creating it if needed. The upsert resolves the race where another
// client creates the same name concurrently: a plain insert would abort
// the whole transaction on the unique constraint, the upsert yields the
// surviving row's id either way.
func ensureCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT category_id FROM category WHERE category_name = $1;`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find category %q: %w", name, err)
	}

	const q = `
INSERT INTO category (category_name)
VALUES ($1)
ON CONFLICT (category_name) DO UPDATE SET category_name = EXCLUDED.category_name
RETURNING category_id;
`
	if err := tx.QueryRowContext(ctx, q, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	return id, nil
}

// FetchAllProjects returns every project, fully hydrated, ordered by id.
// Read-only, so no transaction: a concurrent writer may land between the
// project scan and the child queries and that is acceptable.
func (r *ProjectRepository) FetchAllProjects(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT project_id, project_name, estimated_hours, actual_hours, difficulty, notes
FROM project
ORDER BY project_id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}

	for i := range out {
		if err := r.hydrate(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FetchProjectByID returns one hydrated project, or domain.ErrNotFound
// when no row matches. Store failures surface as-is so callers can tell
// "no such project" from "store unreachable".
func (r *ProjectRepository) FetchProjectByID(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
SELECT project_id, project_name, estimated_hours, actual_hours, difficulty, notes
FROM project
WHERE project_id = $1;
`
	var p domain.Project
	err := scanProject(r.db.QueryRowContext(ctx, q, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project %d: %w", id, err)
	}

	if err := r.hydrate(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject writes the scalar fields of an existing project. Child
// collections are untouched. Zero rows affected commits cleanly; the
// caller decides whether a missing target is an error.
func (r *ProjectRepository) UpdateProject(ctx context.Context, p *domain.Project) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin update project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
UPDATE project
SET project_name = $1, estimated_hours = $2, actual_hours = $3, difficulty = $4, notes = $5
WHERE project_id = $6;
`
	res, err := tx.ExecContext(ctx, q,
		p.Name, p.EstimatedHours, p.ActualHours, p.Difficulty, p.Notes, p.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update project %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update project %d: %w", p.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit update project: %w", err)
	}
	return n, nil
}

// DeleteProject removes a project by id. Materials, steps and category
// links go with it via ON DELETE CASCADE. Zero rows affected is not an
// error here.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM project WHERE project_id = $1;`, id)
	if err != nil {
		return 0, fmt.Errorf("delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete project %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete project: %w", err)
	}
	return n, nil
}

func (r *ProjectRepository) hydrate(ctx context.Context, p *domain.Project) error {
	var err error
	if p.Materials, err = r.fetchMaterials(ctx, p.ID); err != nil {
		return err
	}
	if p.Steps, err = r.fetchSteps(ctx, p.ID); err != nil {
		return err
	}
	if p.Categories, err = r.fetchCategories(ctx, p.ID); err != nil {
		return err
	}
	return nil
}

func (r *ProjectRepository) fetchMaterials(ctx context.Context, projectID int64) ([]domain.Material, error) {
	const q = `
SELECT material_id, project_id, material_name, num_required, cost
FROM material
WHERE project_id = $1
ORDER BY material_id;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch materials for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var out []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &m.NumRequired, &m.Cost); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) fetchSteps(ctx context.Context, projectID int64) ([]domain.Step, error) {
	const q = `
SELECT step_id, project_id, step_text, step_order
FROM step
WHERE project_id = $1
ORDER BY step_order;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch steps for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var out []domain.Step
	for rows.Next() {
		var s domain.Step
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Text, &s.Order); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) fetchCategories(ctx context.Context, projectID int64) ([]domain.Category, error) {
	const q = `
SELECT c.category_id, c.category_name
FROM category c
JOIN project_category pc USING (category_id)
WHERE pc.project_id = $1
ORDER BY c.category_id;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch categories for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner, p *domain.Project) error {
	var (
		difficulty sql.NullInt64
		notes      sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.EstimatedHours, &p.ActualHours, &difficulty, &notes)
	if err != nil {
		return err
	}
	if difficulty.Valid {
		d := int(difficulty.Int64)
		p.Difficulty = &d
	}
	p.Notes = notes.String
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The HTTP layer maps these to 409.
func IsUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
