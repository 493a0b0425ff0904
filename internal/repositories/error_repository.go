package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/utils"
)

// ErrorRepository stores error reports. Task existence is checked here,
// so a report never points at a missing task.
type ErrorRepository interface {
	Store(ctx context.Context, report *models.ErrorReport) error
	ListByTask(ctx context.Context, taskID string) ([]models.ErrorReport, error)
	ListByTasks(ctx context.Context, taskIDs []string) (map[string][]models.ErrorReport, error)
	CountByTasks(ctx context.Context, taskIDs []string) (int, error)
}

type errorRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewErrorRepository(db *sql.DB) ErrorRepository {
	return &errorRepository{db: db, now: nowUTC}
}

const errorColumns = `id, task_id, description, reported_by, reported_at`

func (r *errorRepository) Store(ctx context.Context, report *models.ErrorReport) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, report.TaskID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	report.ID = utils.NewID("error")
	report.ReportedAt = r.now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO errors (id, task_id, description, reported_by, reported_at) VALUES ($1,$2,$3,$4,$5)`,
		report.ID, report.TaskID, report.Description, report.ReportedBy, report.ReportedAt,
	)
	return err
}

func (r *errorRepository) ListByTask(ctx context.Context, taskID string) ([]models.ErrorReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+errorColumns+` FROM errors WHERE task_id = $1 ORDER BY reported_at ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ErrorReport{}
	for rows.Next() {
		var e models.ErrorReport
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Description, &e.ReportedBy, &e.ReportedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByTasks fetches reports for many tasks in one query, grouped by task id.
func (r *errorRepository) ListByTasks(ctx context.Context, taskIDs []string) (map[string][]models.ErrorReport, error) {
	out := make(map[string][]models.ErrorReport, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+errorColumns+` FROM errors WHERE task_id IN (`+placeholders(1, len(taskIDs))+`)
		 ORDER BY reported_at ASC`,
		stringArgs(taskIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.ErrorReport
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Description, &e.ReportedBy, &e.ReportedAt); err != nil {
			return nil, err
		}
		out[e.TaskID] = append(out[e.TaskID], e)
	}
	return out, rows.Err()
}

func (r *errorRepository) CountByTasks(ctx context.Context, taskIDs []string) (int, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM errors WHERE task_id IN (`+placeholders(1, len(taskIDs))+`)`,
		stringArgs(taskIDs)...).Scan(&n)
	return n, err
}

func stringArgs(ss []string) []interface{} {
	args := make([]interface{}, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
