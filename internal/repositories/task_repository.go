package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/authz"
	"taskflow/internal/models"
	"taskflow/internal/utils"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	// UpdateStatus moves the task to status and stamps the matching time.
	// A non-empty ownerID restricts the update to tasks assigned to it; a task
	// that is missing or not owned yields ErrNotFound either way.
	UpdateStatus(ctx context.Context, id string, to models.TaskStatus, ownerID string) (*models.Task, error)
}

type taskRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db, now: nowUTC}
}

const taskColumns = `id, title, description, link, assigned_to, created_by, status,
       created_at, completed_at, approved_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, task.AssignedTo,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAssignee
	}

	task.ID = utils.NewID("task")
	task.Status = models.StatusPending
	task.CreatedAt = r.now()
	task.CompletedAt = nil
	task.ApprovedAt = nil

	query := `
		INSERT INTO tasks (id, title, description, link, assigned_to, created_by, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Link, task.AssignedTo, task.CreatedBy,
		task.Status, task.CreatedAt,
	)
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	// ownership override: a restricted requester only ever sees own tasks
	assignee := filter.AssignedTo
	if scope := authz.OwnerScope(filter.Requester.Role, filter.Requester.ID); scope != "" {
		assignee = &scope
	}
	if assignee != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", argID))
		args = append(args, *assignee)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, to models.TaskStatus, ownerID string) (*models.Task, error) {
	sets := []string{"status = $1"}
	args := []interface{}{to}
	argID := 2

	switch to {
	case models.StatusCompleted:
		sets = append(sets, fmt.Sprintf("completed_at = $%d", argID))
		args = append(args, r.now())
		argID++
	case models.StatusApproved:
		sets = append(sets, fmt.Sprintf("approved_at = $%d", argID))
		args = append(args, r.now())
		argID++
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + fmt.Sprintf(" WHERE id = $%d", argID)
	args = append(args, id)
	argID++
	if ownerID != "" {
		query += fmt.Sprintf(" AND assigned_to = $%d", argID)
		args = append(args, ownerID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func scanTask(s rowScanner) (*models.Task, error) {
	var (
		t           models.Task
		completedAt sql.NullTime
		approvedAt  sql.NullTime
	)
	if err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Link, &t.AssignedTo, &t.CreatedBy, &t.Status,
		&t.CreatedAt, &completedAt, &approvedAt,
	); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	if approvedAt.Valid {
		ts := approvedAt.Time
		t.ApprovedAt = &ts
	}
	return &t, nil
}
