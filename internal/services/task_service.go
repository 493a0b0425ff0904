// internal/services/task_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskflow/internal/authz"
	"taskflow/internal/models"
	"taskflow/internal/repositories"
)

// CreateTaskInput holds the fields an admin supplies for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Link        string
	AssignedTo  string
}

// TaskListFilter narrows a task listing. Month is 0-indexed.
type TaskListFilter struct {
	AssignedTo string
	Month      *int
	Year       *int
	Search     string
}

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	CreateTask(ctx context.Context, requester models.Requester, in CreateTaskInput) (*models.Task, error)
	ListTasks(ctx context.Context, requester models.Requester, filter TaskListFilter) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, requester models.Requester, taskID string, to models.TaskStatus) (*models.Task, error)
	AddError(ctx context.Context, requester models.Requester, taskID, description string) (*models.ErrorReport, error)
	ListErrorsForTask(ctx context.Context, requester models.Requester, taskID string) ([]models.ErrorReport, error)
}

type taskService struct {
	tasks    repositories.TaskRepository
	errors   repositories.ErrorRepository
	notifier Notifier
}

// NewTaskService creates a new instance of TaskService. notifier may be nil.
func NewTaskService(tasks repositories.TaskRepository, errs repositories.ErrorRepository, notifier Notifier) TaskService {
	return &taskService{tasks: tasks, errors: errs, notifier: notifier}
}

func (s *taskService) CreateTask(ctx context.Context, requester models.Requester, in CreateTaskInput) (*models.Task, error) {
	if !authz.CanCreateTask(requester.Role) {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	title := strings.TrimSpace(in.Title)
	link := strings.TrimSpace(in.Link)
	assignee := strings.TrimSpace(in.AssignedTo)
	if title == "" || link == "" || assignee == "" {
		return nil, fmt.Errorf("%w: title, link, and assignedTo are required", ErrValidation)
	}

	task := &models.Task{
		Title:       title,
		Description: in.Description,
		Link:        link,
		AssignedTo:  assignee,
		CreatedBy:   requester.ID,
	}
	if err := s.tasks.Store(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrUnknownAssignee) {
			return nil, fmt.Errorf("%w: assignee does not exist", ErrValidation)
		}
		return nil, err
	}
	task.Errors = []models.ErrorReport{}

	s.notify(ctx, task.AssignedTo, formatTask("📌 New task", task))
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, requester models.Requester, filter TaskListFilter) ([]models.Task, error) {
	tasks, err := s.tasks.FindAll(ctx, candidateFilter(requester, filter.AssignedTo))
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []models.Task{}, nil
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	byTask, err := s.errors.ListByTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		t.Errors = byTask[t.ID]
		if t.Errors == nil {
			t.Errors = []models.ErrorReport{}
		}
		if !inPeriod(t, filter.Month, filter.Year) {
			continue
		}
		if filter.Search != "" && !matchesSearch(t, filter.Search) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// UpdateTaskStatus never tells a worker whether a task it does not own
// exists: both cases end in ErrNotFoundOrUnauthorized.
func (s *taskService) UpdateTaskStatus(ctx context.Context, requester models.Requester, taskID string, to models.TaskStatus) (*models.Task, error) {
	current, err := s.tasks.FindByID(ctx, taskID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	var from models.TaskStatus
	isOwner := false
	if current != nil {
		from = current.Status
		isOwner = current.AssignedTo == requester.ID
	}
	if err := authz.CanTransition(requester.Role, from, to, isOwner); err != nil {
		switch {
		case errors.Is(err, authz.ErrInvalidStatus):
			return nil, fmt.Errorf("%w: invalid status", ErrValidation)
		case errors.Is(err, authz.ErrNotOwner):
			return nil, ErrNotFoundOrUnauthorized
		}
		return nil, fmt.Errorf("%w: workers can only mark their tasks as completed", ErrForbidden)
	}
	if current == nil {
		return nil, ErrNotFoundOrUnauthorized
	}

	updated, err := s.tasks.UpdateStatus(ctx, taskID, to, authz.OwnerScope(requester.Role, requester.ID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFoundOrUnauthorized
		}
		return nil, err
	}
	if updated.Errors, err = s.errors.ListByTask(ctx, taskID); err != nil {
		return nil, err
	}

	if to == models.StatusApproved {
		s.notify(ctx, updated.AssignedTo, formatTask("✅ Task approved", updated))
	}
	return updated, nil
}

func (s *taskService) AddError(ctx context.Context, requester models.Requester, taskID, description string) (*models.ErrorReport, error) {
	if !authz.CanReportError(requester.Role) {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: error description required", ErrValidation)
	}

	report := &models.ErrorReport{
		TaskID:      taskID,
		Description: description,
		ReportedBy:  requester.ID,
	}
	if err := s.errors.Store(ctx, report); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return nil, err
	}

	if s.notifier != nil {
		if task, err := s.tasks.FindByID(ctx, taskID); err == nil {
			s.notify(ctx, task.AssignedTo, formatTask("⚠️ Error reported: "+description, task))
		}
	}
	return report, nil
}

// ListErrorsForTask is open to any authenticated user; unlike task listing
// it applies no ownership filter.
func (s *taskService) ListErrorsForTask(ctx context.Context, requester models.Requester, taskID string) ([]models.ErrorReport, error) {
	return s.errors.ListByTask(ctx, taskID)
}

func (s *taskService) notify(ctx context.Context, userID, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, text); err != nil {
		log.Printf("[task][notify][err] user=%s: %v", userID, err)
	}
}
