package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"taskflow/internal/authz"
	"taskflow/internal/models"
	"taskflow/internal/repositories"
)

// --- fakes ---

type fakeTaskRepo struct {
	tasks        map[string]*models.Task
	users        map[string]bool
	now          time.Time
	seq          int
	lastFilter   models.TaskFilter
	lastOwnerID  string
	findAllCalls int
	updateCalls  int
}

func newFakeTaskRepo(users ...string) *fakeTaskRepo {
	r := &fakeTaskRepo{
		tasks: map[string]*models.Task{},
		users: map[string]bool{},
		now:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local),
	}
	for _, u := range users {
		r.users[u] = true
	}
	return r
}

func (r *fakeTaskRepo) tick() time.Time {
	r.now = r.now.Add(time.Minute)
	return r.now
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	if !r.users[task.AssignedTo] {
		return repositories.ErrUnknownAssignee
	}
	r.seq++
	task.ID = fmt.Sprintf("task_%d", r.seq)
	task.Status = models.StatusPending
	task.CreatedAt = r.tick()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

// put inserts a task as-is, for tests that need a specific created_at.
func (r *fakeTaskRepo) put(t models.Task) {
	cp := t
	r.tasks[t.ID] = &cp
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	r.findAllCalls++
	r.lastFilter = filter

	assignee := ""
	if filter.AssignedTo != nil {
		assignee = *filter.AssignedTo
	}
	if scope := authz.OwnerScope(filter.Requester.Role, filter.Requester.ID); scope != "" {
		assignee = scope
	}

	var out []models.Task
	for _, t := range r.tasks {
		if assignee != "" && t.AssignedTo != assignee {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id string, to models.TaskStatus, ownerID string) (*models.Task, error) {
	r.updateCalls++
	r.lastOwnerID = ownerID
	t, ok := r.tasks[id]
	if !ok || (ownerID != "" && t.AssignedTo != ownerID) {
		return nil, repositories.ErrNotFound
	}
	t.Status = to
	now := r.tick()
	switch to {
	case models.StatusCompleted:
		t.CompletedAt = &now
	case models.StatusApproved:
		t.ApprovedAt = &now
	}
	cp := *t
	return &cp, nil
}

type fakeErrorRepo struct {
	tasks      *fakeTaskRepo
	reports    []models.ErrorReport
	seq        int
	listCalls  int
	bulkCalls  int
	countCalls int
}

func (r *fakeErrorRepo) Store(ctx context.Context, report *models.ErrorReport) error {
	if _, ok := r.tasks.tasks[report.TaskID]; !ok {
		return repositories.ErrNotFound
	}
	r.seq++
	report.ID = fmt.Sprintf("error_%d", r.seq)
	report.ReportedAt = r.tasks.tick()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeErrorRepo) ListByTask(ctx context.Context, taskID string) ([]models.ErrorReport, error) {
	r.listCalls++
	out := []models.ErrorReport{}
	for _, e := range r.reports {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeErrorRepo) ListByTasks(ctx context.Context, taskIDs []string) (map[string][]models.ErrorReport, error) {
	r.bulkCalls++
	out := map[string][]models.ErrorReport{}
	for _, id := range taskIDs {
		for _, e := range r.reports {
			if e.TaskID == id {
				out[id] = append(out[id], e)
			}
		}
	}
	return out, nil
}

func (r *fakeErrorRepo) CountByTasks(ctx context.Context, taskIDs []string) (int, error) {
	r.countCalls++
	n := 0
	for _, id := range taskIDs {
		for _, e := range r.reports {
			if e.TaskID == id {
				n++
			}
		}
	}
	return n, nil
}

type sentNote struct {
	userID string
	text   string
}

type fakeNotifier struct {
	sent []sentNote
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, text string) error {
	n.sent = append(n.sent, sentNote{userID: userID, text: text})
	return n.err
}

var (
	admin   = models.Requester{ID: "admin1", Email: "admin@example.com", Role: authz.RoleAdmin}
	worker1 = models.Requester{ID: "worker1", Email: "worker@example.com", Role: authz.RoleWorker}
	worker2 = models.Requester{ID: "worker2", Email: "worker2@example.com", Role: authz.RoleWorker}
)

func intPtr(v int) *int { return &v }
