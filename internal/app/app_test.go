package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/config"
	"taskflow/internal/models"
	"taskflow/internal/repositories"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database.DSN = ":memory:"
	cfg.Auth.BcryptCost = bcrypt.MinCost

	db, err := repositories.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repositories.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
		t.Fatalf("Migrate err=%v", err)
	}

	r, err := NewRouter(context.Background(), cfg, db)
	if err != nil {
		t.Fatalf("NewRouter err=%v", err)
	}
	return r
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	w := call(t, h, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s status=%d body=%s", email, w.Code, w.Body.String())
	}
	var res struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &res)
	if res.Token == "" || res.User.Email != email {
		t.Fatalf("login %s result=%+v", email, res)
	}
	return res.Token
}

type session struct {
	h       http.Handler
	admin   string
	worker1 string
	worker2 string
}

func newSession(t *testing.T) session {
	h := newTestServer(t)
	return session{
		h:       h,
		admin:   login(t, h, "admin@example.com", "admin123"),
		worker1: login(t, h, "worker@example.com", "worker123"),
		worker2: login(t, h, "worker2@example.com", "worker123"),
	}
}

func (s session) createT1(t *testing.T) models.Task {
	t.Helper()
	w := call(t, s.h, http.MethodPost, "/api/tasks", s.admin, gin.H{
		"title": "Fix link", "description": "", "link": "http://x", "assignedTo": "worker1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var task models.Task
	decode(t, w, &task)
	return task
}

func (s session) tasks(t *testing.T, token, query string) []models.Task {
	t.Helper()
	w := call(t, s.h, http.MethodGet, "/api/tasks"+query, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list%s status=%d body=%s", query, w.Code, w.Body.String())
	}
	var out []models.Task
	decode(t, w, &out)
	return out
}

func TestTaskLifecycle(t *testing.T) {
	s := newSession(t)

	// создание и видимость
	t1 := s.createT1(t)
	if t1.Status != models.StatusPending || t1.Errors == nil || len(t1.Errors) != 0 {
		t.Fatalf("created task=%+v, want pending with empty errors", t1)
	}
	if got := s.tasks(t, s.worker1, ""); len(got) != 1 || got[0].ID != t1.ID {
		t.Fatalf("worker1 tasks=%+v, want [T1]", got)
	}
	if got := s.tasks(t, s.worker2, "?worker=worker1"); len(got) != 0 {
		t.Fatalf("worker2 tasks=%+v, want none", got)
	}

	// чужая задача неотличима от несуществующей
	statusPath := "/api/tasks/" + t1.ID + "/status"
	if w := call(t, s.h, http.MethodPatch, statusPath, s.worker2, gin.H{"status": "completed"}); w.Code != http.StatusNotFound {
		t.Fatalf("worker2 complete status=%d, want 404", w.Code)
	}
	if w := call(t, s.h, http.MethodPatch, "/api/tasks/task_missing/status", s.worker1, gin.H{"status": "completed"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing task status=%d, want 404", w.Code)
	}
	if w := call(t, s.h, http.MethodPatch, statusPath, s.worker1, gin.H{"status": "approved"}); w.Code != http.StatusForbidden {
		t.Fatalf("worker approve status=%d, want 403", w.Code)
	}
	if w := call(t, s.h, http.MethodPatch, statusPath, s.admin, gin.H{"status": "done"}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status=%d, want 400", w.Code)
	}

	w := call(t, s.h, http.MethodPatch, statusPath, s.worker1, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("worker1 complete status=%d body=%s", w.Code, w.Body.String())
	}
	var done models.Task
	decode(t, w, &done)
	if done.Status != models.StatusCompleted || done.CompletedAt == nil {
		t.Fatalf("completed task=%+v", done)
	}

	w = call(t, s.h, http.MethodPatch, statusPath, s.admin, gin.H{"status": "approved"})
	if w.Code != http.StatusOK {
		t.Fatalf("approve status=%d body=%s", w.Code, w.Body.String())
	}

	// статистика
	w = call(t, s.h, http.MethodGet, "/api/stats?worker=worker1", s.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status=%d body=%s", w.Code, w.Body.String())
	}
	var stats models.Stats
	decode(t, w, &stats)
	want := models.Stats{Total: 1, Completed: 1, Approved: 1, SuccessRate: 100}
	if stats != want {
		t.Fatalf("stats=%+v, want %+v", stats, want)
	}
	if !strings.Contains(w.Body.String(), `"successRate":100`) {
		t.Fatalf("stats body=%s, want successRate key", w.Body.String())
	}
}

func TestSearchAndErrorReports(t *testing.T) {
	s := newSession(t)
	t1 := s.createT1(t)

	if got := s.tasks(t, s.admin, "?search=FIX"); len(got) != 1 || got[0].ID != t1.ID {
		t.Fatalf("search=FIX tasks=%+v, want [T1]", got)
	}
	w := call(t, s.h, http.MethodGet, "/api/tasks?search=zzz", s.admin, nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("search=zzz status=%d body=%s, want []", w.Code, w.Body.String())
	}

	errorsPath := "/api/tasks/" + t1.ID + "/errors"
	if w := call(t, s.h, http.MethodPost, errorsPath, s.worker1, gin.H{"description": "nope"}); w.Code != http.StatusForbidden {
		t.Fatalf("worker report status=%d, want 403", w.Code)
	}
	if w := call(t, s.h, http.MethodPost, errorsPath, s.admin, gin.H{"description": ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty report status=%d, want 400", w.Code)
	}
	if w := call(t, s.h, http.MethodPost, "/api/tasks/task_missing/errors", s.admin, gin.H{"description": "x"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing task report status=%d, want 404", w.Code)
	}
	w = call(t, s.h, http.MethodPost, errorsPath, s.admin, gin.H{"description": "broken link"})
	if w.Code != http.StatusCreated {
		t.Fatalf("report status=%d body=%s", w.Code, w.Body.String())
	}
	var report models.ErrorReport
	decode(t, w, &report)
	if report.TaskID != t1.ID || report.ReportedBy != "admin1" || report.Description != "broken link" {
		t.Fatalf("report=%+v", report)
	}

	w = call(t, s.h, http.MethodGet, errorsPath, s.worker2, nil)
	var reports []models.ErrorReport
	decode(t, w, &reports)
	if w.Code != http.StatusOK || len(reports) != 1 {
		t.Fatalf("errors status=%d reports=%+v, want one", w.Code, reports)
	}

	got := s.tasks(t, s.worker1, "")
	if len(got) != 1 || len(got[0].Errors) != 1 || got[0].Errors[0].Description != "broken link" {
		t.Fatalf("worker1 tasks=%+v, want T1 with one error", got)
	}
}

func TestAccessControl(t *testing.T) {
	s := newSession(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"healthz is public", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"no token", http.MethodGet, "/api/tasks", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/tasks", "garbage", nil, http.StatusUnauthorized},
		{"bad password", http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "x"}, http.StatusUnauthorized},
		{"login without fields", http.MethodPost, "/api/auth/login", "", gin.H{}, http.StatusBadRequest},
		{"worker creates task", http.MethodPost, "/api/tasks", s.worker1, gin.H{"title": "x", "link": "l", "assignedTo": "worker1"}, http.StatusForbidden},
		{"missing link", http.MethodPost, "/api/tasks", s.admin, gin.H{"title": "x", "assignedTo": "worker1"}, http.StatusBadRequest},
		{"unknown assignee", http.MethodPost, "/api/tasks", s.admin, gin.H{"title": "x", "link": "l", "assignedTo": "ghost"}, http.StatusBadRequest},
		{"worker registers", http.MethodPost, "/api/auth/register", s.worker1, gin.H{"email": "a@b.c", "password": "p", "name": "n", "role": "worker"}, http.StatusForbidden},
		{"duplicate email", http.MethodPost, "/api/auth/register", s.admin, gin.H{"email": "worker@example.com", "password": "p", "name": "n", "role": "worker"}, http.StatusBadRequest},
		{"register", http.MethodPost, "/api/auth/register", s.admin, gin.H{"email": "new@example.com", "password": "p", "name": "n", "role": "worker"}, http.StatusCreated},
		{"bad month", http.MethodGet, "/api/tasks?month=abc", s.admin, nil, http.StatusBadRequest},
		{"month out of range", http.MethodGet, "/api/stats?month=12", s.admin, nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := call(t, s.h, tc.method, tc.path, tc.token, tc.body); w.Code != tc.want {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestUsersAndReport(t *testing.T) {
	s := newSession(t)
	s.createT1(t)

	w := call(t, s.h, http.MethodGet, "/api/users/workers", s.worker1, nil)
	var workers []models.User
	decode(t, w, &workers)
	if len(workers) != 2 {
		t.Fatalf("workers=%+v, want 2", workers)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("workers body leaks password: %s", w.Body.String())
	}

	w = call(t, s.h, http.MethodGet, "/api/users", s.worker1, nil)
	var users []models.User
	decode(t, w, &users)
	if len(users) != 3 {
		t.Fatalf("users=%d, want 3", len(users))
	}

	w = call(t, s.h, http.MethodGet, "/api/stats/report?worker=all", s.worker1, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type=%q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("report is not a PDF")
	}
}
