package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/models"
	"taskflow/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	AssignedTo  string `json:"assignedTo"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type addErrorRequest struct {
	Description string `json:"description"`
}

// @Summary      Список задач
// @Description  Исполнитель видит только свои задачи независимо от фильтра worker
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        worker  query     string  false  "ID исполнителя или all"
// @Param        month   query     int     false  "Месяц 0-11"
// @Param        year    query     int     false  "Год"
// @Param        search  query     string  false  "Поиск по названию и описанию"
// @Success      200     {array}   models.Task
// @Failure      400     {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	month, year, err := periodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), currentRequester(c), services.TaskListFilter{
		AssignedTo: assigneeQuery(c),
		Month:      month,
		Year:       year,
		Search:     c.Query("search"),
	})
	if err != nil {
		writeError(c, "[task][list]", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// POST /tasks
// @Summary      Создать задачу
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      createTaskRequest  true  "Задача"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	requester := currentRequester(c)
	log.Printf("[task][create] call by userID=%s role=%s", requester.ID, requester.Role)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, link, and assignedTo are required"})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), requester, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		writeError(c, "[task][create]", err)
		return
	}
	log.Printf("[task][create][ok] id=%s assignee=%s", task.ID, task.AssignedTo)
	c.JSON(http.StatusCreated, task)
}

// PATCH /tasks/:id/status
// @Summary      Сменить статус задачи
// @Description  worker: только completed и только своя задача; admin: любой статус
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string               true  "ID задачи"
// @Param        status  body      updateStatusRequest  true  "Новый статус"
// @Success      200     {object}  models.Task
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	requester := currentRequester(c)
	id := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	task, err := h.service.UpdateTaskStatus(c.Request.Context(), requester, id, models.TaskStatus(req.Status))
	if err != nil {
		writeError(c, "[task][status]", err)
		return
	}
	log.Printf("[task][status][ok] id=%s status=%s by=%s", task.ID, task.Status, requester.ID)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/errors
// @Summary      Зафиксировать ошибку по задаче
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string           true  "ID задачи"
// @Param        error  body      addErrorRequest  true  "Описание ошибки"
// @Success      201    {object}  models.ErrorReport
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /tasks/{id}/errors [post]
func (h *TaskHandler) AddError(c *gin.Context) {
	var req addErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error description required"})
		return
	}

	report, err := h.service.AddError(c.Request.Context(), currentRequester(c), c.Param("id"), req.Description)
	if err != nil {
		writeError(c, "[task][error]", err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GET /tasks/:id/errors
// @Summary      Ошибки по задаче
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID задачи"
// @Success      200  {array}   models.ErrorReport
// @Router       /tasks/{id}/errors [get]
func (h *TaskHandler) ListErrors(c *gin.Context) {
	reports, err := h.service.ListErrorsForTask(c.Request.Context(), currentRequester(c), c.Param("id"))
	if err != nil {
		writeError(c, "[task][errors]", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
