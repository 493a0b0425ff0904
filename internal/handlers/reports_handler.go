package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/authz"
	"taskflow/internal/pdf"
	"taskflow/internal/services"
)

type ReportHandler struct {
	stats services.StatsService
	tasks services.TaskService
	pdf   pdf.Generator
}

func NewReportHandler(stats services.StatsService, tasks services.TaskService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{stats: stats, tasks: tasks, pdf: gen}
}

// @Summary      Статистика по задачам
// @Description  Исполнитель получает статистику только по своим задачам
// @Tags         Stats
// @Produce      json
// @Security     BearerAuth
// @Param        worker  query     string  false  "ID исполнителя или all"
// @Param        month   query     int     false  "Месяц 0-11"
// @Param        year    query     int     false  "Год"
// @Success      200     {object}  models.Stats
// @Failure      400     {object}  map[string]string
// @Router       /stats [get]
func (h *ReportHandler) GetStats(c *gin.Context) {
	month, year, err := periodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.stats.ComputeStats(c.Request.Context(), currentRequester(c), services.StatsFilter{
		AssignedTo: assigneeQuery(c),
		Month:      month,
		Year:       year,
	})
	if err != nil {
		writeError(c, "[stats]", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Отчёт по статистике (PDF)
// @Tags         Stats
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        worker  query     string  false  "ID исполнителя или all"
// @Param        month   query     int     false  "Месяц 0-11"
// @Param        year    query     int     false  "Год"
// @Success      200     {file}    file
// @Failure      400     {object}  map[string]string
// @Router       /stats/report [get]
func (h *ReportHandler) StatsPDF(c *gin.Context) {
	month, year, err := periodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	requester := currentRequester(c)
	assignee := assigneeQuery(c)

	stats, err := h.stats.ComputeStats(ctx, requester, services.StatsFilter{AssignedTo: assignee, Month: month, Year: year})
	if err != nil {
		writeError(c, "[stats][pdf]", err)
		return
	}
	tasks, err := h.tasks.ListTasks(ctx, requester, services.TaskListFilter{AssignedTo: assignee, Month: month, Year: year})
	if err != nil {
		writeError(c, "[stats][pdf]", err)
		return
	}

	// воркер всегда видит только себя, что бы ни пришло в ?worker=
	if !authz.CanViewAllTasks(requester.Role) {
		assignee = requester.ID
	}

	var buf bytes.Buffer
	err = h.pdf.StatsReport(&buf, pdf.StatsReportData{
		Worker:      assignee,
		Period:      periodLabel(month, year),
		Stats:       *stats,
		Tasks:       tasks,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[stats][pdf][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stats.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func periodLabel(month, year *int) string {
	switch {
	case month != nil && year != nil:
		return fmt.Sprintf("%02d.%d", *month+1, *year)
	case month != nil:
		return time.Month(*month + 1).String()
	case year != nil:
		return fmt.Sprintf("%d", *year)
	}
	return ""
}
