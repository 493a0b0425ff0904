package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow/internal/middleware"
	"taskflow/internal/models"
	"taskflow/internal/services"
)

func currentRequester(c *gin.Context) models.Requester {
	return models.Requester{
		ID:    c.GetString(middleware.CtxUserID),
		Email: c.GetString(middleware.CtxEmail),
		Role:  c.GetString(middleware.CtxRole),
	}
}

// writeError maps service error kinds onto HTTP statuses. Store failures are
// logged and answered with an opaque message.
func writeError(c *gin.Context, tag string, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrForbidden):
		log.Printf("%s[deny] %v", tag, err)
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFoundOrUnauthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or unauthorized"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s[err] %v", tag, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

// assigneeQuery reads ?worker= (or its alias ?assignee=); "all" means no filter.
func assigneeQuery(c *gin.Context) string {
	v := strings.TrimSpace(c.Query("worker"))
	if v == "" {
		v = strings.TrimSpace(c.Query("assignee"))
	}
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// periodQuery parses ?month= (0-11) and ?year=. Absent values stay nil.
func periodQuery(c *gin.Context) (month, year *int, err error) {
	if v := strings.TrimSpace(c.Query("month")); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil || m < 0 || m > 11 {
			return nil, nil, errors.New("month must be an integer between 0 and 11")
		}
		month = &m
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil {
			return nil, nil, errors.New("year must be an integer")
		}
		year = &y
	}
	return month, year, nil
}
