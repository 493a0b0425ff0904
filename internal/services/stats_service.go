package services

import (
	"context"
	"math"

	"taskflow/internal/models"
	"taskflow/internal/repositories"
)

// StatsFilter narrows the stats computation. Month is 0-indexed.
type StatsFilter struct {
	AssignedTo string
	Month      *int
	Year       *int
}

type StatsService interface {
	ComputeStats(ctx context.Context, requester models.Requester, filter StatsFilter) (*models.Stats, error)
}

type statsService struct {
	tasks  repositories.TaskRepository
	errors repositories.ErrorRepository
}

func NewStatsService(tasks repositories.TaskRepository, errs repositories.ErrorRepository) StatsService {
	return &statsService{tasks: tasks, errors: errs}
}

func (s *statsService) ComputeStats(ctx context.Context, requester models.Requester, filter StatsFilter) (*models.Stats, error) {
	tasks, err := s.tasks.FindAll(ctx, candidateFilter(requester, filter.AssignedTo))
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if !inPeriod(t, filter.Month, filter.Year) {
			continue
		}
		ids = append(ids, t.ID)
		stats.Total++
		switch t.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusApproved:
			stats.Completed++
			stats.Approved++
		}
	}
	if stats.Total == 0 {
		return stats, nil
	}

	if stats.Errors, err = s.errors.CountByTasks(ctx, ids); err != nil {
		return nil, err
	}
	stats.SuccessRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	return stats, nil
}
