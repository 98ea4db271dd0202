package services

import (
	"context"

	"github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/repository"
)

// SubmissionService exposes the grade submission journal
type SubmissionService interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	Stats(ctx context.Context, sessionID string) (map[models.SubmissionStatus]int, error)
}

type submissionService struct {
	repo repository.SubmissionRepository
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(repo repository.SubmissionRepository) SubmissionService {
	return &submissionService{repo: repo}
}

func (s *submissionService) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	log := logger.FromContext(ctx)

	switch filter.Status {
	case "", models.SubmissionAcknowledged, models.SubmissionFailed, models.SubmissionDropped:
	default:
		return nil, errors.NewValidationError("status", "must be one of acknowledged, failed, dropped")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list submissions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

func (s *submissionService) Stats(ctx context.Context, sessionID string) (map[models.SubmissionStatus]int, error) {
	counts, err := s.repo.CountByStatus(ctx, sessionID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count submissions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return counts, nil
}
