package services

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type ProgressService interface {
	Toggle(dbc dbctx.Context, req study.ToggleRequest) (*study.ToggleResult, error)
	CompletedLessonIDs(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	lessonRepo   repos.LessonRepo
	progressRepo repos.ProgressRepo
}

func NewProgressService(db *gorm.DB, log *logger.Logger, lessonRepo repos.LessonRepo, progressRepo repos.ProgressRepo) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{db: db, log: serviceLog, lessonRepo: lessonRepo, progressRepo: progressRepo}
}

// Toggle deletes the completion row when present and creates it otherwise.
func (ps *progressService) Toggle(dbc dbctx.Context, req study.ToggleRequest) (*study.ToggleResult, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if req.LessonID == uuid.Nil || req.CourseID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", errors.New("lesson_id y course_id son obligatorios"))
	}
	out := &study.ToggleResult{LessonID: req.LessonID}
	err = inTx(dbc, ps.db, func(tx *gorm.DB) error {
		ids, err := ps.lessonRepo.ListIDsByCourse(dbc.Ctx, tx, req.CourseID)
		if err != nil {
			return fmt.Errorf("list course lessons: %w", err)
		}
		if !slices.Contains(ids, req.LessonID) {
			return apierr.New(http.StatusNotFound, "lesson_not_found", errors.New("Lección no encontrada"))
		}
		existing, err := ps.progressRepo.Get(dbc.Ctx, tx, rd.UserID, req.LessonID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if existing != nil {
			return ps.progressRepo.Delete(dbc.Ctx, tx, rd.UserID, req.LessonID)
		}
		now := time.Now().UTC()
		row := &study.LessonProgress{
			UserID:      rd.UserID,
			LessonID:    req.LessonID,
			CourseID:    req.CourseID,
			CompletedAt: now,
		}
		if err := ps.progressRepo.Create(dbc.Ctx, tx, []*study.LessonProgress{row}); err != nil {
			return fmt.Errorf("create progress: %w", err)
		}
		out.Completed = true
		out.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.log.Debug("progress toggled", "user_id", rd.UserID, "lesson_id", req.LessonID, "completed", out.Completed)
	return out, nil
}

func (ps *progressService) CompletedLessonIDs(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	ids, err := ps.progressRepo.ListLessonIDs(dbc.Ctx, transactionFor(dbc, ps.db), rd.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
