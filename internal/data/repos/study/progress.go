package study

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type ProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	Create(ctx context.Context, tx *gorm.DB, rows []*types.LessonProgress) error
	Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error
	ListLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]uuid.UUID, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// Get returns (nil, nil) when the lesson is not completed.
func (pr *progressRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var row types.LessonProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (pr *progressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.LessonProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (pr *progressRepo) Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&types.LessonProgress{}).Error
}

func (pr *progressRepo) ListLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at ASC").
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (pr *progressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
