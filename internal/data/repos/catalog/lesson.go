package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	NextOrderIndex(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int, error)
	ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
	Move(ctx context.Context, tx *gorm.DB, lessonID, sectionID uuid.UUID, orderIndex int) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (lr *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (lr *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// NextOrderIndex is one past the section's highest ordinal, 0 for an empty section.
func (lr *lessonRepo) NextOrderIndex(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var maxIndex sql.NullInt64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("section_id = ?", sectionID).
		Select("MAX(order_index)").
		Row().
		Scan(&maxIndex); err != nil {
		return 0, err
	}
	if !maxIndex.Valid {
		return 0, nil
	}
	return int(maxIndex.Int64) + 1, nil
}

func (lr *lessonRepo) courseLessons(ctx context.Context, transaction *gorm.DB, courseID uuid.UUID) *gorm.DB {
	return transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Joins("JOIN section ON section.id = lesson.section_id").
		Where("section.course_id = ?", courseID)
}

func (lr *lessonRepo) ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var ids []uuid.UUID
	if err := lr.courseLessons(ctx, transaction, courseID).
		Pluck("lesson.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (lr *lessonRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	err := lr.courseLessons(ctx, transaction, courseID).Count(&count).Error
	return count, err
}

// Move sets both the owning section and the ordinal, so a lesson can change sections.
func (lr *lessonRepo) Move(ctx context.Context, tx *gorm.DB, lessonID, sectionID uuid.UUID, orderIndex int) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Updates(map[string]any{
			"section_id":  sectionID,
			"order_index": orderIndex,
		}).Error
}
