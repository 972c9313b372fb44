package study

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID) ([]*types.Review, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, skip, limit int) ([]*types.Review, error)
	SetReply(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, reply string) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(reviews) == 0 {
		return []*types.Review{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (rr *reviewRepo) GetByIDs(ctx context.Context, tx *gorm.DB, reviewIDs []uuid.UUID) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if len(reviewIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", reviewIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) Exists(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByCourse fills UserName from the author's account.
func (rr *reviewRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, skip, limit int) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	type row struct {
		types.Review
		FullName *string
	}
	var rows []row
	if err := transaction.WithContext(ctx).
		Table("review").
		Select(`review.*, "user".full_name AS full_name`).
		Joins(`LEFT JOIN "user" ON "user".id = review.user_id`).
		Where("review.course_id = ?", courseID).
		Order("review.created_at DESC").
		Offset(skip).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Review, 0, len(rows))
	for i := range rows {
		r := rows[i].Review
		r.UserName = "Usuario"
		if rows[i].FullName != nil {
			r.UserName = *rows[i].FullName
		}
		out = append(out, &r)
	}
	return out, nil
}

func (rr *reviewRepo) SetReply(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, reply string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("id = ?", reviewID).
		Update("instructor_reply", reply).Error
}
