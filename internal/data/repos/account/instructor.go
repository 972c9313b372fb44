package account

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type InstructorProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.InstructorProfile) error
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.InstructorProfile, error)
}

type instructorProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstructorProfileRepo(db *gorm.DB, baseLog *logger.Logger) InstructorProfileRepo {
	repoLog := baseLog.With("repo", "InstructorProfileRepo")
	return &instructorProfileRepo{db: db, log: repoLog}
}

// Upsert writes the editable fields; counters and verification are left alone on conflict.
func (r *instructorProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.InstructorProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"headline", "biography", "social_links"}),
		}).
		Create(profile).Error
}

func (r *instructorProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.InstructorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InstructorProfile
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
