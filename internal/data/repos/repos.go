package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos/account"
	"github.com/yungbote/apprende-client/internal/data/repos/catalog"
	"github.com/yungbote/apprende-client/internal/data/repos/study"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type UserRepo = account.UserRepo
type InstructorProfileRepo = account.InstructorProfileRepo

type CourseRepo = catalog.CourseRepo
type SectionRepo = catalog.SectionRepo
type LessonRepo = catalog.LessonRepo
type CategoryRepo = catalog.CategoryRepo

type EnrollmentRepo = study.EnrollmentRepo
type ProgressRepo = study.ProgressRepo
type ReviewRepo = study.ReviewRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return account.NewUserRepo(db, log) }
func NewInstructorProfileRepo(db *gorm.DB, log *logger.Logger) InstructorProfileRepo {
	return account.NewInstructorProfileRepo(db, log)
}

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo     { return catalog.NewCourseRepo(db, log) }
func NewSectionRepo(db *gorm.DB, log *logger.Logger) SectionRepo   { return catalog.NewSectionRepo(db, log) }
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo     { return catalog.NewLessonRepo(db, log) }
func NewCategoryRepo(db *gorm.DB, log *logger.Logger) CategoryRepo { return catalog.NewCategoryRepo(db, log) }

func NewEnrollmentRepo(db *gorm.DB, log *logger.Logger) EnrollmentRepo {
	return study.NewEnrollmentRepo(db, log)
}
func NewProgressRepo(db *gorm.DB, log *logger.Logger) ProgressRepo { return study.NewProgressRepo(db, log) }
func NewReviewRepo(db *gorm.DB, log *logger.Logger) ReviewRepo     { return study.NewReviewRepo(db, log) }
