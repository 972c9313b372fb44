package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type Repos struct {
	User              repos.UserRepo
	InstructorProfile repos.InstructorProfileRepo
	Course            repos.CourseRepo
	Section           repos.SectionRepo
	Lesson            repos.LessonRepo
	Category          repos.CategoryRepo
	Enrollment        repos.EnrollmentRepo
	Progress          repos.ProgressRepo
	Review            repos.ReviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		InstructorProfile: repos.NewInstructorProfileRepo(db, log),
		Course:            repos.NewCourseRepo(db, log),
		Section:           repos.NewSectionRepo(db, log),
		Lesson:            repos.NewLessonRepo(db, log),
		Category:          repos.NewCategoryRepo(db, log),
		Enrollment:        repos.NewEnrollmentRepo(db, log),
		Progress:          repos.NewProgressRepo(db, log),
		Review:            repos.NewReviewRepo(db, log),
	}
}
