package db

import (
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// identity
		&account.User{},
		&account.InstructorProfile{},

		// catalog
		&catalog.Category{},
		&catalog.Course{},
		&catalog.Section{},
		&catalog.Lesson{},

		// learning
		&study.Enrollment{},
		&study.LessonProgress{},
		&study.Review{},
	)
}
