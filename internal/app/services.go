package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/config"
	"github.com/yungbote/apprende-client/internal/platform/logger"
	"github.com/yungbote/apprende-client/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Instructor  services.InstructorService
	Course      services.CourseService
	Enrollment  services.EnrollmentService
	Progress    services.ProgressService
	Review      services.ReviewService
	Category    services.CategoryService
	File        services.FileService
	Certificate services.CertificateService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *config.Config, publicURL string, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	fileService, err := services.NewFileService(log, cfg.DevAPI.UploadDir, publicURL)
	if err != nil {
		return Services{}, fmt.Errorf("init file service: %w", err)
	}
	certificateService, err := services.NewCertificateService(
		db, log,
		repos.User, repos.Course, repos.Lesson, repos.Progress,
		cfg.DevAPI.FontPath,
	)
	if err != nil {
		return Services{}, fmt.Errorf("init certificate service: %w", err)
	}

	return Services{
		Auth:       services.NewAuthService(db, log, repos.User, cfg.DevAPI.JWTSecret, cfg.DevAPI.TokenTTL.Duration),
		User:       services.NewUserService(db, log, repos.User),
		Instructor: services.NewInstructorService(db, log, repos.User, repos.InstructorProfile),
		Course: services.NewCourseService(
			db, log,
			repos.Course, repos.Section, repos.Lesson, repos.Enrollment,
			publicURL,
		),
		Enrollment:  services.NewEnrollmentService(db, log, repos.Course, repos.Enrollment),
		Progress:    services.NewProgressService(db, log, repos.Lesson, repos.Progress),
		Review:      services.NewReviewService(db, log, repos.User, repos.Course, repos.Enrollment, repos.Review),
		Category:    services.NewCategoryService(db, log, repos.Category),
		File:        fileService,
		Certificate: certificateService,
	}, nil
}
