package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/apprende-client/internal/http/handlers"
	httpMW "github.com/yungbote/apprende-client/internal/http/middleware"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	CourseHandler   *httpH.CourseHandler
	StudyHandler    *httpH.StudyHandler
	CategoryHandler *httpH.CategoryHandler
	FileHandler     *httpH.FileHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	r.Use(gin.Recovery())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/metrics", cfg.HealthHandler.Metrics)
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		auth := r.Group("/auth")
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// Users and instructors
	if cfg.UserHandler != nil {
		users := r.Group("/users", requireAuth)
		users.GET("/me", cfg.UserHandler.GetMe)
		users.PUT("/me/become-instructor", cfg.UserHandler.BecomeInstructor)

		instructors := r.Group("/instructors")
		instructors.GET("/:userId", cfg.UserHandler.GetPublicInstructor)
		instructors.POST("/become-instructor", requireAuth, cfg.UserHandler.BecomeInstructor)
		instructors.GET("/me", requireAuth, cfg.UserHandler.GetInstructorProfile)
		instructors.PUT("/me", requireAuth, cfg.UserHandler.UpdateInstructorProfile)
	}

	// Courses
	if cfg.CourseHandler != nil {
		courses := r.Group("/courses")
		courses.GET("/", cfg.CourseHandler.List)
		courses.GET("/:id", cfg.CourseHandler.Detail)
		courses.GET("/my-courses", requireAuth, cfg.CourseHandler.MyCourses)
		courses.POST("/", requireAuth, cfg.CourseHandler.Create)
		courses.POST("/:id/sections", requireAuth, cfg.CourseHandler.CreateSection)
		courses.POST("/:id/lessons", requireAuth, cfg.CourseHandler.CreateLesson)
		courses.PUT("/:id/reorder", requireAuth, cfg.CourseHandler.Reorder)
		courses.GET("/:id/lessons/:lessonId/play", requireAuth, cfg.CourseHandler.Play)
	}

	// Enrollments, progress, reviews
	if cfg.StudyHandler != nil {
		enrollments := r.Group("/enrollments", requireAuth)
		enrollments.POST("/", cfg.StudyHandler.Enroll)
		enrollments.GET("/me", cfg.StudyHandler.MyEnrollments)

		progress := r.Group("/progress", requireAuth)
		progress.POST("/toggle", cfg.StudyHandler.ToggleProgress)
		progress.GET("/:courseId", cfg.StudyHandler.CourseProgress)

		reviews := r.Group("/reviews")
		reviews.GET("/course/:courseId", cfg.StudyHandler.CourseReviews)
		reviews.POST("/", requireAuth, cfg.StudyHandler.CreateReview)
		reviews.PUT("/:reviewId/reply", requireAuth, cfg.StudyHandler.ReplyToReview)
	}

	// Categories
	if cfg.CategoryHandler != nil {
		categories := r.Group("/categories")
		categories.GET("/", cfg.CategoryHandler.List)
		categories.GET("/all", cfg.CategoryHandler.All)
		categories.GET("/:id", cfg.CategoryHandler.Get)
		categories.POST("/", requireAuth, cfg.CategoryHandler.Create)
	}

	// Files and certificates
	if cfg.FileHandler != nil {
		r.POST("/files/upload", requireAuth, cfg.FileHandler.Upload)
		r.GET("/files/stream/:filename", cfg.FileHandler.Stream)
		r.HEAD("/files/stream/:filename", cfg.FileHandler.Stream)
		r.GET("/media/:filename", cfg.FileHandler.Stream)
		r.GET("/certificates/:id/download", requireAuth, cfg.FileHandler.Certificate)
	}

	return r
}
