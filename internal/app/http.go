package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/config"
	"github.com/yungbote/apprende-client/internal/http"
	httpH "github.com/yungbote/apprende-client/internal/http/handlers"
	httpMW "github.com/yungbote/apprende-client/internal/http/middleware"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Course   *httpH.CourseHandler
	Study    *httpH.StudyHandler
	Category *httpH.CategoryHandler
	File     *httpH.FileHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(metrics),
		Auth:     httpH.NewAuthHandler(services.Auth),
		User:     httpH.NewUserHandler(services.User, services.Instructor),
		Course:   httpH.NewCourseHandler(log, services.Course),
		Study:    httpH.NewStudyHandler(services.Enrollment, services.Progress, services.Review),
		Category: httpH.NewCategoryHandler(services.Category),
		File:     httpH.NewFileHandler(log, services.File, services.Certificate),
	}
}

func wireRouter(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	serviceName := ""
	if cfg.Telemetry.Enabled {
		serviceName = cfg.Telemetry.ServiceName + "-devapi"
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		AuthMiddleware:  middleware.Auth,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		CourseHandler:   handlers.Course,
		StudyHandler:    handlers.Study,
		CategoryHandler: handlers.Category,
		FileHandler:     handlers.File,
		HealthHandler:   handlers.Health,
	})
}
