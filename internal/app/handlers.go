package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/courseware-backend/internal/http"
	httpH "github.com/yungbote/courseware-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseware-backend/internal/http/middleware"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	User       *httpH.UserHandler
	Course     *httpH.CourseHandler
	Learning   *httpH.LearningHandler
	Discussion *httpH.DiscussionHandler
	Realtime   *httpH.RealtimeHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Tokens, services.User),
	}
}

func wireHandlers(log *logger.Logger, clients Clients, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{"database": clients.Database}
	if clients.Redis != nil {
		checks["redis"] = redisPinger{rdb: clients.Redis}
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(checks),
		User:     httpH.NewUserHandler(log, services.User),
		Course:   httpH.NewCourseHandler(log, services.Course),
		Learning: httpH.NewLearningHandler(httpH.LearningHandlerDeps{
			Log:          log,
			Enrollment:   services.Enrollment,
			Progress:     services.Progress,
			Assessments:  services.Assessment,
			Access:       services.Access,
			Certificates: services.Certificate,
		}),
		Discussion: httpH.NewDiscussionHandler(log, services.Discussion),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Observability.ServiceName,
		CORSOrigins:       cfg.Server.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		UserHandler:       handlers.User,
		CourseHandler:     handlers.Course,
		LearningHandler:   handlers.Learning,
		DiscussionHandler: handlers.Discussion,
		RealtimeHandler:   handlers.Realtime,
	})
}
