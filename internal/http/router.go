package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/courseware-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseware-backend/internal/http/middleware"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	UserHandler       *httpH.UserHandler
	CourseHandler     *httpH.CourseHandler
	LearningHandler   *httpH.LearningHandler
	DiscussionHandler *httpH.DiscussionHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "courseware"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		protected.GET("/events/stream", cfg.RealtimeHandler.SSEStream)
	}

	// User
	if cfg.UserHandler != nil {
		protected.GET("/me", cfg.UserHandler.GetMe)
		protected.PATCH("/users/:id/role", cfg.UserHandler.SetUserRole)
	}

	// Course authoring and catalog
	if cfg.CourseHandler != nil {
		protected.GET("/courses", cfg.CourseHandler.ListPublishedCourses)
		protected.GET("/courses/mine", cfg.CourseHandler.ListMyCourses)
		protected.POST("/courses", cfg.CourseHandler.CreateCourse)
		protected.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		protected.PATCH("/courses/:id", cfg.CourseHandler.UpdateCourse)
		protected.POST("/courses/:id/publish", cfg.CourseHandler.PublishCourse)
		protected.POST("/courses/:id/unpublish", cfg.CourseHandler.UnpublishCourse)
		protected.POST("/courses/:id/chapters", cfg.CourseHandler.CreateChapter)
		protected.PUT("/courses/:id/chapters/order", cfg.CourseHandler.ReorderChapters)
		protected.PATCH("/chapters/:id", cfg.CourseHandler.UpdateChapter)
		protected.DELETE("/chapters/:id", cfg.CourseHandler.DeleteChapter)
		protected.POST("/chapters/:id/publish", cfg.CourseHandler.PublishChapter)
		protected.POST("/chapters/:id/unpublish", cfg.CourseHandler.UnpublishChapter)
		protected.PUT("/chapters/:id/assessment", cfg.CourseHandler.UpsertAssessment)
		protected.DELETE("/chapters/:id/assessment", cfg.CourseHandler.DeleteAssessment)
	}

	// Learner
	if cfg.LearningHandler != nil {
		protected.POST("/courses/:id/enroll", cfg.LearningHandler.Enroll)
		protected.GET("/enrollments", cfg.LearningHandler.ListMyEnrollments)
		protected.POST("/chapters/:id/watched", cfg.LearningHandler.MarkChapterWatched)
		protected.GET("/chapters/:id/assessment", cfg.LearningHandler.GetAssessment)
		protected.GET("/courses/:id/completion", cfg.LearningHandler.GetCourseCompletion)
		protected.GET("/courses/:id/access", cfg.LearningHandler.GetAccess)
		protected.GET("/courses/:id/research", cfg.LearningHandler.GetResearchPage)
		protected.POST("/assessments/:id/submissions", cfg.LearningHandler.SubmitAssessment)
		protected.GET("/assessments/:id/results", cfg.LearningHandler.ListMyResults)
		protected.POST("/courses/:id/certificate", cfg.LearningHandler.IssueCertificate)
		protected.GET("/courses/:id/certificate.png", cfg.LearningHandler.RenderCertificate)
	}

	// Discussions
	if cfg.DiscussionHandler != nil {
		protected.GET("/courses/:id/chapters/:chapterId/discussions", cfg.DiscussionHandler.ListDiscussions)
		protected.POST("/courses/:id/chapters/:chapterId/discussions", cfg.DiscussionHandler.CreateDiscussion)
		protected.GET("/discussions/:id/replies", cfg.DiscussionHandler.ListReplies)
		protected.POST("/discussions/:id/replies", cfg.DiscussionHandler.CreateReply)
		protected.POST("/discussions/:id/like", cfg.DiscussionHandler.LikeDiscussion)
		protected.POST("/replies/:id/like", cfg.DiscussionHandler.LikeReply)
	}

	return r
}
