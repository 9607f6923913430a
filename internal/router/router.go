package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-sync-api/internal/client"
	"project-sync-api/internal/handler"
	"project-sync-api/internal/metrics"
	"project-sync-api/internal/middleware"
	"project-sync-api/internal/realtime"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	S3Client       client.S3ClientInterface
	Hub            *realtime.Hub
	Relay          *realtime.Relay
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(cfg.DB)
	statusRepo := repository.NewStatusRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)

	// Initialize services; board mutations publish through the relay
	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.Relay != nil {
		publisher = cfg.Relay
	}

	projectService := service.NewProjectService(projectRepo, statusRepo, taskRepo, cfg.Metrics, cfg.Logger)
	statusService := service.NewStatusService(statusRepo, projectRepo, publisher, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, statusRepo, projectRepo, publisher, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, taskRepo, projectRepo, publisher, cfg.Logger)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService)
	statusHandler := handler.NewStatusHandler(statusService)
	taskHandler := handler.NewTaskHandler(taskService)
	commentHandler := handler.NewCommentHandler(commentService)
	healthHandler := handler.NewHealthHandler(cfg.DB)

	// Health check routes
	r.GET("/health", healthHandler.Health)

	// API routes group
	api := r.Group(cfg.BasePath)
	if cfg.BasePath != "" {
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
		api.GET("/health", healthHandler.Health)
	}

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// ============================================================
	// Project routes (authenticated)
	// ============================================================
	projects := api.Group("/projects")
	projects.Use(authMiddleware)
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.PUT("/:projectId", projectHandler.UpdateProject)
		projects.DELETE("/:projectId", projectHandler.DeleteProject)
		projects.POST("/:projectId/members", projectHandler.InviteMember)

		// ============================================================
		// Status column routes
		// ============================================================
		statuses := projects.Group("/:projectId/statuses")
		{
			statuses.POST("", statusHandler.CreateStatus)
			statuses.GET("", statusHandler.ListStatuses)
			// reorder must register before the :statusId routes
			statuses.PUT("/reorder", statusHandler.ReorderStatuses)
			statuses.PUT("/:statusId", statusHandler.UpdateStatus)
			statuses.DELETE("/:statusId", statusHandler.DeleteStatus)
		}

		// ============================================================
		// Task routes
		// ============================================================
		tasks := projects.Group("/:projectId/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:taskId", taskHandler.GetTask)
			tasks.PUT("/:taskId", taskHandler.UpdateTask)
			tasks.PUT("/:taskId/move", taskHandler.MoveTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)

			// ============================================================
			// Comment routes
			// ============================================================
			tasks.POST("/:taskId/comments", commentHandler.CreateComment)
			tasks.GET("/:taskId/comments", commentHandler.ListComments)
		}
		projects.PUT("/:projectId/comments/:commentId", commentHandler.UpdateComment)
		projects.DELETE("/:projectId/comments/:commentId", commentHandler.DeleteComment)

		// ============================================================
		// Upload routes
		// ============================================================
		if cfg.S3Client != nil {
			uploadHandler := handler.NewUploadHandler(cfg.S3Client, projectRepo)
			projects.POST("/:projectId/uploads/presigned-url", uploadHandler.GeneratePresignedURL)
		}
	}

	// ============================================================
	// Realtime routes
	// ============================================================
	if cfg.Relay != nil {
		triggerHandler := handler.NewTriggerHandler(cfg.Relay, projectRepo)
		rt := api.Group("/realtime")
		rt.Use(authMiddleware)
		{
			rt.POST("/trigger", triggerHandler.Trigger)
		}
	}

	// WebSocket endpoint authenticates via token query parameter, so it sits
	// outside the bearer-header middleware
	if cfg.Hub != nil {
		wsHandler := handler.NewWSHandler(cfg.Hub, projectRepo, cfg.JWTSecret, cfg.Logger)
		r.GET("/ws/projects/:projectId", wsHandler.ServeWS)
	}

	return r
}
