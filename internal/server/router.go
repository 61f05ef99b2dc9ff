package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hirescreen/hirescreen-backend/internal/handlers"
)

type RouterConfig struct {
	CandidateHandler  *handlers.CandidateHandler
	JobHandler        *handlers.JobHandler
	ScreeningHandler  *handlers.ScreeningHandler
	SearchHandler     *handlers.SearchHandler
	ProcessingHandler *handlers.ProcessingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Candidates
		api.POST("/candidates", cfg.CandidateHandler.Create)
		api.GET("/candidates/:id", cfg.CandidateHandler.Get)
		api.POST("/candidates/:id/resumes", cfg.CandidateHandler.UploadResume)
		api.GET("/candidates/:id/screenings/:jobID", cfg.CandidateHandler.GetScreening)

		// Jobs
		api.POST("/jobs", cfg.JobHandler.Create)
		api.GET("/jobs/:id", cfg.JobHandler.Get)
		api.POST("/jobs/:id/jd", cfg.JobHandler.UploadJD)
		api.POST("/jobs/:id/resumes", cfg.JobHandler.UploadResume)

		// Screenings
		api.POST("/screenings/run", cfg.ScreeningHandler.Run)

		// Retrieval
		api.POST("/search", cfg.SearchHandler.Search)

		// Background processing
		api.GET("/processing/:id", cfg.ProcessingHandler.Get)
	}

	return router
}
