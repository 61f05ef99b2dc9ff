package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hirescreen/hirescreen-backend/internal/db"
	"github.com/hirescreen/hirescreen-backend/internal/handlers"
	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/embeddings"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/retrieval"
	"github.com/hirescreen/hirescreen-backend/internal/screening"
	"github.com/hirescreen/hirescreen-backend/internal/server"
	"github.com/hirescreen/hirescreen-backend/internal/services"
	"github.com/hirescreen/hirescreen-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	jobRepo := repos.NewJobRepo(thePG, log)
	candidateRepo := repos.NewCandidateRepo(thePG, log)
	documentRepo := repos.NewDocumentRepo(thePG, log)
	chunkRepo := repos.NewChunkRepo(thePG, log)
	embeddingRepo := repos.NewEmbeddingRepo(thePG, log)
	screeningRepo := repos.NewScreeningRepo(thePG, log)
	processingRunRepo := repos.NewProcessingRunRepo(thePG, log)

	// Embedding gateway
	embedder, err := embeddings.NewClient(log)
	if err != nil {
		log.Error("Could not init embeddings client", "error", err)
		os.Exit(1)
	}

	// Screening ruleset
	rules := screening.DefaultRuleset()
	if path := utils.GetEnv("SCREENING_RULESET_PATH", "", log); path != "" {
		rules, err = screening.LoadRuleset(path)
		if err != nil {
			log.Error("Could not load screening ruleset", "error", err)
			os.Exit(1)
		}
	}

	// Core components
	log.Info("Setting up core components from main...")
	ingestor := ingestion.NewIngestor(documentRepo, chunkRepo, embeddingRepo, embedder, log)
	retriever := retrieval.NewRetriever(thePG, embedder.Model(), log)
	engine := screening.NewEngine(jobRepo, candidateRepo, chunkRepo, screeningRepo, embedder, retriever, rules, log)

	// Services
	log.Info("Setting up Services from main...")
	candidateService := services.NewCandidateService(candidateRepo, ingestor, log)
	jobService := services.NewJobService(jobRepo, ingestor, log)
	screeningService := services.NewScreeningService(engine, screeningRepo, log)
	searchService := services.NewSearchService(embedder, retriever, log)
	processingService := services.NewProcessingService(processingRunRepo, candidateService, ingestor, engine, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	candidateHandler := handlers.NewCandidateHandler(candidateService, screeningService)
	jobHandler := handlers.NewJobHandler(jobService, processingService)
	screeningHandler := handlers.NewScreeningHandler(screeningService)
	searchHandler := handlers.NewSearchHandler(searchService)
	processingHandler := handlers.NewProcessingHandler(processingService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		CandidateHandler:  candidateHandler,
		JobHandler:        jobHandler,
		ScreeningHandler:  screeningHandler,
		SearchHandler:     searchHandler,
		ProcessingHandler: processingHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
