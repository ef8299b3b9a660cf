package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/gradeflow/gradeflow/internal/api/http"
	auth "github.com/gradeflow/gradeflow/internal/auth/middleware"
	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/consensus"
	"github.com/gradeflow/gradeflow/internal/grading"
	"github.com/gradeflow/gradeflow/internal/oracle/gemini"
	"github.com/gradeflow/gradeflow/internal/rbac"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	if err := consensus.ValidateCriteria(); err != nil {
		log.Fatalf("criteria tables: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Printf("warning: GEMINI_API_KEY is empty, oracle calls will fail")
	}

	// --- Grading engines ---
	oracle := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	engine := consensus.New(oracle,
		consensus.WithPasses(cfg.GradingPasses),
		consensus.WithOracleTimeout(cfg.OracleTimeout),
		consensus.WithMaxParallel(cfg.MaxParallelCalls),
	)
	mathEngine := consensus.NewMath(oracle, oracle,
		consensus.WithPasses(cfg.GradingPasses),
		consensus.WithOracleTimeout(cfg.OracleTimeout),
		consensus.WithMaxParallel(cfg.MaxParallelCalls),
	)
	batch := &consensus.Batch{
		Engine:      engine,
		Math:        mathEngine,
		EqualSplit:  cfg.ChecklistEqualSplit,
		MaxParallel: cfg.MaxParallelQuestions,
	}
	objective := grading.NewDefaultGrader()

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	creds := []auth.Credential{
		{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	// Batches fan out N oracle passes per question; give them room.
	r.Use(middleware.Timeout(5 * time.Minute))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, creds))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("grade:question")).
			Post("/grade/question", api.GradeQuestionHandler(batch))
		pr.With(rbac.Require("grade:batch")).
			Post("/grade/batch", api.GradeBatchHandler(batch))
		pr.With(rbac.Require("grade:objective")).
			Post("/grade/objective", api.GradeObjectiveHandler(objective))
		pr.With(rbac.Require("results:view")).
			Get("/criteria/{category}", api.CriteriaHandler())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, model=%s, passes=%d)",
		cfg.HTTPAddr, cfg.Mode, cfg.GeminiModel, cfg.GradingPasses)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
