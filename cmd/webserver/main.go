package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docquiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
)

type Server struct {
	db        *docquiz.DB
	generator *docquiz.QuizGenerator
	practice  *docquiz.PracticeService
	store     *sessions.CookieStore
	fontPath  string
}

func main() {
	configPath := flag.String("config", "docquiz.yaml", "Path to the YAML config file")
	verbose := flag.Bool("verbose", false, "Enable verbose debugging output")
	flag.Parse()

	cfg, err := docquiz.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	docquiz.SetVerbose(*verbose || cfg.Verbose)
	defer docquiz.SyncLogger()
	logger := docquiz.Logger()

	if err := cfg.RequireAPIKey(); err != nil {
		logger.Fatalw("Missing API key", "provider", cfg.Provider, "error", err)
	}

	// Initialize database
	db, err := docquiz.OpenDB(cfg.DBPath)
	if err != nil {
		logger.Fatalw("Failed to open database", "path", cfg.DBPath, "error", err)
	}
	defer db.CloseDB()

	// Create tables
	if err := db.CreateTables(); err != nil {
		logger.Fatalw("Failed to create tables", "error", err)
	}

	textGen, err := docquiz.NewTextGenerator(context.Background(), cfg)
	if err != nil {
		logger.Fatalw("Failed to create text generator", "provider", cfg.Provider, "error", err)
	}
	if c, ok := textGen.(io.Closer); ok {
		defer c.Close()
	}
	generator := docquiz.NewQuizGenerator(textGen, db)
	generator.SetLogDir(cfg.LogDir)

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warnw("DOCQUIZ_SESSION_SECRET is not set, learner cookies will not survive a restart")
		secret = randomSecret()
	}

	server := &Server{
		db:        db,
		generator: generator,
		practice:  docquiz.NewPracticeService(db),
		store:     newCookieStore(secret),
		fontPath:  cfg.FontPath,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("Starting server", "port", cfg.Port, "provider", cfg.Provider)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorw("Shutdown failed", "error", err)
	}
}

func (s *Server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	r.Route("/api", func(r chi.Router) {
		r.Route("/question-sets", func(r chi.Router) {
			r.Post("/", s.handleCreateQuestionSet)
			r.Get("/", s.handleListQuestionSets)
			r.Get("/{id}", s.handleGetQuestionSet)
			r.Delete("/{id}", s.handleDeleteQuestionSet)
			r.Get("/{id}/pdf", s.handleExportQuestionSet)
			r.Post("/{id}/sessions", s.handleStartSession)
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Get("/{id}", s.handleGetSession)
			r.Post("/{id}/answers", s.handleSubmitAnswer)
			r.Post("/{id}/complete", s.handleCompleteSession)
		})
	})

	return r
}
