package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/tabletalk/rules-qa/internal/api/handler"
	customMiddleware "github.com/tabletalk/rules-qa/internal/api/middleware"
	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/index"
	"github.com/tabletalk/rules-qa/internal/llm"
	"github.com/tabletalk/rules-qa/internal/llm/gemini"
	"github.com/tabletalk/rules-qa/internal/llm/ollama"
	"github.com/tabletalk/rules-qa/internal/service"
	"github.com/tabletalk/rules-qa/internal/session"
	"github.com/tabletalk/rules-qa/internal/store"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, turns store.StoreHandle) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Generation provider
	provider := gemini.NewProvider(cfg.Gemini)
	if !provider.IsConfigured() {
		log.Warn().Msg("GEMINI_API_KEY not set; generation requests will fail until it is configured")
	}
	composer := llm.NewComposer(provider, cfg.Gemini.Workers)

	// Vector index over the Ollama embedder
	embedder := ollama.NewEmbedder(cfg.Embedding)
	indexService := index.NewService(embedder, cfg.Index)

	// Session context over the selected backend
	sessions := session.NewManager(turns, cfg.Session.MaxMessages)

	// Services
	chatService := service.NewChatService(sessions, composer)
	ragService := service.NewRAGService(indexService, composer, cfg.Index)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService)
	ragHandler := handler.NewRAGHandler(ragService)

	// Chat UI
	staticDir := cfg.Server.StaticDir
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(staticDir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Conversational endpoints
	r.Post("/chat", chatHandler.Chat)
	r.Post("/history", chatHandler.History)
	r.Post("/reset", chatHandler.Reset)

	// RAG endpoints
	r.Route("/rag", func(r chi.Router) {
		r.Post("/ingest", ragHandler.Ingest)
		r.Post("/query", ragHandler.Query)
		r.Get("/status", ragHandler.Status)
	})

	// Probes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(turns, indexService))
	})

	return r
}
