package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"romanchat-backend/internal/config"
	"romanchat-backend/internal/handlers"
	"romanchat-backend/internal/web"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	ChatHandler       *handlers.ChatHandlers
	TranscriptHandler *handlers.TranscriptHandlers
	WebHandler        *web.Handler
	Config            *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)                 // Inject request ID into context
	r.Use(middleware.RealIP)                    // Use X-Forwarded-For or X-Real-IP
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics, return 500
	r.Use(middleware.Timeout(60 * time.Second)) // Set a request timeout

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// --- Completion Relay ---
	if deps.ChatHandler != nil {
		r.Post("/chat", deps.ChatHandler.HandleChat)
	} else {
		log.Println("WARN: ChatHandler dependency is nil, skipping /chat route.")
	}

	// --- Transcript Persistence ---
	if deps.TranscriptHandler != nil {
		r.Post("/save-message", deps.TranscriptHandler.HandleSaveMessage)
		r.Post("/clear-messages", deps.TranscriptHandler.HandleClearMessages)
		r.Get("/history", deps.TranscriptHandler.HandleGetHistory)
	} else {
		log.Println("WARN: TranscriptHandler dependency is nil, skipping transcript routes.")
	}

	// --- Browser UI ---
	if deps.WebHandler != nil {
		r.Get("/", deps.WebHandler.HandleHome)
		r.Get("/chat", deps.WebHandler.HandleChatPage)
		r.Handle("/static/*", deps.WebHandler.Static())
	} else {
		log.Println("WARN: WebHandler dependency is nil, skipping UI routes.")
	}

	return r
}
