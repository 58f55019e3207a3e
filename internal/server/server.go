package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"github.com/fteye/pagemill/internal/config"
	"github.com/fteye/pagemill/internal/database"
	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/email"
	"github.com/fteye/pagemill/internal/handlers"
	"github.com/fteye/pagemill/internal/logging"
	"github.com/fteye/pagemill/internal/middleware"
	"github.com/fteye/pagemill/internal/processor"
	"github.com/fteye/pagemill/internal/pubsub"
	"github.com/fteye/pagemill/internal/rendering"
	"github.com/fteye/pagemill/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	DB      *surrealdb.DB
	Cfg     config.Provider
	Emailer domain.EmailSender

	userStore  domain.UserRepository
	emailStore domain.EmailAddressRepository
	docStore   domain.DocumentRepository
	files      storage.Store
	bus        *pubsub.WatermillBridge
	processor  *processor.Processor

	homeHandler     *handlers.HomeHandler
	authHandler     *handlers.AuthHandler
	accountHandler  *handlers.AccountHandler
	documentHandler *handlers.DocumentHandler
}

// New creates a new Server instance and wires every dependency together.
func New() *Server {
	logging.New() // Initialize the structured logger

	cfg := config.New()
	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}

	// Stores.
	userStore := database.NewSurrealUserStore(db, cfg.GetDBNs(), cfg.GetDBDb())
	emailStore := database.NewSurrealEmailStore(db)
	docStore := database.NewSurrealDocumentStore(db)
	files := storage.NewOsStore(cfg.GetUploadDir())

	// The in-process message bus carries document processing requests from
	// the upload handler to the background processor.
	bus := pubsub.NewWatermillBridge()
	proc := processor.New(docStore, files, bus)

	// Handlers.
	homeHandler := handlers.NewHomeHandler()
	authHandler := handlers.NewAuthHandler(userStore, emailStore, emailer, cfg.GetAppBaseURL())
	accountHandler := handlers.NewAccountHandler(userStore, emailStore, emailer, cfg.GetAppBaseURL())
	documentHandler := handlers.NewDocumentHandler(docStore, files, bus, cfg.GetMaxUploadSize())

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Validator = handlers.NewValidator()
	e.Renderer = rendering.NewUniversalRenderer()

	// Session middleware backs the flash messages.
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	// Serve static files from the "web/static" directory.
	e.Static("/static", "web/static")

	return &Server{
		E:               e,
		DB:              db,
		Cfg:             cfg,
		Emailer:         emailer,
		userStore:       userStore,
		emailStore:      emailStore,
		docStore:        docStore,
		files:           files,
		bus:             bus,
		processor:       proc,
		homeHandler:     homeHandler,
		authHandler:     authHandler,
		accountHandler:  accountHandler,
		documentHandler: documentHandler,
	}
}

// UserStore is a getter for the server's user store, useful for testing.
func (s *Server) UserStore() domain.UserRepository {
	return s.userStore
}

// DocumentStore is a getter for the server's document store, useful for testing.
func (s *Server) DocumentStore() domain.DocumentRepository {
	return s.docStore
}
