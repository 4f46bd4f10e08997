// Package tolet is the web front end of a rental listing and blog site,
// built with Go, Echo and templ. Every page is a form backed by calls to an
// external REST backend; per-visitor state (login, open drafts, list views)
// is held server-side.
package tolet

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/db"
	"github.com/eringen/tolet/draft"
	"github.com/eringen/tolet/session"
	"github.com/eringen/tolet/staging"
)

// App is the central tolet application. It wires together the backend
// client, session manager, draft registry, caches, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	API      *api.Client
	Sessions *session.Manager
	Drafts   *draft.Registry
	Listings *ListingCache
	Logger   *slog.Logger

	limiter        Limiter
	httpClient     *http.Client
	sessionBackend session.Backend
	stagingStore   staging.Store
	redis          *redis.Client
	stops          []func()
	customRoutes   []func(*App)
	ready          bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	a := &App{
		Config: cfg,
		Echo:   e,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithLogger sets the logger for request and handler logs.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// Setup opens every resource and registers middleware and routes. Start
// calls it; tests call it directly and then serve a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	a.API = api.NewClient(a.Config.BackendURL, a.httpClient)

	if a.Config.RedisAddr != "" && (a.sessionBackend == nil || a.limiter == nil) {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
	}

	if a.sessionBackend == nil {
		backend, err := a.openSessionBackend()
		if err != nil {
			return err
		}
		a.sessionBackend = backend
	}
	a.Sessions = session.NewManager(a.sessionBackend)

	if a.stagingStore == nil {
		store, err := a.openStagingStore()
		if err != nil {
			return err
		}
		a.stagingStore = store
	}
	a.Drafts = draft.NewRegistry(a.stagingStore, a.Config.DraftTTL)
	a.stops = append(a.stops, a.Drafts.StartSweeper(5*time.Minute))

	a.Listings = NewListingCache(a.API, a.Config.ListingCacheTTL, a.Logger)
	a.stops = append(a.stops, a.Listings.StartJanitor(a.Config.ListingCacheTTL))

	if a.limiter == nil {
		if a.redis != nil {
			a.limiter = NewRedisLimiter(a.redis, 5, time.Minute)
		} else {
			a.limiter = NewLoginLimiter(5, time.Minute)
		}
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) openSessionBackend() (session.Backend, error) {
	if a.redis != nil {
		return session.NewRedisBackend(a.redis, session.DefaultRedisPrefix, a.Config.SessionTTL), nil
	}
	conn, err := db.Open(a.Config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("tolet: open session db: %w", err)
	}
	backend := session.NewSQLiteBackend(conn, a.Config.SessionTTL)
	a.stops = append(a.stops, backend.StartCleanup(10*time.Minute))
	return backend, nil
}

func (a *App) openStagingStore() (staging.Store, error) {
	if a.Config.Minio.Endpoint != "" {
		store, err := staging.NewMinio(a.Config.Minio)
		if err != nil {
			return nil, fmt.Errorf("tolet: init minio staging: %w", err)
		}
		return store, nil
	}
	store, err := staging.NewLocal(a.Config.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("tolet: init staging dir: %w", err)
	}
	return store, nil
}

// Start initializes everything and serves until the server stops.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "backend", a.Config.BackendURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))

	e.GET("/", handleIndex)
	e.GET("/home", a.handleHome)

	e.GET("/login", a.handleLoginPage)
	e.POST("/login", a.handleLogin)
	e.GET("/register", a.handleRegisterPage)
	e.POST("/register", a.handleRegister)
	e.GET("/forgot-password", a.handleForgotPage)
	e.POST("/forgot-password", a.handleForgot)
	e.GET("/reset-password/:token", a.handleResetPage)
	e.POST("/reset-password/:token", a.handleReset)
	e.POST("/logout", a.handleLogout)

	e.GET("/property-listing", a.handlePropertyList)
	e.GET("/property/:id", a.handlePropertyDetail)
	e.GET("/add-new-property", a.handleAddProperty)
	e.GET("/property/:id/edit", a.handleEditProperty)
	e.POST("/property/:id/delete", a.handleDeleteProperty)

	e.GET("/blog", a.handleBlogList)
	e.GET("/blog/add", a.handleAddBlog)
	e.GET("/blog/:id", a.handleBlogDetail)
	e.POST("/blog/:id/like", a.handleLikeBlog)
	e.GET("/blog/:id/edit", a.handleEditBlog)
	e.POST("/blog/:id/delete", a.handleDeleteBlog)

	d := e.Group("/drafts/:draft", middleware.BodyLimit("64M"), a.requireDraft)
	d.GET("", a.handleDraftPage)
	d.GET("/staged/:name", a.handleStagedPreview)
	d.POST("/fields", a.handleDraftFields)
	d.POST("/toggle", a.handleDraftToggle)
	d.POST("/tags", a.handleDraftTags)
	d.POST("/location", a.handleDraftLocation)
	d.POST("/photos", a.handleDraftPhotos)
	d.POST("/staged/:index/remove", a.handleDraftRemoveStaged)
	d.POST("/existing", a.handleDraftExisting)
	d.POST("/cover", a.handleDraftCover)
	d.POST("/submit", a.handleDraftSubmit)
	d.POST("/discard", a.handleDraftDiscard)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	for _, stop := range a.stops {
		stop()
	}
	if a.Drafts != nil {
		a.Drafts.Close()
	}
	if c, ok := a.limiter.(interface{ Close() }); ok {
		c.Close()
	}
	var errs []error
	if a.Sessions != nil {
		if err := a.Sessions.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
