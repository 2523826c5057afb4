package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	redisadapter "github.com/videoflow/server/internal/adapter/outbound/redis"
	"github.com/videoflow/server/internal/adapter/outbound/s3"
	"github.com/videoflow/server/internal/module/auth"
	"github.com/videoflow/server/internal/module/comment"
	"github.com/videoflow/server/internal/module/media"
	"github.com/videoflow/server/internal/module/notification"
	"github.com/videoflow/server/internal/module/realtime"
	"github.com/videoflow/server/internal/module/team"
	"github.com/videoflow/server/internal/module/thumbnail"
	"github.com/videoflow/server/internal/module/user"
	"github.com/videoflow/server/internal/module/video"
	"github.com/videoflow/server/internal/module/youtube"
	"github.com/videoflow/server/internal/shared/config"
	"github.com/videoflow/server/internal/shared/database"
	"github.com/videoflow/server/internal/shared/logger"
	"github.com/videoflow/server/internal/utils/metrics"
	"github.com/videoflow/server/internal/utils/middleware"
)

// Application is the interface the server entrypoint runs against.
type Application interface {
	Router() *gin.Engine
	Stop()
}

var _ Application = (*App)(nil)

// App represents the application.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   *redis.Client
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	jwtManager   *auth.JWTManager
	hub          *realtime.Hub
	bridgeCancel context.CancelFunc

	userHandler     *user.Handler
	teamHandler     *team.Handler
	videoHandler    *video.Handler
	commentHandler  *comment.Handler
	mediaHandler    *media.Handler
	youtubeHandler  *youtube.Handler
	realtimeHandler *realtime.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New("videoflow"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	app.redis = redisClient

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&team.Team{},
		&team.Member{},
		&team.Invitation{},
		&video.Video{},
		&comment.Comment{},
		&comment.Reaction{},
		&comment.Mention{},
	)
}

// initModules wires every module and its cross-module dependencies.
func (a *App) initModules() error {
	cfg := a.config

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:      cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
	})

	store, err := s3.NewMediaStore(context.Background(), &cfg.Storage)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}

	userRepo := user.NewRepository(a.db)
	teamRepo := team.NewRepository(a.db)
	videoRepo := video.NewRepository(a.db)
	commentRepo := comment.NewRepository(a.db)

	var sender notification.EmailSender
	if cfg.SMTP.Enabled {
		sender = notification.NewGomailSender(&cfg.SMTP, a.metrics, a.logger)
	} else {
		sender = notification.NewNoOpSender(a.logger)
	}
	notifier := notification.NewNotifier(sender, newTeamRecipientResolver(teamRepo), cfg.FrontendURL, a.logger)

	teamService := team.NewService(teamRepo, newTeamUserDirectory(userRepo), notifier, a.logger)
	a.teamHandler = team.NewHandler(teamService, a.logger)

	userService := user.NewService(userRepo, teamService, teamService, a.logger)
	a.userHandler = user.NewHandler(userService, a.jwtManager, user.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
	})

	youtubeService := youtube.NewService(
		youtube.NewProvider(&cfg.YouTube),
		redisadapter.NewOAuthStateStore(a.redis),
		userRepo,
		a.logger,
	)
	a.youtubeHandler = youtube.NewHandler(youtubeService, a.logger)
	publisher := youtube.NewPublisher(youtubeService, store, a.logger)

	thumbs := thumbnail.NewGenerator(a.thumbnailVendors(), a.logger)

	videoService := video.NewService(
		videoRepo,
		teamService,
		teamService,
		store,
		publisher,
		thumbs,
		notifier,
		commentRepo,
		a.metrics,
		a.logger,
	)
	a.videoHandler = video.NewHandler(videoService, a.logger)

	bridge := redisadapter.NewRoomBridge(a.redis, a.logger)
	a.hub = realtime.NewHub(videoService, bridge, a.metrics, a.logger)

	bridgeCtx, cancel := context.WithCancel(context.Background())
	a.bridgeCancel = cancel
	go bridge.Listen(bridgeCtx, a.hub.Receive)

	a.realtimeHandler = realtime.NewHandler(
		a.hub,
		a.jwtManager,
		newWSUserDirectory(userRepo),
		cfg.Auth.CookieName,
		cfg.FrontendURL,
		a.logger,
	)

	commentService := comment.NewService(commentRepo, videoService, teamService, a.hub, a.logger)
	a.commentHandler = comment.NewHandler(commentService, a.logger)

	a.mediaHandler = media.NewHandler(store, a.logger)

	return nil
}

// thumbnailVendors builds the vendor chain in configured order, skipping
// vendors without an API key.
func (a *App) thumbnailVendors() []thumbnail.Vendor {
	client := &http.Client{Timeout: 2 * time.Minute}

	var vendors []thumbnail.Vendor
	for _, name := range a.config.Thumbnail.VendorOrder {
		switch name {
		case "openai":
			if key := a.config.Thumbnail.OpenAIAPIKey; key != "" {
				vendors = append(vendors, thumbnail.NewOpenAIVendor(key, client))
			}
		case "stability":
			if key := a.config.Thumbnail.StabilityAPIKey; key != "" {
				vendors = append(vendors, thumbnail.NewStabilityVendor(key, client))
			}
		default:
			a.logger.Warn("unknown thumbnail vendor", zap.String("vendor", name))
		}
	}
	return vendors
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(a.config.FrontendURL))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (a *App) registerRoutes() {
	api := a.router.Group("/api")

	public := api.Group("")
	a.userHandler.RegisterPublicRoutes(public)

	protected := api.Group("")
	protected.Use(middleware.Auth(a.jwtManager, a.config.Auth.CookieName))
	a.userHandler.RegisterRoutes(protected)
	a.teamHandler.RegisterRoutes(protected)
	a.videoHandler.RegisterRoutes(protected)
	a.commentHandler.RegisterRoutes(protected)
	a.mediaHandler.RegisterRoutes(protected)
	a.youtubeHandler.RegisterRoutes(protected)

	// The websocket authenticates during its own handshake, before joining
	// any room, so it lives outside the auth middleware.
	a.realtimeHandler.RegisterRoutes(a.router.Group(""))
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop shuts down background components and closes connections.
func (a *App) Stop() {
	if a.bridgeCancel != nil {
		a.bridgeCancel()
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}

	if a.redis != nil {
		_ = a.redis.Close()
	}

	if a.db != nil {
		_ = database.Close(a.db)
	}
}
