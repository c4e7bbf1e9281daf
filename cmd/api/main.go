package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/config"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/domain/sqlite"
	"simplecms/cmd/internal/domain/sqlite/repository"
	"simplecms/cmd/internal/http/handler"
	"simplecms/cmd/internal/http/middleware"
	cognitoclient "simplecms/cmd/internal/infrastructure/aws/cognito"
	"simplecms/cmd/internal/infrastructure/aws/storage"
	"simplecms/cmd/internal/infrastructure/aws/websocket"
	"simplecms/cmd/internal/infrastructure/localfs"
	"simplecms/cmd/internal/metrics"
	"simplecms/cmd/internal/seed"
	"simplecms/cmd/internal/service"
	"simplecms/cmd/internal/service/jobs"
	"simplecms/cmd/internal/utils/uid"
	"simplecms/cmd/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

const envVarsPrefix = "/simplecms/prod/"

const usage = `usage: simplecms [command] [flags]

commands:
  serve      run the HTTP server (default)
  seed       seed the database if it has no users
  reset-db   drop every table and reseed (requires --force)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	flags := pflag.NewFlagSet(command, pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded outside production")
	force := flags.Bool("force", false, "confirm destructive commands")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	uid.Init(cfg.SnowflakeNode)

	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	dataset, err := seed.DefaultDataset()
	if err != nil {
		return err
	}
	seeder := seed.NewSeeder(db, dataset, collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		return serve(ctx, cfg, db, seeder, reg, collector)
	case "seed":
		summary, err := seeder.InitialiseIfEmpty(ctx)
		if err != nil {
			return err
		}
		if summary.Skipped {
			log.Info("database already has users, nothing to do")
		}
		return nil
	case "reset-db":
		if !*force {
			return errors.New("reset-db drops every table, rerun with --force to confirm")
		}
		_, err := seeder.Reset(ctx)
		return err
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB, seeder *seed.Seeder, reg *prometheus.Registry, collector *metrics.Collector) error {
	if _, err := seeder.InitialiseIfEmpty(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	registry, err := schema.NewDefault()
	if err != nil {
		return err
	}
	validate := validators.New()

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	// File adapters
	files, err := localfs.NewStore(cfg.StaticPath, cfg.StaticURL)
	if err != nil {
		return fmt.Errorf("failed to prepare static path: %w", err)
	}

	var images service.FileStore = files
	if cfg.ImagesOnS3() {
		s3Images, err := storage.NewImageStore(ctx, cfg.ImageS3Region, cfg.ImageS3Bucket, cfg.ImagePublicURL)
		if err != nil {
			return fmt.Errorf("failed to init image bucket: %w", err)
		}
		images = s3Images
	}

	// Realtime feed
	var notifier service.ChangeNotifier = service.NoopNotifier{}
	var wsService *service.WebSocketService
	if cfg.RealtimeEnabled() {
		gateway, err := websocket.NewAWSGatewayClient(ctx, cfg.WSGatewayEndpoint, cfg.WSGatewayRegion)
		if err != nil {
			return fmt.Errorf("failed to init websocket gateway: %w", err)
		}
		wsService = service.NewWebSocketService(connRepo, gateway)
		notifier = wsService
	}

	// Auth strategies
	password, err := auth.NewPasswordStrategy(userRepo)
	if err != nil {
		return err
	}

	var federated service.FederatedValidator
	if cfg.SocialLogin {
		verifier, err := auth.NewCognitoVerifier(ctx, cfg.CognitoRegion, cfg.CognitoPoolID)
		if err != nil {
			return fmt.Errorf("failed to init cognito verifier: %w", err)
		}
		cogClient, err := cognitoclient.NewClient(ctx, cfg.CognitoRegion)
		if err != nil {
			return fmt.Errorf("failed to init cognito client: %w", err)
		}
		federated = auth.NewFederatedStrategy(verifier, cogClient, userRepo)
	}

	// Getting services
	sessionService := service.NewSessionService(
		sessionRepo, userRepo, password, federated,
		auth.NewSessionSigner(cfg.SessionSecret), validate, collector, cfg.SessionMaxAge,
	)
	userService := service.NewUserService(registry, userRepo, noteRepo, files, images, validate)
	postService := service.NewPostService(registry, postRepo, categoryRepo, userRepo, notifier, validate)
	categoryService := service.NewCategoryService(registry, categoryRepo, notifier, validate)
	noteService := service.NewNoteService(registry, noteRepo, userRepo, notifier, validate)
	schemaService := service.NewSchemaService(registry)

	// Getting handlers
	sessionRoutes := handler.NewSessionDefault(sessionService, seeder, cfg.CookieSecure, cfg.AdminPath)
	userRoutes := handler.NewUserDefault(userService)
	postRoutes := handler.NewPostDefault(postService)
	categoryRoutes := handler.NewCategoryDefault(categoryService)
	noteRoutes := handler.NewNoteDefault(noteService)
	schemaRoutes := handler.NewSchemaDefault(schemaService)

	signInLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.SignInRatePerMin, cfg.SignInBurst, cfg.RateLimitCleanup))
	defer signInLimiter.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSAllowedOrigin},
		AllowCredentials: cfg.CORSAllowedOrigin != "*",
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Infof("%s %s %d %s", v.Method, v.URIPath, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.NewMetricsMiddleware(collector))
	e.Use(middleware.NewSessionMiddleware(sessionService))

	e.Static(cfg.StaticURL, cfg.StaticPath)

	// Session
	e.GET("/api/session", sessionRoutes.GetSession)
	e.GET("/api/signin", sessionRoutes.SignIn, signInLimiter.Middleware())
	e.POST("/api/signin/federated", sessionRoutes.SignInFederated, signInLimiter.Middleware())
	e.GET("/api/signout", sessionRoutes.SignOut)
	if cfg.AllowDBReset {
		log.Warn("/reset-db is enabled")
		e.GET("/reset-db", sessionRoutes.ResetDB)
	}

	// Users
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.PATCH("/api/users/:id", userRoutes.UpdateUser)
	e.DELETE("/api/users/:id", userRoutes.DeleteUser)
	e.PUT("/api/users/:id/attachment", userRoutes.UploadAttachment)
	e.PUT("/api/users/:id/avatar", userRoutes.UploadAvatar)

	// Posts
	e.GET("/api/posts", postRoutes.GetPosts)
	e.GET("/api/posts/:id", postRoutes.GetPost)
	e.POST("/api/posts", postRoutes.CreatePost)
	e.PATCH("/api/posts/:id", postRoutes.UpdatePost)
	e.DELETE("/api/posts/:id", postRoutes.DeletePost)

	// Post categories
	e.GET("/api/post-categories", categoryRoutes.GetCategories)
	e.GET("/api/post-categories/:id", categoryRoutes.GetCategory)
	e.POST("/api/post-categories", categoryRoutes.CreateCategory)
	e.PATCH("/api/post-categories/:id", categoryRoutes.UpdateCategory)
	e.DELETE("/api/post-categories/:id", categoryRoutes.DeleteCategory)

	// Notes
	e.GET("/api/notes", noteRoutes.GetNotes)
	e.GET("/api/notes/:id", noteRoutes.GetNote)
	e.POST("/api/notes", noteRoutes.CreateNote)
	e.PATCH("/api/notes/:id", noteRoutes.UpdateNote)
	e.DELETE("/api/notes/:id", noteRoutes.DeleteNote)

	// Admin metadata
	e.GET("/api/schema", schemaRoutes.GetSchema)
	e.GET("/api/schema/:path", schemaRoutes.GetListSchema)

	if wsService != nil {
		wsRoutes := handler.NewWSDefault(wsService)
		e.POST("/ws/connect", wsRoutes.HandleConnect)
		e.POST("/ws/disconnect", wsRoutes.HandleDisconnect)
		e.POST("/ws/message", wsRoutes.HandleMessage)

		go jobs.NewConnectionCleaner(wsService, collector).Start(ctx)
	}
	go jobs.NewSessionCleaner(sessionRepo, collector).Start(ctx)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	prefixLength := len(envVarsPrefix)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			log.Fatalf("unable to load prod environment, %v", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := (*param.Name)[prefixLength:]
			if err := os.Setenv(key, *param.Value); err != nil {
				log.Fatalf("unable to set environment variable, %v", err)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
