package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csv-reconciler/core/config"
	"csv-reconciler/core/database"
	"csv-reconciler/core/loader"
	"csv-reconciler/core/logger"
	"csv-reconciler/core/metrics"
	"csv-reconciler/core/middleware/auth"
	"csv-reconciler/core/middleware/rayid"
	"csv-reconciler/core/reconcile"
	"csv-reconciler/core/storage"
	"csv-reconciler/feature/diff"
	"csv-reconciler/feature/export"
	"csv-reconciler/feature/history"
	"csv-reconciler/feature/snapshot"
	"csv-reconciler/feature/templates"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "csv-reconciler/docs/swagger"
)

// @title CSV Reconciler API
// @version 1.0
// @description Reconcile two CSV snapshots and export the differences.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		var runs *history.Repository
		if cfg.Database.Enabled {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed, run history disabled", zap.Error(err))
			} else {
				repo := history.NewRepository(db)
				if err := repo.Migrate(); err != nil {
					logg.Warn("History migration failed, run history disabled", zap.Error(err))
				} else {
					runs = repo
					logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
				}
			}
		}

		// 4. Initialize Storage (Optional)
		var fetcher *snapshot.Fetcher
		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err = storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region)
			cancel()
			if err != nil {
				logg.Fatal("Failed to prepare storage bucket", zap.Error(err))
			}
			fetcher = snapshot.NewFetcher(store, cfg.Storage, cfg.Diff.DownloadDir, logg)
		}

		// 5. Reconciliation core
		engine, err := reconcile.NewEngine(cfg.Reconcile)
		if err != nil {
			logg.Fatal("Invalid reconcile configuration", zap.Error(err))
		}
		recorder := metrics.NewRecorder()
		runner := reconcile.NewRunner(engine,
			reconcile.WithLogger(logg),
			reconcile.WithObserver(recorder),
			reconcile.WithCache(reconcile.NewCache(cfg.Reconcile.CacheTTL)),
		)

		tpls := templates.NewStore(cfg.Templates.File, logg)
		if err := tpls.Load(); err != nil {
			logg.Fatal("Failed to load templates", zap.Error(err))
		}

		opts := []diff.Option{diff.WithLogger(logg), diff.WithTemplates(tpls)}
		if fetcher != nil {
			opts = append(opts, diff.WithFetcher(fetcher))
		}
		if runs != nil {
			opts = append(opts, diff.WithHistory(runs))
		}
		service := diff.NewService(cfg.Diff, runner, export.NewWriter(cfg.Export), opts...)
		if cfg.Diff.LocalRoot == "" {
			logg.Info("Local diff sources disabled, set DIFF_LOCAL_ROOT to enable them")
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(diff.NewFeature(service, logg))
		mgr.Register(templates.NewFeature(tpls, logg))
		mgr.Register(history.NewFeature(runs, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Info("Request handled",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		})

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Metrics.Enabled {
			app.Get(cfg.Metrics.RoutePath(), recorder.Handler())
		}

		// 4. Auth (Protect API)
		if !cfg.Server.AuthEnabled() {
			logg.Warn("No API key configured, the API is unprotected")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		service.Close()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
