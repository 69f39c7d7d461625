package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"camkit/core/config"
	"camkit/core/loader"
	"camkit/core/logger"
	"camkit/core/middleware/auth"
	"camkit/core/middleware/rayid"
	"camkit/core/timer"
	"camkit/core/tweakdb"
	"camkit/feature/editor"
	"camkit/feature/preset"
	"camkit/feature/resolver"
	"camkit/feature/session"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the camera preset service",
	Long:  `Starts the HTTP server and initializes the camera core.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, level, err := logger.NewWithControl(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Tweak store backend. The memory driver needs no connection;
		// sqlite and mysql go through GORM.
		var tweaks tweakdb.Store
		if cfg.TweakDB.Driver == tweakdb.DriverMemory {
			tweaks = tweakdb.NewMemory()
		} else {
			db, err := tweakdb.Connect(cfg.TweakDB)
			if err != nil {
				logg.Fatal("Failed to connect tweak store backend", zap.Error(err))
			}
			store, err := tweakdb.NewGorm(db, logg)
			if err != nil {
				logg.Fatal("Failed to migrate tweak store schema", zap.Error(err))
			}
			tweaks = store
		}
		logg.Info("Tweak store ready", zap.String("driver", cfg.TweakDB.Driver))

		// 4. Camera core
		fs := osfs.New(cfg.Presets.Root)
		usage := preset.NewUsageTracker(fs, cfg.Presets.UsageFile, logg)
		store := preset.NewStore(fs, cfg.Presets, usage, logg)
		res := resolver.New(tweaks, logg)
		applier := preset.NewApplier(store, tweaks, res, usage, cfg.Camera, logg)
		ed := editor.NewMachine(store, applier, res, tweaks, logg)
		options := session.NewOptions(fs, cfg.Session.OptionsFile, logg)

		svc := session.NewService(cfg.Session, store, usage, applier, res, ed,
			timer.NewScheduler(), options, logg)
		svc.SetLevelHandle(level)
		if err := svc.Start(); err != nil {
			// An incomplete baseline set keeps the service up but disabled,
			// so the failure stays visible through the status endpoint.
			logg.Error("Session started disabled", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(session.NewFeature(svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		svc.Unmount()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
